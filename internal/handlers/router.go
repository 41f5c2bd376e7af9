package handlers

import (
	"github.com/gin-gonic/gin"

	"chat-gateway/internal/config"
	"chat-gateway/internal/models"
	"chat-gateway/internal/pkg/logger"
)

// NewRouter wires the gateway's HTTP surface: the two POST endpoints, the
// operational endpoints, and catch-all 404/405 handling.
func NewRouter(handler *Handler, cfg *config.Config, log *logger.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(RequestLogger(log))
	router.Use(ErrorHandler(cfg, log))
	router.Use(Recovery(log))

	router.POST("/chat", handler.Chat)
	router.POST("/contact", handler.Contact)
	router.GET("/health", handler.Health)
	router.GET("/stats", handler.Stats)

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(models.NewNotFoundError(c.Request.URL.Path))
	})
	router.NoMethod(func(c *gin.Context) {
		_ = c.Error(models.NewMethodNotAllowedError(c.Request.Method))
	})

	return router
}
