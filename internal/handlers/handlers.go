package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"chat-gateway/internal/models"
	"chat-gateway/internal/pkg/logger"
)

// ChatService is the orchestrator surface the chat handler needs.
type ChatService interface {
	Handle(ctx context.Context, req *models.ChatRequest) (*models.ResponseEnvelope, error)
	GetStats() map[string]interface{}
}

// ContactService relays validated contact submissions.
type ContactService interface {
	Handle(ctx context.Context, req *models.ContactRequest) (*models.ContactResponse, error)
}

// CacheProbe is the health surface of the cache store.
type CacheProbe interface {
	HealthCheck(ctx context.Context) error
	BreakerState() string
}

type Handler struct {
	chat     ChatService
	contact  ContactService
	cache    CacheProbe
	validate *validator.Validate
	logger   *logger.Logger
}

func NewHandler(chat ChatService, contact ContactService, cache CacheProbe, log *logger.Logger) *Handler {
	return &Handler{
		chat:     chat,
		contact:  contact,
		cache:    cache,
		validate: NewValidator(),
		logger:   log,
	}
}

// Chat handles POST /chat.
func (h *Handler) Chat(c *gin.Context) {
	var in models.ChatRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.abort(c, models.NewValidationError("request body is not valid JSON", nil).WithCause(err))
		return
	}

	if appErr := validateStruct(h.validate, &in); appErr != nil {
		h.abort(c, appErr)
		return
	}

	envelope, err := h.chat.Handle(c.Request.Context(), models.NewChatRequest(in))
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, envelope)
}

// Contact handles POST /contact.
func (h *Handler) Contact(c *gin.Context) {
	var in models.ContactRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		h.abort(c, models.NewValidationError("request body is not valid JSON", nil).WithCause(err))
		return
	}

	if appErr := validateStruct(h.validate, &in); appErr != nil {
		h.abort(c, appErr)
		return
	}

	resp, err := h.contact.Handle(c.Request.Context(), &in)
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	cacheStatus := "ok"
	if err := h.cache.HealthCheck(c.Request.Context()); err != nil {
		cacheStatus = err.Error()
	}

	status := http.StatusOK
	if cacheStatus != "ok" {
		// cache is optional, report degraded but stay healthy
		cacheStatus = "degraded: " + cacheStatus
	}

	c.JSON(status, gin.H{
		"status": "ok",
		"cache": gin.H{
			"status":  cacheStatus,
			"breaker": h.cache.BreakerState(),
		},
	})
}

// Stats handles GET /stats.
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.chat.GetStats())
}

func (h *Handler) abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
