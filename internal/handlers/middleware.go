package handlers

import (
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"chat-gateway/internal/config"
	"chat-gateway/internal/models"
	"chat-gateway/internal/pkg/logger"
)

// ErrorHandler converts any error attached to the gin context into the one
// stable error envelope. Details (including causes) and stacks stay inside
// the process in production mode.
func ErrorHandler(cfg *config.Config, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := models.AsAppError(c.Errors.Last().Err)

		body := models.ErrorBody{
			Message:   appErr.Message,
			Status:    appErr.Status,
			Code:      appErr.Code,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Path:      c.Request.URL.Path,
		}

		if !cfg.IsProduction() {
			body.Details = appErr.Details
			if appErr.Cause != nil {
				if body.Details == nil {
					body.Details = map[string]interface{}{}
				}
				body.Details["cause"] = appErr.Cause.Error()
			}
			body.Stack = appErr.Stack
		} else if fields, ok := appErr.Details["fields"]; ok {
			// field-level validation errors are client-facing, keep them
			body.Details = map[string]interface{}{"fields": fields}
		}

		if appErr.Status >= 500 {
			log.Error("request failed", "path", c.Request.URL.Path, "code", appErr.Code, "error", appErr.Error())
		}

		c.JSON(appErr.Status, models.ErrorResponse{Error: body})
	}
}

// Recovery turns panics into internal errors carrying the stack, rendered
// by ErrorHandler like every other failure.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		appErr := models.NewInternalError("an unexpected error occurred").
			WithDetail("panic", recovered)
		appErr.Stack = string(debug.Stack())

		log.Error("panic recovered", "path", c.Request.URL.Path, "panic", recovered)

		_ = c.Error(appErr)
		c.Abort()
	})
}

// RequestLogger records one line per handled request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		log.LogRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(startTime))
	}
}
