package services

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-resty/resty/v2"

	"chat-gateway/internal/config"
	"chat-gateway/internal/models"
	"chat-gateway/internal/pkg/logger"
)

// WorkflowService calls the external workflow webhook that produces the
// actual chat answer. The webhook is an opaque black box: this service only
// ships the normalized request body and hands the raw reply bytes back to
// the normalizer.
type WorkflowService struct {
	client *resty.Client
	config config.WorkflowConfig
	logger *logger.Logger
}

func NewWorkflowService(cfg config.WorkflowConfig, log *logger.Logger) *WorkflowService {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "chat-gateway/1.0")

	log.Info("workflow service initialized",
		"webhook_url", cfg.WebhookURL,
		"timeout", cfg.Timeout.String(),
		"retry_attempts", cfg.RetryAttempts)

	return &WorkflowService{
		client: client,
		config: cfg,
		logger: log,
	}
}

// Invoke posts the request to the webhook and returns the raw response body.
// Transport errors and 5xx replies are retried with exponential backoff;
// 4xx replies are permanent since retrying the same body cannot help.
func (service *WorkflowService) Invoke(ctx context.Context, req *models.WorkflowRequest) ([]byte, error) {
	startTime := time.Now()

	operation := func() ([]byte, error) {
		resp, err := service.client.R().
			SetContext(ctx).
			SetBody(req).
			Post(service.config.WebhookURL)
		if err != nil {
			return nil, fmt.Errorf("workflow webhook unreachable: %w", err)
		}

		if resp.StatusCode() >= 500 {
			return nil, fmt.Errorf("workflow webhook returned status %d", resp.StatusCode())
		}
		if resp.IsError() {
			return nil, backoff.Permanent(fmt.Errorf("workflow webhook rejected request with status %d", resp.StatusCode()))
		}

		return resp.Body(), nil
	}

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(service.config.RetryAttempts),
	)

	service.logger.LogService("workflow", "invoke", time.Since(startTime), map[string]interface{}{
		"message_id":    req.MessageID,
		"user_id":       req.UserID,
		"response_size": len(body),
	}, err)

	if err != nil {
		return nil, err
	}

	return body, nil
}
