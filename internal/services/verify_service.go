package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"chat-gateway/internal/config"
	"chat-gateway/internal/models"
	"chat-gateway/internal/pkg/logger"
)

// VerifyService checks anti-abuse tokens against the reCAPTCHA siteverify
// endpoint. It reports the raw verdict; threshold policy is applied by the
// caller via VerificationResult.Accepted.
type VerifyService struct {
	client *resty.Client
	config config.RecaptchaConfig
	logger *logger.Logger
}

func NewVerifyService(cfg config.RecaptchaConfig, log *logger.Logger) *VerifyService {
	return &VerifyService{
		client: resty.New().SetTimeout(cfg.Timeout),
		config: cfg,
		logger: log,
	}
}

func (service *VerifyService) Verify(ctx context.Context, token string) (*models.VerificationResult, error) {
	startTime := time.Now()

	var result models.VerificationResult

	resp, err := service.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"secret":   service.config.Secret,
			"response": token,
		}).
		SetResult(&result).
		Post(service.config.VerifyURL)

	if err != nil {
		service.logger.LogService("verification", "verify_token", time.Since(startTime), nil, err)
		return nil, fmt.Errorf("verification service unreachable: %w", err)
	}

	if resp.IsError() {
		err := fmt.Errorf("verification service returned status %d", resp.StatusCode())
		service.logger.LogService("verification", "verify_token", time.Since(startTime), nil, err)
		return nil, err
	}

	service.logger.LogService("verification", "verify_token", time.Since(startTime), map[string]interface{}{
		"success": result.Success,
		"score":   result.Score,
	}, nil)

	return &result, nil
}
