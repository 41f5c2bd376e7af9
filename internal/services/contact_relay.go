package services

import (
	"context"

	"chat-gateway/internal/config"
	"chat-gateway/internal/models"
	"chat-gateway/internal/pkg/logger"
)

// ContactMailer delivers one contact submission, returning a message id.
type ContactMailer interface {
	SendContactMail(ctx context.Context, req *models.ContactRequest) (string, error)
}

// ContactRelay gates contact-form submissions behind token verification and
// forwards them over SMTP. Unlike the chat gate, the token is always
// required here.
type ContactRelay struct {
	verifier TokenVerifier
	mailer   ContactMailer
	minScore float64
	logger   *logger.Logger
}

func NewContactRelay(verifier TokenVerifier, mailer ContactMailer, cfg config.RecaptchaConfig, log *logger.Logger) *ContactRelay {
	return &ContactRelay{
		verifier: verifier,
		mailer:   mailer,
		minScore: cfg.MinScore,
		logger:   log,
	}
}

func (relay *ContactRelay) Handle(ctx context.Context, req *models.ContactRequest) (*models.ContactResponse, error) {
	result, err := relay.verifier.Verify(ctx, req.RecaptchaToken)
	if err != nil {
		return nil, models.NewInternalError("verification service unavailable").WithCause(err)
	}

	if !result.Accepted(relay.minScore) {
		relay.logger.Warn("contact verification rejected", "email", req.Email, "score", result.Score)
		return nil, models.NewForbiddenError("verification failed").WithDetail("score", result.Score)
	}

	messageID, err := relay.mailer.SendContactMail(ctx, req)
	if err != nil {
		return nil, models.NewInternalError("failed to deliver your message").WithCause(err)
	}

	relay.logger.Info("contact message relayed", "email", req.Email, "message_id", messageID)

	return &models.ContactResponse{
		Success: true,
		Message: "Thanks for reaching out. We'll get back to you shortly.",
	}, nil
}
