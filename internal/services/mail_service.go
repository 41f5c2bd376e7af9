package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"chat-gateway/internal/config"
	"chat-gateway/internal/models"
	"chat-gateway/internal/pkg/logger"
)

// Sender abstracts the SMTP dial-and-send so tests can swap the transport.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailService relays contact-form submissions to the configured inbox.
type MailService struct {
	sender Sender
	config config.SMTPConfig
	logger *logger.Logger
}

func NewMailService(cfg config.SMTPConfig, log *logger.Logger) *MailService {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	log.Info("mail service initialized", "host", cfg.Host, "port", cfg.Port, "to", cfg.To)

	return &MailService{
		sender: dialer,
		config: cfg,
		logger: log,
	}
}

// NewMailServiceWithSender is used by tests to inject a fake transport.
func NewMailServiceWithSender(sender Sender, cfg config.SMTPConfig, log *logger.Logger) *MailService {
	return &MailService{sender: sender, config: cfg, logger: log}
}

// SendContactMail delivers one contact submission and returns the message id
// assigned to it. gomail's send is synchronous, so the context is only
// honored up front.
func (service *MailService) SendContactMail(ctx context.Context, req *models.ContactRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	startTime := time.Now()
	messageID := fmt.Sprintf("<%s@chat-gateway>", uuid.New().String())

	m := gomail.NewMessage()
	m.SetHeader("From", service.config.From)
	m.SetHeader("To", service.config.To)
	m.SetHeader("Reply-To", req.Email)
	m.SetHeader("Message-ID", messageID)
	m.SetHeader("Subject", fmt.Sprintf("Contact form: %s", req.Name))
	m.SetBody("text/plain", formatContactBody(req))

	if err := service.sender.DialAndSend(m); err != nil {
		service.logger.LogService("mail", "send_contact", time.Since(startTime), map[string]interface{}{
			"from": req.Email,
		}, err)
		return "", fmt.Errorf("contact mail delivery failed: %w", err)
	}

	service.logger.LogService("mail", "send_contact", time.Since(startTime), map[string]interface{}{
		"from":       req.Email,
		"message_id": messageID,
	}, nil)

	return messageID, nil
}

func formatContactBody(req *models.ContactRequest) string {
	body := fmt.Sprintf("Name: %s\nEmail: %s\n", req.Name, req.Email)
	if req.Company != "" {
		body += fmt.Sprintf("Company: %s\n", req.Company)
	}
	body += fmt.Sprintf("\n%s\n", req.Message)
	return body
}
