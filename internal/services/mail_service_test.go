package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"chat-gateway/internal/config"
	"chat-gateway/internal/services"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

func smtpConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "gateway@example.com",
		To:   "inbox@example.com",
	}
}

func TestSendContactMail(t *testing.T) {
	sender := &fakeSender{}
	service := services.NewMailServiceWithSender(sender, smtpConfig(), testLogger(t))

	messageID, err := service.SendContactMail(context.Background(), contactRequest())

	require.NoError(t, err)
	assert.Regexp(t, `^<[0-9a-f-]+@chat-gateway>$`, messageID)
	require.Len(t, sender.sent, 1)

	m := sender.sent[0]
	assert.Equal(t, []string{"gateway@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"inbox@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"ada@example.com"}, m.GetHeader("Reply-To"))
	assert.Equal(t, []string{"Contact form: Ada"}, m.GetHeader("Subject"))
}

func TestSendContactMailDeliveryFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("dial tcp: connection refused")}
	service := services.NewMailServiceWithSender(sender, smtpConfig(), testLogger(t))

	_, err := service.SendContactMail(context.Background(), contactRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "contact mail delivery failed")
}

func TestSendContactMailHonorsCancelledContext(t *testing.T) {
	sender := &fakeSender{}
	service := services.NewMailServiceWithSender(sender, smtpConfig(), testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.SendContactMail(ctx, contactRequest())

	require.Error(t, err)
	assert.Empty(t, sender.sent)
}
