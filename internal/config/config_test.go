package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WORKFLOW_WEBHOOK_URL", "https://flows.example.com/webhook/chat")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 3*time.Second, cfg.Redis.OpTimeout)
	assert.Equal(t, 30*time.Second, cfg.Redis.BreakerCooldown)
	assert.Equal(t, "https://flows.example.com/webhook/chat", cfg.Workflow.WebhookURL)
	assert.Equal(t, 30*time.Second, cfg.Workflow.Timeout)
	assert.Equal(t, uint(3), cfg.Workflow.RetryAttempts)
	assert.InDelta(t, 0.5, cfg.Recaptcha.MinScore, 1e-9)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WORKFLOW_WEBHOOK_URL", "https://flows.example.com/webhook/chat")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("WORKFLOW_RETRY_ATTEMPTS", "5")
	t.Setenv("RECAPTCHA_MIN_SCORE", "0.7")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, uint(5), cfg.Workflow.RetryAttempts)
	assert.InDelta(t, 0.7, cfg.Recaptcha.MinScore, 1e-9)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoadRequiresWebhookURL(t *testing.T) {
	t.Setenv("WORKFLOW_WEBHOOK_URL", "")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "WORKFLOW_WEBHOOK_URL")
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Environment: "production"}).IsProduction())
	assert.False(t, (&Config{Environment: "development"}).IsProduction())
}
