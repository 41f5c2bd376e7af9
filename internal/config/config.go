package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	HTTP      HTTPConfig
	Redis     RedisConfig
	Workflow  WorkflowConfig
	Recaptcha RecaptchaConfig
	SMTP      SMTPConfig
	Log       LogConfig
}

type HTTPConfig struct {
	Port         int           `env:"PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"45s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
}

type RedisConfig struct {
	URL             string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	TTL             time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	OpTimeout       time.Duration `env:"CACHE_TIMEOUT" envDefault:"3s"`
	DialTimeout     time.Duration `env:"CACHE_DIAL_TIMEOUT" envDefault:"3s"`
	PoolSize        int           `env:"CACHE_POOL_SIZE" envDefault:"10"`
	BreakerCooldown time.Duration `env:"CACHE_BREAKER_COOLDOWN" envDefault:"30s"`
}

type WorkflowConfig struct {
	WebhookURL    string        `env:"WORKFLOW_WEBHOOK_URL,notEmpty"`
	Timeout       time.Duration `env:"WORKFLOW_TIMEOUT" envDefault:"30s"`
	RetryAttempts uint          `env:"WORKFLOW_RETRY_ATTEMPTS" envDefault:"3"`
}

type RecaptchaConfig struct {
	Secret    string        `env:"RECAPTCHA_SECRET"`
	VerifyURL string        `env:"RECAPTCHA_VERIFY_URL" envDefault:"https://www.google.com/recaptcha/api/siteverify"`
	MinScore  float64       `env:"RECAPTCHA_MIN_SCORE" envDefault:"0.5"`
	Timeout   time.Duration `env:"RECAPTCHA_TIMEOUT" envDefault:"10s"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"CONTACT_FROM"`
	To       string `env:"CONTACT_TO"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	Output string `env:"LOG_OUTPUT" envDefault:"stdout"`
}

// Load reads configuration from the environment, after loading a .env file
// when one is present in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
