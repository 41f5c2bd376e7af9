package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"chat-gateway/internal/config"
	"chat-gateway/internal/models"
	"chat-gateway/internal/pkg/logger"
)

const cacheKeyPrefix = "chat:response:"

// CacheKey derives the content-addressed key for a chat message: trimmed,
// lower-cased, namespaced. Identical questions from different users share
// one entry on purpose; the cache is FAQ-style, not per-session.
func CacheKey(message string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(message))
}

// CacheService stores response envelopes in Redis behind a circuit breaker.
// Any read or write failure trips the breaker; while it is open all cache
// I/O is skipped and requests fall through to the workflow backend. The
// breaker's half-open probe doubles as the reconnect check.
type CacheService struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	config  config.RedisConfig
	logger  *logger.Logger
}

func NewCacheService(cfg config.RedisConfig, log *logger.Logger) (*CacheService, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	opt.PoolSize = cfg.PoolSize
	opt.DialTimeout = cfg.DialTimeout
	opt.ReadTimeout = cfg.OpTimeout
	opt.WriteTimeout = cfg.OpTimeout

	service := &CacheService{
		client: redis.NewClient(opt),
		config: cfg,
		logger: log,
	}

	service.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "response-cache",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
		IsSuccessful: func(err error) bool {
			// a miss is a healthy answer, not a cache failure
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("cache breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	if err := service.testConnection(); err != nil {
		// start degraded rather than refuse to serve; the breaker keeps
		// probing and restores cache use once Redis is reachable
		log.WithError(err).Warn("Redis unreachable at startup, serving without cache")
	} else {
		log.Info("cache service initialized", "url", cfg.URL, "ttl", cfg.TTL.String(), "pool_size", cfg.PoolSize)
	}

	return service, nil
}

func (service *CacheService) testConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), service.config.DialTimeout)
	defer cancel()

	return service.client.Ping(ctx).Err()
}

// Available reports whether cache I/O should be attempted at all. Open
// breaker means a recent failure; half-open lets one probe through.
func (service *CacheService) Available() bool {
	return service.breaker.State() != gobreaker.StateOpen
}

// Get looks up a cached envelope. The second return value distinguishes a
// miss from a hit; infrastructure failures come back as errors and trip the
// breaker.
func (service *CacheService) Get(ctx context.Context, key string) (*models.ResponseEnvelope, bool, error) {
	startTime := time.Now()

	opCtx, cancel := context.WithTimeout(ctx, service.config.OpTimeout)
	defer cancel()

	data, err := service.breaker.Execute(func() (interface{}, error) {
		return service.client.Get(opCtx, key).Result()
	})

	if err != nil {
		if errors.Is(err, redis.Nil) {
			service.logger.LogService("cache", "get", time.Since(startTime), map[string]interface{}{
				"key": key,
				"hit": false,
			}, nil)
			return nil, false, nil
		}
		service.logger.LogService("cache", "get", time.Since(startTime), map[string]interface{}{
			"key": key,
		}, err)
		return nil, false, fmt.Errorf("cache read failed: %w", err)
	}

	var envelope models.ResponseEnvelope
	if err := json.Unmarshal([]byte(data.(string)), &envelope); err != nil {
		// corrupt entry, treat as a miss so it gets rewritten
		service.logger.Warn("discarding undecodable cache entry", "key", key, "error", err.Error())
		return nil, false, nil
	}

	service.logger.LogService("cache", "get", time.Since(startTime), map[string]interface{}{
		"key": key,
		"hit": true,
	}, nil)

	return &envelope, true, nil
}

// Set writes an envelope under the given key with the configured TTL.
func (service *CacheService) Set(ctx context.Context, key string, envelope *models.ResponseEnvelope) error {
	startTime := time.Now()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to serialize envelope: %w", err)
	}

	opCtx, cancel := context.WithTimeout(ctx, service.config.OpTimeout)
	defer cancel()

	_, err = service.breaker.Execute(func() (interface{}, error) {
		return nil, service.client.Set(opCtx, key, payload, service.config.TTL).Err()
	})

	if err != nil {
		service.logger.LogService("cache", "set", time.Since(startTime), map[string]interface{}{
			"key": key,
		}, err)
		return fmt.Errorf("cache write failed: %w", err)
	}

	service.logger.LogService("cache", "set", time.Since(startTime), map[string]interface{}{
		"key": key,
		"ttl": service.config.TTL.String(),
	}, nil)

	return nil
}

func (service *CacheService) HealthCheck(ctx context.Context) error {
	if err := service.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache connection unhealthy: %w", err)
	}
	return nil
}

// BreakerState exposes the breaker state for the stats endpoint.
func (service *CacheService) BreakerState() string {
	return service.breaker.State().String()
}

func (service *CacheService) Close() error {
	service.logger.Info("closing cache service")
	return service.client.Close()
}
