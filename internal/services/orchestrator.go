package services

import (
	"context"
	"sync/atomic"
	"time"

	"chat-gateway/internal/config"
	"chat-gateway/internal/models"
	"chat-gateway/internal/pkg/logger"
)

// ResponseCache is the cache surface the orchestrator needs. Available
// reflects the breaker state: when false, cache I/O is skipped entirely
// instead of retried per call.
type ResponseCache interface {
	Available() bool
	Get(ctx context.Context, key string) (*models.ResponseEnvelope, bool, error)
	Set(ctx context.Context, key string, envelope *models.ResponseEnvelope) error
}

// WorkflowInvoker produces the raw backend reply for a normalized request.
type WorkflowInvoker interface {
	Invoke(ctx context.Context, req *models.WorkflowRequest) ([]byte, error)
}

// TokenVerifier validates an anti-abuse token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.VerificationResult, error)
}

// ChatOrchestrator produces a ResponseEnvelope for a validated ChatRequest:
// verification gate, cache lookup, workflow call on miss, normalization,
// opportunistic cache write. A dead cache never fails a request; every
// cache-miss path is functionally identical to a cache-disabled path.
type ChatOrchestrator struct {
	cache    ResponseCache
	workflow WorkflowInvoker
	verifier TokenVerifier
	minScore float64
	logger   *logger.Logger

	startTime     time.Time
	requests      atomic.Uint64
	cacheHits     atomic.Uint64
	cacheMisses   atomic.Uint64
	degradedReads atomic.Uint64
}

func NewChatOrchestrator(
	cache ResponseCache,
	workflow WorkflowInvoker,
	verifier TokenVerifier,
	cfg config.RecaptchaConfig,
	log *logger.Logger) *ChatOrchestrator {

	orchestrator := &ChatOrchestrator{
		cache:     cache,
		workflow:  workflow,
		verifier:  verifier,
		minScore:  cfg.MinScore,
		logger:    log,
		startTime: time.Now(),
	}

	log.Info("chat orchestrator initialized", "min_score", cfg.MinScore)

	return orchestrator
}

func (orchestrator *ChatOrchestrator) Handle(ctx context.Context, req *models.ChatRequest) (*models.ResponseEnvelope, error) {
	startTime := time.Now()
	orchestrator.requests.Add(1)

	if err := orchestrator.verifyGate(ctx, req); err != nil {
		return nil, err
	}

	key := CacheKey(req.Message)

	if orchestrator.cache.Available() {
		envelope, found, err := orchestrator.cache.Get(ctx, key)
		switch {
		case err != nil:
			// degrade: a cache read failure is a miss, never a request failure
			orchestrator.degradedReads.Add(1)
			orchestrator.logger.Warn("cache read failed, falling through to workflow", "key", key, "error", err.Error())
		case found:
			orchestrator.cacheHits.Add(1)
			orchestrator.logger.Debug("served from cache",
				"key", key,
				"message_id", req.MessageID,
				"duration_ms", time.Since(startTime).Milliseconds())
			return envelope, nil
		default:
			orchestrator.cacheMisses.Add(1)
		}
	}

	raw, err := orchestrator.workflow.Invoke(ctx, models.NewWorkflowRequest(req))
	if err != nil {
		return nil, models.NewInternalError("chat backend failed to produce a response").
			WithCause(err).
			WithDetail("userId", req.UserID).
			WithDetail("messageId", req.MessageID)
	}

	envelope := models.NormalizeReply(raw)

	if envelope.NonTrivial() && orchestrator.cache.Available() {
		if err := orchestrator.cache.Set(ctx, key, envelope); err != nil {
			// swallowed: a failed write only costs the next caller a miss
			orchestrator.logger.Warn("cache write failed", "key", key, "error", err.Error())
		}
	}

	orchestrator.logger.Debug("served from workflow backend",
		"key", key,
		"message_id", req.MessageID,
		"response_type", envelope.ResponseType,
		"duration_ms", time.Since(startTime).Milliseconds())

	return envelope, nil
}

// verifyGate enforces the anti-abuse check once per conversation: on the
// designated first message, or opportunistically whenever a token arrives.
// The result is a per-request gate only and is never persisted.
func (orchestrator *ChatOrchestrator) verifyGate(ctx context.Context, req *models.ChatRequest) error {
	if !req.IsFirstMessage && req.VerificationToken == "" {
		return nil
	}

	if req.VerificationToken == "" {
		return models.NewForbiddenError("verification is required for the first message of a conversation")
	}

	result, err := orchestrator.verifier.Verify(ctx, req.VerificationToken)
	if err != nil {
		return models.NewInternalError("verification service unavailable").WithCause(err)
	}

	if !result.Accepted(orchestrator.minScore) {
		orchestrator.logger.Warn("verification rejected",
			"user_id", req.UserID,
			"success", result.Success,
			"score", result.Score)
		return models.NewForbiddenError("verification failed").WithDetail("score", result.Score)
	}

	return nil
}

func (orchestrator *ChatOrchestrator) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"service":         "chat_orchestrator",
		"uptime_seconds":  time.Since(orchestrator.startTime).Seconds(),
		"requests":        orchestrator.requests.Load(),
		"cache_hits":      orchestrator.cacheHits.Load(),
		"cache_misses":    orchestrator.cacheMisses.Load(),
		"degraded_reads":  orchestrator.degradedReads.Load(),
		"cache_available": orchestrator.cache.Available(),
	}
}
