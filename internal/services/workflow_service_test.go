package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-gateway/internal/config"
	"chat-gateway/internal/models"
	"chat-gateway/internal/services"
)

func workflowConfig(url string) config.WorkflowConfig {
	return config.WorkflowConfig{
		WebhookURL:    url,
		Timeout:       5 * time.Second,
		RetryAttempts: 3,
	}
}

func workflowRequest() *models.WorkflowRequest {
	return models.NewWorkflowRequest(models.NewChatRequest(models.ChatRequest{Message: "Hello"}))
}

func TestWorkflowInvokeReturnsRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseType":"text","content":{"text":"Hi"}}`))
	}))
	defer server.Close()

	service := services.NewWorkflowService(workflowConfig(server.URL), testLogger(t))

	body, err := service.Invoke(context.Background(), workflowRequest())

	require.NoError(t, err)
	assert.JSONEq(t, `{"responseType":"text","content":{"text":"Hi"}}`, string(body))
}

func TestWorkflowInvokeRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"responseType":"text","content":{"text":"recovered"}}`))
	}))
	defer server.Close()

	service := services.NewWorkflowService(workflowConfig(server.URL), testLogger(t))

	body, err := service.Invoke(context.Background(), workflowRequest())

	require.NoError(t, err)
	assert.Contains(t, string(body), "recovered")
	assert.Equal(t, int32(3), calls.Load())
}

func TestWorkflowInvokeClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	service := services.NewWorkflowService(workflowConfig(server.URL), testLogger(t))

	_, err := service.Invoke(context.Background(), workflowRequest())

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestWorkflowInvokeUnreachable(t *testing.T) {
	cfg := workflowConfig("http://127.0.0.1:1/webhook")
	cfg.RetryAttempts = 1
	service := services.NewWorkflowService(cfg, testLogger(t))

	_, err := service.Invoke(context.Background(), workflowRequest())

	assert.Error(t, err)
}
