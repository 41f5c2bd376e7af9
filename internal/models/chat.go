package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ResponseTypeText = "text"
	ResponseTypeView = "view"

	anonymousUserID = "anonymous"
)

// ChatRequest is the wire shape accepted by POST /chat. Optional fields are
// filled by NewChatRequest before the request reaches the orchestrator, so
// downstream code never re-applies defaults.
type ChatRequest struct {
	UserID            string `json:"userId"`
	ChatID            string `json:"chatId"`
	MessageID         string `json:"messageId"`
	Message           string `json:"message" validate:"required,notblank"`
	Timestamp         string `json:"timestamp"`
	VerificationToken string `json:"verificationToken,omitempty"`
	IsFirstMessage    bool   `json:"isFirstMessage,omitempty"`
}

// NewChatRequest returns a fully-populated copy of the incoming request.
// Defaults are applied exactly once, here.
func NewChatRequest(in ChatRequest) *ChatRequest {
	req := in

	req.Message = strings.TrimSpace(req.Message)
	if req.UserID == "" {
		req.UserID = anonymousUserID
	}
	if req.ChatID == "" {
		req.ChatID = uuid.New().String()
	}
	if req.MessageID == "" {
		req.MessageID = uuid.New().String()
	}
	if req.Timestamp == "" {
		req.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	return &req
}

// ContactRequest is the wire shape accepted by POST /contact.
type ContactRequest struct {
	Name           string `json:"name" validate:"required,notblank"`
	Email          string `json:"email" validate:"required,email"`
	Company        string `json:"company,omitempty"`
	Message        string `json:"message" validate:"required,notblank"`
	RecaptchaToken string `json:"recaptchaToken" validate:"required"`
}

// WorkflowRequest is the normalized body sent to the workflow webhook.
// ConversationContext is always empty: each call is stateless from the
// backend's perspective, history stays in the client.
type WorkflowRequest struct {
	UserID              string        `json:"userId"`
	ChatID              string        `json:"chatId"`
	MessageID           string        `json:"messageId"`
	Message             string        `json:"message"`
	Timestamp           string        `json:"timestamp"`
	ConversationContext []interface{} `json:"conversationContext"`
}

func NewWorkflowRequest(req *ChatRequest) *WorkflowRequest {
	return &WorkflowRequest{
		UserID:              req.UserID,
		ChatID:              req.ChatID,
		MessageID:           req.MessageID,
		Message:             req.Message,
		Timestamp:           req.Timestamp,
		ConversationContext: []interface{}{},
	}
}

// ResponseEnvelope is the single stable response shape returned to clients,
// regardless of what the workflow backend produced. Cached entries are
// stored and replayed verbatim as JSON.
type ResponseEnvelope struct {
	ResponseID   string  `json:"responseId"`
	ResponseType string  `json:"responseType"`
	Content      Content `json:"content"`
	Timestamp    string  `json:"timestamp"`
}

// Content carries either a plain text answer or a renderable view payload.
// Text is always present in the JSON; view fields only for view responses.
type Content struct {
	Text     string          `json:"text"`
	Output   string          `json:"output,omitempty"`
	ViewSpec json.RawMessage `json:"viewSpec,omitempty"`
}

// NonTrivial reports whether the envelope carries anything worth caching.
func (e *ResponseEnvelope) NonTrivial() bool {
	return strings.TrimSpace(e.Content.Text) != "" ||
		e.Content.Output != "" ||
		len(e.Content.ViewSpec) > 0
}

// VerificationResult is the verdict of the anti-abuse token check.
type VerificationResult struct {
	Success bool    `json:"success"`
	Score   float64 `json:"score"`
}

// Accepted applies the score-threshold policy on top of the boolean verdict.
func (r *VerificationResult) Accepted(minScore float64) bool {
	return r.Success && r.Score >= minScore
}

// ContactResponse is the success body for POST /contact.
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
