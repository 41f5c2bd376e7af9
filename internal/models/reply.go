package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FallbackText is returned when the backend declares a text response but
// ships no usable text. Clients must never see an empty or missing text
// field on a text-type envelope.
const FallbackText = "Sorry, I wasn't able to come up with an answer just now. Please try again in a moment."

// workflowReply is the loosely-typed shape the workflow backend actually
// returns. Content varies by backend version: an object with text, an
// object with output/viewSpec, or a legacy bare string.
type workflowReply struct {
	ResponseID   string          `json:"responseId"`
	ResponseType string          `json:"responseType"`
	Content      json.RawMessage `json:"content"`
	Timestamp    string          `json:"timestamp"`
}

type replyContent struct {
	Text     *string         `json:"text"`
	Output   string          `json:"output"`
	ViewSpec json.RawMessage `json:"viewSpec"`
}

// NormalizeReply maps a raw workflow backend reply into a ResponseEnvelope.
// It never fails: unrecognized shapes collapse to an empty text envelope,
// which NonTrivial() then excludes from caching.
//
// Priority order:
//  1. text type with non-empty text -> verbatim
//  2. text type without text -> FallbackText
//  3. view type -> view payload, empty accompanying text
//  4. bare string content -> wrapped as text
//  5. anything else -> empty text
func NormalizeReply(raw []byte) *ResponseEnvelope {
	var reply workflowReply
	if err := json.Unmarshal(unwrapArray(raw), &reply); err != nil {
		return finishEnvelope(&ResponseEnvelope{ResponseType: ResponseTypeText}, "", "")
	}

	envelope := &ResponseEnvelope{ResponseType: ResponseTypeText}

	switch reply.ResponseType {
	case ResponseTypeText:
		content := decodeContent(reply.Content)
		if content.Text != nil && strings.TrimSpace(*content.Text) != "" {
			envelope.Content.Text = *content.Text
		} else {
			envelope.Content.Text = FallbackText
		}

	case ResponseTypeView:
		content := decodeContent(reply.Content)
		envelope.ResponseType = ResponseTypeView
		envelope.Content.Output = content.Output
		envelope.Content.ViewSpec = content.ViewSpec

	default:
		var legacy string
		if err := json.Unmarshal(reply.Content, &legacy); err == nil {
			envelope.Content.Text = legacy
		}
	}

	return finishEnvelope(envelope, reply.ResponseID, reply.Timestamp)
}

// unwrapArray takes the first element when the backend wraps its reply in a
// one-element JSON array, as n8n webhook nodes commonly do.
func unwrapArray(raw []byte) []byte {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "[") {
		return raw
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return raw
	}
	return items[0]
}

func decodeContent(raw json.RawMessage) replyContent {
	var content replyContent
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &content)
	}
	return content
}

func finishEnvelope(envelope *ResponseEnvelope, responseID, timestamp string) *ResponseEnvelope {
	envelope.ResponseID = responseID
	if envelope.ResponseID == "" {
		envelope.ResponseID = uuid.New().String()
	}

	envelope.Timestamp = timestamp
	if envelope.Timestamp == "" {
		envelope.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	return envelope
}
