package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeReplyTextVerbatim(t *testing.T) {
	raw := []byte(`{"responseId":"r-1","responseType":"text","content":{"text":"Hi there"},"timestamp":"2026-01-01T00:00:00Z"}`)

	envelope := NormalizeReply(raw)

	assert.Equal(t, "r-1", envelope.ResponseID)
	assert.Equal(t, ResponseTypeText, envelope.ResponseType)
	assert.Equal(t, "Hi there", envelope.Content.Text)
	assert.Equal(t, "2026-01-01T00:00:00Z", envelope.Timestamp)
	assert.True(t, envelope.NonTrivial())
}

func TestNormalizeReplyTextMissingUsesFallback(t *testing.T) {
	for _, raw := range []string{
		`{"responseType":"text","content":{}}`,
		`{"responseType":"text","content":{"text":""}}`,
		`{"responseType":"text","content":{"text":"   "}}`,
		`{"responseType":"text"}`,
	} {
		envelope := NormalizeReply([]byte(raw))
		assert.Equal(t, FallbackText, envelope.Content.Text, "input: %s", raw)
		assert.True(t, envelope.NonTrivial())
	}
}

func TestNormalizeReplyView(t *testing.T) {
	raw := []byte(`{"responseType":"view","content":{"output":"<table></table>","viewSpec":{"kind":"table"}}}`)

	envelope := NormalizeReply(raw)

	assert.Equal(t, ResponseTypeView, envelope.ResponseType)
	assert.Empty(t, envelope.Content.Text)
	assert.Equal(t, "<table></table>", envelope.Content.Output)
	assert.JSONEq(t, `{"kind":"table"}`, string(envelope.Content.ViewSpec))
	assert.True(t, envelope.NonTrivial())
}

func TestNormalizeReplyLegacyStringContent(t *testing.T) {
	envelope := NormalizeReply([]byte(`{"content":"plain old answer"}`))

	assert.Equal(t, ResponseTypeText, envelope.ResponseType)
	assert.Equal(t, "plain old answer", envelope.Content.Text)
	assert.True(t, envelope.NonTrivial())
}

func TestNormalizeReplyUnrecognizedShapeIsTrivial(t *testing.T) {
	for _, raw := range []string{
		`{"foo":"bar"}`,
		`{"responseType":"hologram","content":{"x":1}}`,
		`not json at all`,
		`{}`,
	} {
		envelope := NormalizeReply([]byte(raw))
		require.NotNil(t, envelope, "input: %s", raw)
		assert.False(t, envelope.NonTrivial(), "input: %s", raw)
	}
}

func TestNormalizeReplyUnwrapsSingleElementArray(t *testing.T) {
	raw := []byte(`[{"responseType":"text","content":{"text":"from array"}}]`)

	envelope := NormalizeReply(raw)

	assert.Equal(t, "from array", envelope.Content.Text)
}

func TestNormalizeReplyGeneratesIDAndTimestamp(t *testing.T) {
	envelope := NormalizeReply([]byte(`{"responseType":"text","content":{"text":"hi"}}`))

	assert.NotEmpty(t, envelope.ResponseID)
	assert.NotEmpty(t, envelope.Timestamp)
}
