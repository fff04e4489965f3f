package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosecheck/prosecheck/internal/config"
)

func setupTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.ClaudeConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		APIVersion: "2023-06-01",
		Model:      "test-model",
		Timeout:    5 * time.Second,
		MaxRetries: 0,
		MaxTokens:  1024,
	})
}

func TestGenerateChat(t *testing.T) {
	t.Run("successful completion", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/messages", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
			assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

			var req ChatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "test-model", req.Model)
			assert.Equal(t, 1024, req.MaxTokens)
			assert.False(t, req.Stream)

			json.NewEncoder(w).Encode(ChatResponse{
				Model: req.Model,
				Content: []ContentBlock{
					{Type: "text", Text: "TEXT: teh\n"},
					{Type: "text", Text: "ISSUE: typo"},
				},
				StopReason: "end_turn",
			})
		})

		resp, err := client.GenerateChat(context.Background(), ChatRequest{
			Messages: []Message{{Role: "user", Content: "Check the following: teh cat"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "TEXT: teh\nISSUE: typo", resp.Text())
	})

	t.Run("api error is structured", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid api key"}}`)
		})

		_, err := client.GenerateChat(context.Background(), ChatRequest{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "authentication_error")
		assert.Contains(t, err.Error(), "invalid api key")
	})
}

func TestGenerateChatStream(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: message_start\n")
		fmt.Fprint(w, `data: {"type":"message_start","message":{"model":"test-model"}}`+"\n\n")
		fmt.Fprint(w, "event: content_block_delta\n")
		fmt.Fprint(w, `data: {"type":"content_block_delta","delta":{"type":"text_delta","text":"hello "}}`+"\n\n")
		fmt.Fprint(w, "event: content_block_delta\n")
		fmt.Fprint(w, `data: {"type":"content_block_delta","delta":{"type":"text_delta","text":"world"}}`+"\n\n")
		fmt.Fprint(w, "event: message_delta\n")
		fmt.Fprint(w, `data: {"type":"message_delta","delta":{"stop_reason":"end_turn"}}`+"\n\n")
	})

	events, err := client.GenerateChatStream(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)

	var text string
	var done bool
	for event := range events {
		require.Empty(t, event.ErrorMsg)
		if event.Done {
			done = true
			continue
		}
		text += event.Text
	}

	assert.Equal(t, "hello world", text)
	assert.True(t, done)
}
