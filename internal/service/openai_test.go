package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shopassist/internal/config"
)

func newTestOpenAIClient(baseURL string, enabled bool) *OpenAIClient {
	return NewOpenAIClient(&config.AIConfig{
		APIKey:          "test-key",
		APIBase:         baseURL,
		ChatModel:       "test-model",
		ChatTemperature: 0.2,
		ChatMaxTokens:   64,
		Timeout:         5 * time.Second,
		Enabled:         enabled,
	}, zap.NewNop())
}

func completionHandler(t *testing.T, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, 64, req.MaxTokens)
		if assert.NotNil(t, req.ResponseFormat) {
			assert.Equal(t, "json_object", req.ResponseFormat.Type)
		}
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "cmpl-1",
			"model": "test-model",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}
}

func TestOpenAIClient_ExtractIntent(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, "```json\n{\"category\": \"electronics\", \"color\": null, \"keywords\": [\"ssd\",]}\n```"))
	defer server.Close()

	client := newTestOpenAIClient(server.URL, true)
	intent, err := client.ExtractIntent(context.Background(), "cheap ssd")
	require.NoError(t, err)

	require.NotNil(t, intent.Category)
	assert.Equal(t, "electronics", *intent.Category)
	assert.Nil(t, intent.Color)
	assert.Equal(t, []string{"ssd"}, intent.Keywords)
}

func TestOpenAIClient_Disabled(t *testing.T) {
	client := newTestOpenAIClient("http://127.0.0.1:0", false)
	_, err := client.ExtractIntent(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrAIUnavailable)

	var nilClient *OpenAIClient
	assert.False(t, nilClient.IsEnabled())
}

func TestOpenAIClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestOpenAIClient(server.URL, true).ExtractIntent(context.Background(), "ssd")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAIUnavailable)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIClient_UnparseableContent(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, "I cannot help with that."))
	defer server.Close()

	_, err := newTestOpenAIClient(server.URL, true).ExtractIntent(context.Background(), "ssd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse AI response")
}

func TestOpenAIClient_FeedsIntentParser(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, `{"category": "women's clothing", "color": "crimson", "keywords": ["dress"]}`))
	defer server.Close()

	parser := NewIntentParser(newTestOpenAIClient(server.URL, true), config.DefaultStopwords, nil, nil)
	intent := parser.Parse(context.Background(), "a crimson dress please")

	assert.Equal(t, SourceAI, intent.Source)
	assert.Equal(t, "womens_clothing", string(intent.Category))
	assert.Equal(t, "red", string(intent.Color))
	assert.Equal(t, []string{"dress"}, intent.Keywords)
}
