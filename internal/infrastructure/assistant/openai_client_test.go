package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/homehub/backend/internal/domain/assistant"
	infraconfig "github.com/homehub/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssistantConfig(baseURL string) *infraconfig.AssistantConfig {
	return &infraconfig.AssistantConfig{
		Enabled:     true,
		BaseURL:     baseURL,
		APIKey:      "sk-test",
		Model:       "gpt-4o-mini",
		MaxTokens:   256,
		Temperature: 0.5,
		Timeout:     5 * time.Second,
	}
}

func TestNewOpenAIClient_Validation(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewOpenAIClient(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing base URL", func(t *testing.T) {
		cfg := testAssistantConfig("")
		_, err := NewOpenAIClient(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base URL is required")
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := testAssistantConfig("http://localhost:8080/v1")
		cfg.Model = ""
		_, err := NewOpenAIClient(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model is required")
	})

	t.Run("trailing slash trimmed from base URL", func(t *testing.T) {
		client, err := NewOpenAIClient(testAssistantConfig("http://localhost:8080/v1/"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/v1", client.baseURL)
	})
}

func TestOpenAIClient_Complete(t *testing.T) {
	var gotRequest chatCompletionRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-123",
			"choices": [
				{"message": {"role": "assistant", "content": "Add milk to the list."}, "finish_reason": "stop"}
			],
			"usage": {"prompt_tokens": 42, "completion_tokens": 8, "total_tokens": 50}
		}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(testAssistantConfig(server.URL + "/v1"))
	require.NoError(t, err)

	prompts := []assistant.Prompt{
		{Role: assistant.RoleSystem, Content: "You are a household assistant."},
		{Role: assistant.RoleUser, Content: "What should I buy?"},
	}

	completion, err := client.Complete(context.Background(), prompts)
	require.NoError(t, err)
	assert.Equal(t, "Add milk to the list.", completion.Content)
	assert.Equal(t, 42, completion.PromptTokens)
	assert.Equal(t, 8, completion.ReplyTokens)
	assert.Equal(t, 50, completion.TotalTokens())

	// Request carried the config and the full prompt history
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotRequest.Model)
	assert.Equal(t, 256, gotRequest.MaxTokens)
	assert.InDelta(t, 0.5, gotRequest.Temperature, 0.001)
	require.Len(t, gotRequest.Messages, 2)
	assert.Equal(t, "system", gotRequest.Messages[0].Role)
	assert.Equal(t, "user", gotRequest.Messages[1].Role)
}

func TestOpenAIClient_Complete_EmptyPrompts(t *testing.T) {
	client, err := NewOpenAIClient(testAssistantConfig("http://localhost:8080/v1"))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one prompt")
}

func TestOpenAIClient_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{
			"error": {"message": "Rate limit reached", "type": "rate_limit_error"}
		}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(testAssistantConfig(server.URL + "/v1"))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), []assistant.Prompt{
		{Role: assistant.RoleUser, Content: "hi"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestOpenAIClient_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-456", "choices": [], "usage": {}}`))
	}))
	defer server.Close()

	client, err := NewOpenAIClient(testAssistantConfig(server.URL + "/v1"))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), []assistant.Prompt{
		{Role: assistant.RoleUser, Content: "hi"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAIClient_Complete_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client, err := NewOpenAIClient(testAssistantConfig(server.URL + "/v1"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.Complete(ctx, []assistant.Prompt{
		{Role: assistant.RoleUser, Content: "hi"},
	})
	require.Error(t, err)
}
