// Package assistant implements the chat model port against any
// OpenAI-compatible completion API.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/homehub/backend/internal/domain/assistant"
	infraconfig "github.com/homehub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure OpenAIClient implements ChatCompleter
var _ assistant.ChatCompleter = (*OpenAIClient)(nil)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxTokens   = 1024
	defaultTemperature = 0.7
)

// OpenAIClient calls a chat completion endpoint speaking the OpenAI
// wire format. Works against OpenAI itself or any compatible server
// (vLLM, Ollama, LiteLLM proxies).
type OpenAIClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

// OpenAIClientOption is a functional option for configuring OpenAIClient
type OpenAIClientOption func(*OpenAIClient)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(client *http.Client) OpenAIClientOption {
	return func(c *OpenAIClient) {
		c.httpClient = client
	}
}

// WithLogger sets the logger for the client
func WithLogger(logger *zap.Logger) OpenAIClientOption {
	return func(c *OpenAIClient) {
		c.logger = logger
	}
}

// NewOpenAIClient creates a client from configuration
func NewOpenAIClient(cfg *infraconfig.AssistantConfig, opts ...OpenAIClientOption) (*OpenAIClient, error) {
	if cfg == nil {
		return nil, errors.New("assistant configuration is required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("assistant base URL is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("assistant model is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	client := &OpenAIClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Wire types for the /chat/completions endpoint

type chatCompletionRequest struct {
	Model       string                  `json:"model"`
	Messages    []chatCompletionMessage `json:"messages"`
	MaxTokens   int                     `json:"max_tokens,omitempty"`
	Temperature float64                 `json:"temperature,omitempty"`
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message      chatCompletionMessage `json:"message"`
		FinishReason string                `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends the prompt history to the model and returns its reply
func (c *OpenAIClient) Complete(ctx context.Context, prompts []assistant.Prompt) (*assistant.Completion, error) {
	if len(prompts) == 0 {
		return nil, errors.New("at least one prompt is required")
	}

	messages := make([]chatCompletionMessage, 0, len(prompts))
	for _, p := range prompts {
		messages = append(messages, chatCompletionMessage{
			Role:    string(p.Role),
			Content: p.Content,
		})
	}

	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read completion response: %w", err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("failed to decode completion response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if completion.Error != nil {
			return nil, fmt.Errorf("model API error (status %d): %s", resp.StatusCode, completion.Error.Message)
		}
		return nil, fmt.Errorf("model API returned status %d", resp.StatusCode)
	}

	if len(completion.Choices) == 0 {
		return nil, errors.New("model API returned no choices")
	}

	c.logger.Debug("Chat completion finished",
		zap.String("model", c.model),
		zap.Int("prompt_tokens", completion.Usage.PromptTokens),
		zap.Int("completion_tokens", completion.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &assistant.Completion{
		Content:      completion.Choices[0].Message.Content,
		PromptTokens: completion.Usage.PromptTokens,
		ReplyTokens:  completion.Usage.CompletionTokens,
	}, nil
}
