// Package deepseek talks to the DeepSeek chat completion API through its
// OpenAI-compatible surface.
package deepseek

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/tutorbase/tutorbase/internal/domain"
	"github.com/tutorbase/tutorbase/internal/domain/session"
	"github.com/tutorbase/tutorbase/internal/metrics"
)

// Client is a chat completion provider using the OpenAI-compatible API.
type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// Config holds the completion provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      *zap.Logger
}

// NewClient creates a DeepSeek chat completion client.
func NewClient(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// Complete sends the conversation and returns the assistant's reply with
// token usage for settlement.
func (c *Client) Complete(ctx context.Context, system string, msgs []session.Message) (domain.CompletionResult, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(msgs)+1),
	}
	if system != "" {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, m := range msgs {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    string(m.Role()),
			Content: m.Content(),
		})
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return domain.CompletionResult{}, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.CompletionRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return domain.CompletionResult{}, fmt.Errorf("empty completion response: %w", domain.ErrLLMProviderError)
	}

	metrics.CompletionRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.CompletionRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.CompletionTokensTotal.WithLabelValues(c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.CompletionTokensTotal.WithLabelValues(c.model, "completion").Add(float64(resp.Usage.CompletionTokens))
		metrics.CompletionTokensTotal.WithLabelValues(c.model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	return domain.CompletionResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrLLMProviderError for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrLLMProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractMessage(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %w", wrap)
}

// extractMessage extracts the nested error message from a JSON error body.
func extractMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return ""
}
