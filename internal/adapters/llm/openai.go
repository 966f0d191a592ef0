// Package llm adapts OpenAI-compatible chat completion APIs to the
// secondary.LLMClient port.
package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/pagination"
	"github.com/openai/openai-go/shared"

	"github.com/example/praetor/internal/ports/secondary"
)

// Config configures the OpenAI-backed client.
type Config struct {
	APIKey  string
	BaseURL string // Optional: for proxies and compatible gateways
	Timeout time.Duration
}

type openaiChatCompletions interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type openaiModels interface {
	List(ctx context.Context, opts ...option.RequestOption) (*pagination.Page[openai.Model], error)
}

// OpenAIClient implements secondary.LLMClient.
type OpenAIClient struct {
	completions openaiChatCompletions
	models      openaiModels
}

// NewOpenAI constructs a client. Requests are never retried by the SDK;
// callers report failures upstream instead.
func NewOpenAI(cfg Config) (*OpenAIClient, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai: api key required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	client := openai.NewClient(opts...)
	return &OpenAIClient{
		completions: &client.Chat.Completions,
		models:      &client.Models,
	}, nil
}

// Chat sends the conversation and returns the first choice's content.
func (c *OpenAIClient) Chat(ctx context.Context, req secondary.ChatRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(req.Model),
		Messages: convertMessages(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	completion, err := c.completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if completion == nil || len(completion.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// ListModels returns the provider's model identifiers, sorted.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	page, err := c.models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

// Name identifies the provider in upstream errors.
func (c *OpenAIClient) Name() string { return "openai" }

func convertMessages(msgs []secondary.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case secondary.ChatRoleSystem:
			result = append(result, openai.SystemMessage(m.Content))
		case secondary.ChatRoleAssistant:
			result = append(result, openai.AssistantMessage(m.Content))
		default:
			result = append(result, openai.UserMessage(m.Content))
		}
	}
	return result
}

// Ensure OpenAIClient implements the interface
var _ secondary.LLMClient = (*OpenAIClient)(nil)
