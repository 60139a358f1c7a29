// Package llm wraps the scoring model behind a small Invoker interface so the
// processing pipeline can be tested with a stub client.
package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"TalentSift-backend/internal/config"
)

// Invoker sends one system prompt plus one user turn to a language model and
// returns the raw text of the reply.
type Invoker interface {
	Invoke(ctx context.Context, systemPrompt, userContent string) (string, error)
}

// Client is an Invoker backed by an OpenAI-compatible chat completion API.
// DeepSeek and Mistral deployments are reached through the same client by
// overriding the base URL.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a Client from configuration. Provider selects which
// credentials and endpoint are used: "openai", "deepseek", or "mistral".
func NewClient(cfg *config.Config) (*Client, error) {
	provider := strings.ToLower(cfg.LLMProvider)

	var clientCfg openai.ClientConfig
	switch provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not configured")
		}
		clientCfg = openai.DefaultConfig(cfg.OpenAIAPIKey)
	case "deepseek":
		if cfg.DeepseekBaseURL == "" {
			return nil, fmt.Errorf("DEEPSEEK_BASE_URL is not configured")
		}
		clientCfg = openai.DefaultConfig(cfg.DeepseekAPIKey)
		clientCfg.BaseURL = cfg.DeepseekBaseURL
	case "mistral":
		if cfg.MistralBaseURL == "" {
			return nil, fmt.Errorf("MISTRAL_BASE_URL is not configured")
		}
		clientCfg = openai.DefaultConfig(cfg.MistralAPIKey)
		clientCfg.BaseURL = cfg.MistralBaseURL
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER: %s", cfg.LLMProvider)
	}

	return &Client{
		api:   openai.NewClientWithConfig(clientCfg),
		model: cfg.LLMModel,
	}, nil
}

// Invoke sends the prompt pair and returns the first choice's content.
func (c *Client) Invoke(ctx context.Context, systemPrompt, userContent string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userContent},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
