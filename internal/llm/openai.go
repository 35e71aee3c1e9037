package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/praeto/tendertrack/internal/model"
)

const digestTimeout = 30 * time.Second

// OpenAIProvider talks to any OpenAI-compatible chat endpoint. A custom
// base URL covers self-hosted gateways exposing the same API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// New builds a provider from config, or returns (nil, nil) when the
// digest feature is disabled.
func New(cfg model.DigestConfig) (Provider, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: digest enabled but no API key configured")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	mdl := cfg.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  mdl,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string { return "openai" }

// Digest generates the run summary via the chat completions API.
func (p *OpenAIProvider) Digest(ctx context.Context, report *model.RunReport, accepted []*model.Tender) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, digestTimeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You summarize procurement pipeline runs. Stick strictly to the numbers and titles provided.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(report, accepted),
			},
		},
		MaxTokens:   400,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("llm: digest request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty digest response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
