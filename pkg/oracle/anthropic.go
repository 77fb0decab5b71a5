package oracle

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// AnthropicBackend implements the Backend interface for Claude models.
type AnthropicBackend struct {
	client anthropic.Client
}

// NewAnthropicBackend creates a new Anthropic backend.
func NewAnthropicBackend(apiKey string) (*AnthropicBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient()
	return &AnthropicBackend{client: client}, nil
}

// Name returns the backend identifier.
func (b *AnthropicBackend) Name() string {
	return "anthropic"
}

// Models returns the list of supported Claude models.
func (b *AnthropicBackend) Models() []string {
	return []string{
		"claude-sonnet-4-20250514",
		"claude-opus-4-20250514",
	}
}

// Generate sends a prompt to Claude and returns the generated text and usage.
func (b *AnthropicBackend) Generate(ctx context.Context, model string, prompt string) (string, Usage, error) {
	resp, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", nil, fmt.Errorf("anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	usage := Usage{
		DimPromptTokens:     int(resp.Usage.InputTokens),
		DimCompletionTokens: int(resp.Usage.OutputTokens),
		DimTotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
	}
	return content, usage, nil
}
