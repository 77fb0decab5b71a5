package oracle

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// OpenAIBackend implements the Backend interface for OpenAI models.
type OpenAIBackend struct {
	client openai.Client
}

// NewOpenAIBackend creates a new OpenAI backend.
func NewOpenAIBackend(apiKey string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	client := openai.NewClient()
	return &OpenAIBackend{client: client}, nil
}

// Name returns the backend identifier.
func (b *OpenAIBackend) Name() string {
	return "openai"
}

// Models returns the list of supported OpenAI models.
func (b *OpenAIBackend) Models() []string {
	return []string{
		"gpt-5.2-instant",
		"gpt-5.2-thinking",
		"gpt-5.2-pro",
	}
}

// Generate sends a prompt to OpenAI and returns the generated text and usage.
func (b *OpenAIBackend) Generate(ctx context.Context, model string, prompt string) (string, Usage, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(4096),
	})
	if err != nil {
		return "", nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil, fmt.Errorf("openai returned no choices")
	}

	usage := Usage{
		DimPromptTokens:     int(resp.Usage.PromptTokens),
		DimCompletionTokens: int(resp.Usage.CompletionTokens),
		DimTotalTokens:      int(resp.Usage.TotalTokens),
	}
	return resp.Choices[0].Message.Content, usage, nil
}
