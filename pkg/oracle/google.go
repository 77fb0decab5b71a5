package oracle

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GoogleBackend implements the Backend interface for Gemini models.
type GoogleBackend struct {
	client *genai.Client
}

// NewGoogleBackend creates a new Google Gemini backend.
func NewGoogleBackend(apiKey string) (*GoogleBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	return &GoogleBackend{
		client: client,
	}, nil
}

// Name returns the backend identifier.
func (b *GoogleBackend) Name() string {
	return "google"
}

// Models returns the list of supported Gemini models.
func (b *GoogleBackend) Models() []string {
	return []string{
		"gemini-2.0-pro",
	}
}

// Generate sends a prompt to Gemini and returns the generated text and usage.
func (b *GoogleBackend) Generate(ctx context.Context, model string, prompt string) (string, Usage, error) {
	resp, err := b.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", nil, fmt.Errorf("google API error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", nil, fmt.Errorf("google returned no candidates")
	}

	var content string
	if resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				content += part.Text
			}
		}
	}

	usage := Usage{}
	if meta := resp.UsageMetadata; meta != nil {
		usage[DimPromptTokens] = int(meta.PromptTokenCount)
		usage[DimCompletionTokens] = int(meta.CandidatesTokenCount)
		usage[DimTotalTokens] = int(meta.TotalTokenCount)
	}
	return content, usage, nil
}
