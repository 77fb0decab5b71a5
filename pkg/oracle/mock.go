package oracle

import (
	"context"
	"fmt"
)

// MockBackend returns deterministic responses for local runs and tests.
type MockBackend struct {
	responses       map[string]string
	defaultResponse string
	Usage           Usage
}

// NewMockBackend creates a mock backend with a default response.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		responses:       make(map[string]string),
		defaultResponse: "mock response:",
	}
}

// NewMockBackendWithResponses creates a mock backend with predefined responses.
func NewMockBackendWithResponses(responses map[string]string, defaultResponse string) *MockBackend {
	if defaultResponse == "" {
		defaultResponse = "mock response:"
	}
	return &MockBackend{responses: responses, defaultResponse: defaultResponse}
}

// Name returns the backend identifier.
func (b *MockBackend) Name() string {
	return "mock"
}

// Models returns the list of supported mock models.
func (b *MockBackend) Models() []string {
	return []string{"mock-1"}
}

// Generate returns a deterministic response for the prompt.
func (b *MockBackend) Generate(_ context.Context, model string, prompt string) (string, Usage, error) {
	if response, ok := b.responses[prompt]; ok {
		return response, b.Usage, nil
	}
	return fmt.Sprintf("%s\n%s", b.defaultResponse, prompt), b.Usage, nil
}
