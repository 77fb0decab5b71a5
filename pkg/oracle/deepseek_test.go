package oracle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestDeepSeek(t *testing.T, handler http.HandlerFunc) *DeepSeekBackend {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &DeepSeekBackend{
		apiKey:     "test-key",
		baseURL:    server.URL,
		httpClient: server.Client(),
	}
}

func TestDeepSeekGenerate_Success(t *testing.T) {
	backend := newTestDeepSeek(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "hello"}}],
			"usage": {"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5}
		}`))
	})

	text, usage, err := backend.Generate(context.Background(), "deepseek-chat", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello" {
		t.Errorf("text = %q", text)
	}
	if usage[DimTotalTokens] != 5 {
		t.Errorf("usage = %v", usage)
	}
}

func TestDeepSeekGenerate_StatusError(t *testing.T) {
	backend := newTestDeepSeek(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{}`))
	})

	_, _, err := backend.Generate(context.Background(), "deepseek-chat", "hi")
	if err == nil {
		t.Fatal("expected an error for a 429 response")
	}

	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("error = %T, want *BackendError", err)
	}
	if backendErr.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want 429", backendErr.Status)
	}
	if !IsTransient(err) {
		t.Error("a 429 should be transient")
	}
}

func TestDeepSeekGenerate_APIErrorCarriesStatus(t *testing.T) {
	backend := newTestDeepSeek(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "bad key", "type": "auth", "code": "invalid_api_key"}}`))
	})

	_, _, err := backend.Generate(context.Background(), "deepseek-chat", "hi")
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("error = %T, want *BackendError", err)
	}
	if backendErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", backendErr.Status)
	}
	if IsTransient(err) {
		t.Error("a 401 should not be transient")
	}
}
