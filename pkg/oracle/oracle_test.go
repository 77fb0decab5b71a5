package oracle

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMerge(t *testing.T) {
	a := Usage{DimPromptTokens: 10, DimTotalTokens: 15}
	b := Usage{DimPromptTokens: 3, DimCompletionTokens: 7}

	merged := Merge(a, b)

	if merged[DimPromptTokens] != 13 {
		t.Errorf("prompt_tokens = %d, want 13", merged[DimPromptTokens])
	}
	if merged[DimCompletionTokens] != 7 {
		t.Errorf("completion_tokens = %d, want 7", merged[DimCompletionTokens])
	}
	if merged[DimTotalTokens] != 15 {
		t.Errorf("total_tokens = %d, want 15", merged[DimTotalTokens])
	}

	// Inputs stay untouched.
	if a[DimPromptTokens] != 10 || b[DimPromptTokens] != 3 {
		t.Error("Merge mutated an input")
	}
}

func TestMerge_NilInputs(t *testing.T) {
	if got := Merge(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("Merge(nil, nil) = %v, want empty non-nil map", got)
	}
	if got := Merge(nil, Usage{DimTotalTokens: 4}); got[DimTotalTokens] != 4 {
		t.Errorf("Merge(nil, b) = %v", got)
	}
}

type failingBackend struct {
	err   error
	calls int
	// okAfter succeeds once calls exceeds it; 0 means always fail.
	okAfter int
}

func (b *failingBackend) Generate(context.Context, string, string) (string, Usage, error) {
	b.calls++
	if b.okAfter > 0 && b.calls > b.okAfter {
		return "recovered", Usage{DimTotalTokens: 1}, nil
	}
	return "", nil, b.err
}

func (b *failingBackend) Name() string     { return "failing" }
func (b *failingBackend) Models() []string { return []string{"failing-1"} }

func TestPort_InlineErrorText(t *testing.T) {
	port := NewPort(&failingBackend{err: errors.New("connection refused")}, "failing-1")

	text, usage := port.Invoke(context.Background(), "hello")

	if !strings.HasPrefix(text, "Error: ") {
		t.Errorf("text = %q, want Error: prefix", text)
	}
	if !strings.Contains(text, "connection refused") {
		t.Errorf("text = %q, should carry the cause", text)
	}
	if usage == nil || len(usage) != 0 {
		t.Errorf("usage = %v, want empty non-nil map on failure", usage)
	}
}

func TestPort_PassThrough(t *testing.T) {
	backend := NewMockBackendWithResponses(map[string]string{"ping": "pong"}, "")
	backend.Usage = Usage{DimTotalTokens: 5}
	port := NewPort(backend, "mock-1")

	text, usage := port.Invoke(context.Background(), "ping")
	if text != "pong" {
		t.Errorf("text = %q, want pong", text)
	}
	if usage[DimTotalTokens] != 5 {
		t.Errorf("usage = %v", usage)
	}
	if port.Name() != "mock/mock-1" {
		t.Errorf("Name() = %q", port.Name())
	}
}

func TestPort_RetriesTransientFailures(t *testing.T) {
	backend := &failingBackend{
		err:     &BackendError{Status: 429, Err: errors.New("rate limited")},
		okAfter: 1,
	}
	port := NewPort(backend, "failing-1", WithRetry(2, time.Millisecond))

	text, usage := port.Invoke(context.Background(), "hello")
	if text != "recovered" {
		t.Errorf("text = %q, want the retried success", text)
	}
	if backend.calls != 2 {
		t.Errorf("backend calls = %d, want 2", backend.calls)
	}
	if usage[DimTotalTokens] != 1 {
		t.Errorf("usage = %v", usage)
	}
}

func TestPort_NoRetryOnPermanentFailure(t *testing.T) {
	backend := &failingBackend{
		err:     &BackendError{Status: 400, Err: errors.New("bad request")},
		okAfter: 1,
	}
	port := NewPort(backend, "failing-1", WithRetry(2, time.Millisecond))

	text, _ := port.Invoke(context.Background(), "hello")
	if !strings.HasPrefix(text, "Error: ") {
		t.Errorf("text = %q", text)
	}
	if backend.calls != 1 {
		t.Errorf("backend calls = %d, want 1 (no retry on a 400)", backend.calls)
	}
}

func TestPort_RetryBudgetExhausted(t *testing.T) {
	backend := &failingBackend{
		err: &BackendError{Status: 503, Err: errors.New("unavailable")},
	}
	port := NewPort(backend, "failing-1", WithRetry(2, time.Millisecond))

	text, usage := port.Invoke(context.Background(), "hello")
	if !strings.Contains(text, "unavailable") {
		t.Errorf("text = %q", text)
	}
	if backend.calls != 3 {
		t.Errorf("backend calls = %d, want initial + 2 retries", backend.calls)
	}
	if len(usage) != 0 {
		t.Errorf("usage = %v, want empty", usage)
	}
}

func TestMockBackend_DefaultResponse(t *testing.T) {
	backend := NewMockBackend()

	text, _, err := backend.Generate(context.Background(), "mock-1", "what is 2+2?")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "what is 2+2?") {
		t.Errorf("default response should echo the prompt, got %q", text)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "rate limited", err: &BackendError{Status: 429}, want: true},
		{name: "server error", err: &BackendError{Status: 503}, want: true},
		{name: "bad request", err: &BackendError{Status: 400}, want: false},
		{name: "temporary flag", err: &BackendError{Temporary: true}, want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "cancelled", err: context.Canceled, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "wrapped backend error", err: errors.Join(errors.New("outer"), &BackendError{Status: 500}), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
