package oracle

import (
	"context"
	"fmt"
	"time"
)

// Usage maps a usage dimension (e.g. "prompt_tokens") to a count.
type Usage map[string]int

// Canonical usage dimensions reported by the built-in backends.
const (
	DimPromptTokens     = "prompt_tokens"
	DimCompletionTokens = "completion_tokens"
	DimTotalTokens      = "total_tokens"
)

// Merge returns the dimension-wise sum of a and b. Either argument may
// be nil; the inputs are never mutated.
func Merge(a, b Usage) Usage {
	merged := make(Usage, len(a)+len(b))
	for dim, count := range a {
		merged[dim] += count
	}
	for dim, count := range b {
		merged[dim] += count
	}
	return merged
}

// Port is the oracle interface the routing core consumes. Invoke never
// fails: transport errors come back as inline "Error: ..." text with
// empty usage.
type Port interface {
	// Invoke sends a prompt and returns the generated text plus the
	// usage counts the call consumed.
	Invoke(ctx context.Context, prompt string) (string, Usage)

	// Name returns the port's identifier for traces.
	Name() string
}

// Backend defines the interface for LLM provider backends.
type Backend interface {
	// Generate sends a prompt to the model and returns the generated
	// text and usage counts.
	Generate(ctx context.Context, model string, prompt string) (string, Usage, error)

	// Name returns the backend's identifier.
	Name() string

	// Models returns the list of supported models.
	Models() []string
}

// port pins a backend to a model, retries transient failures, and
// converts remaining errors into inline error text per the Port
// contract.
type port struct {
	backend     Backend
	model       string
	maxRetries  int
	baseBackoff time.Duration
}

// PortOption configures a port.
type PortOption func(*port)

// WithRetry sets the retry budget for transient backend failures.
func WithRetry(maxRetries int, baseBackoff time.Duration) PortOption {
	return func(p *port) {
		p.maxRetries = maxRetries
		p.baseBackoff = baseBackoff
	}
}

// NewPort wraps a backend and model as a non-failing Port. By default
// transient failures are retried twice with exponential backoff.
func NewPort(backend Backend, model string, opts ...PortOption) Port {
	p := &port{
		backend:     backend,
		model:       model,
		maxRetries:  2,
		baseBackoff: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *port) Invoke(ctx context.Context, prompt string) (string, Usage) {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		text, usage, err := p.backend.Generate(ctx, p.model, prompt)
		if err == nil {
			if usage == nil {
				usage = Usage{}
			}
			return text, usage
		}

		lastErr = err
		if !IsTransient(err) || attempt == p.maxRetries {
			break
		}
		if err := sleepWithContext(ctx, p.baseBackoff<<attempt); err != nil {
			break
		}
	}
	return fmt.Sprintf("Error: %v", lastErr), Usage{}
}

func (p *port) Name() string {
	return fmt.Sprintf("%s/%s", p.backend.Name(), p.model)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
