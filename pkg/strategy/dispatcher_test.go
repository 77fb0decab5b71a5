package strategy

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zen-systems/metaroute/pkg/oracle"
	"github.com/zen-systems/metaroute/pkg/prompt"
)

// capturePort records prompts and returns a fixed answer with fixed usage.
type capturePort struct {
	prompts []string
	answer  string
	usage   oracle.Usage
}

func (p *capturePort) Invoke(_ context.Context, promptText string) (string, oracle.Usage) {
	p.prompts = append(p.prompts, promptText)
	return p.answer, p.usage
}

func (p *capturePort) Name() string { return "capture" }

func newTestDispatcher(t *testing.T, port oracle.Port) *RecipeDispatcher {
	t.Helper()
	d, err := NewDispatcher(port, prompt.Defaults(), "")
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}
	return d
}

func TestRun_DispatchesRecipe(t *testing.T) {
	port := &capturePort{answer: "the answer is 42", usage: oracle.Usage{"total_tokens": 10}}
	d := newTestDispatcher(t, port)

	answer, usage := d.Run(context.Background(), "cot", "What is 6*7?", "")
	if answer != "the answer is 42" {
		t.Errorf("Run() answer = %q", answer)
	}
	if usage["total_tokens"] != 10 {
		t.Errorf("Run() usage = %v", usage)
	}

	if len(port.prompts) != 1 {
		t.Fatalf("expected 1 oracle call, got %d", len(port.prompts))
	}
	sent := port.prompts[0]
	if !strings.Contains(sent, "'cot' strategy") {
		t.Errorf("prompt missing strategy name:\n%s", sent)
	}
	if !strings.Contains(sent, "step by step") {
		t.Errorf("prompt missing recipe instructions:\n%s", sent)
	}
	if !strings.Contains(sent, "What is 6*7?") {
		t.Errorf("prompt missing problem:\n%s", sent)
	}
}

func TestRun_ContextPrepended(t *testing.T) {
	port := &capturePort{answer: "ok"}
	d := newTestDispatcher(t, port)

	d.Run(context.Background(), "direct", "Who won?", "The 1998 final was played in Paris.")
	if len(port.prompts) != 1 {
		t.Fatalf("expected 1 oracle call, got %d", len(port.prompts))
	}
	if !strings.Contains(port.prompts[0], "Context:\nThe 1998 final was played in Paris.\n\nQuestion:\nWho won?") {
		t.Errorf("context not prepended:\n%s", port.prompts[0])
	}
}

func TestRun_EmptyStrategyName(t *testing.T) {
	port := &capturePort{answer: "should not be called"}
	d := newTestDispatcher(t, port)

	for _, name := range []string{"", "   "} {
		answer, usage := d.Run(context.Background(), name, "problem", "")
		if answer != "Error: strategy name is missing." {
			t.Errorf("Run(%q) = %q", name, answer)
		}
		if len(usage) != 0 {
			t.Errorf("Run(%q) usage = %v, want empty", name, usage)
		}
	}
	if len(port.prompts) != 0 {
		t.Error("oracle must not be called for empty strategy names")
	}
}

func TestRun_UnknownStrategy(t *testing.T) {
	port := &capturePort{}
	d := newTestDispatcher(t, port)

	answer, _ := d.Run(context.Background(), "galaxy_brain", "problem", "")
	want := "Error: Recipe file for strategy 'galaxy_brain' not found."
	if answer != want {
		t.Errorf("Run() = %q, want %q", answer, want)
	}
	if len(port.prompts) != 0 {
		t.Error("oracle must not be called for unknown strategies")
	}
}

func TestRun_NameNormalization(t *testing.T) {
	port := &capturePort{answer: "ok"}
	d := newTestDispatcher(t, port)

	answer, _ := d.Run(context.Background(), "Plan and Solve", "problem", "")
	if strings.HasPrefix(answer, "Error:") {
		t.Errorf("mixed-case name should resolve: %q", answer)
	}
}

func TestNewDispatcher_RecipeOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cot.md"), []byte("CUSTOM COT INSTRUCTIONS"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "socratic.md"), []byte("ask questions"), 0644); err != nil {
		t.Fatal(err)
	}

	port := &capturePort{answer: "ok"}
	d, err := NewDispatcher(port, prompt.Defaults(), dir)
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	d.Run(context.Background(), "cot", "p", "")
	if !strings.Contains(port.prompts[0], "CUSTOM COT INSTRUCTIONS") {
		t.Error("recipe file should override built-in recipe")
	}

	answer, _ := d.Run(context.Background(), "socratic", "p", "")
	if strings.HasPrefix(answer, "Error:") {
		t.Errorf("new recipe from dir should be registered: %q", answer)
	}
}
