package bench

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/zen-systems/metaroute/pkg/oracle"
	"github.com/zen-systems/metaroute/pkg/prompt"
	"github.com/zen-systems/metaroute/pkg/session"
	"github.com/zen-systems/metaroute/pkg/strategy"
)

// finalChoice matches the strategy name on the ">> FINAL CHOICE:" line
// of a meta-reasoning response.
var finalChoice = regexp.MustCompile(`>> FINAL CHOICE:\s*([a-zA-Z_ -]+)`)

// mrpFallbackStrategy runs when the choice line cannot be parsed.
const mrpFallbackStrategy = "cot"

// MRPBaseline is a comparison solver: a single free-text meta-reasoning
// call selects a strategy, then the strategy runs. No scorecard, no
// routing thresholds, no verification.
type MRPBaseline struct {
	oracle     oracle.Port
	dispatcher strategy.Dispatcher
	prompts    *prompt.Library
}

// NewMRPBaseline creates the baseline solver.
func NewMRPBaseline(port oracle.Port, dispatcher strategy.Dispatcher, prompts *prompt.Library) *MRPBaseline {
	if prompts == nil {
		prompts = prompt.Defaults()
	}
	return &MRPBaseline{oracle: port, dispatcher: dispatcher, prompts: prompts}
}

// Run solves one problem. It satisfies Solver so the benchmark runner
// can drive it interchangeably with the routing session; the trace
// records the raw selection text and the parsed choice.
func (m *MRPBaseline) Run(ctx context.Context, problem, contextText string) *session.Result {
	query := problem
	if contextText != "" {
		query = fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s", contextText, problem)
	}

	trace := &session.Trace{Route: "mrp_baseline"}
	total := oracle.Usage{}

	metaPrompt, err := m.prompts.Render(prompt.MRPEvaluation, map[string]string{"user_query": query})
	if err != nil {
		trace.Evaluation.Error = err.Error()
		return &session.Result{FinalAnswer: "Error: " + err.Error(), Trace: trace, TotalUsage: total}
	}

	raw, usage := m.oracle.Invoke(ctx, metaPrompt)
	total = oracle.Merge(total, usage)
	trace.Evaluation.RawResponses = append(trace.Evaluation.RawResponses, raw)

	selected := ParseFinalChoice(raw)
	trace.Evaluation.SelectedStrategy = selected

	answer, usage := m.dispatcher.Run(ctx, selected, query, "")
	total = oracle.Merge(total, usage)
	trace.Steps = append(trace.Steps, session.Step{State: "mrp_execute", Strategy: selected})

	return &session.Result{FinalAnswer: answer, Trace: trace, TotalUsage: total}
}

// ParseFinalChoice extracts the chosen strategy from a meta-reasoning
// response, falling back to chain-of-thought when no choice line is
// present.
func ParseFinalChoice(text string) string {
	match := finalChoice.FindStringSubmatch(text)
	if match == nil {
		return mrpFallbackStrategy
	}
	choice := strings.TrimSpace(match[1])
	if choice == "" {
		return mrpFallbackStrategy
	}
	return choice
}
