// Package session runs one problem through the routing core: stage-one
// metacognitive evaluation, route decision, path execution, and usage
// accounting. Each Run owns its scorecard, trace, and ledger and
// shares nothing across runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/zen-systems/metaroute/pkg/config"
	"github.com/zen-systems/metaroute/pkg/judgment"
	"github.com/zen-systems/metaroute/pkg/oracle"
	"github.com/zen-systems/metaroute/pkg/prompt"
	"github.com/zen-systems/metaroute/pkg/router"
	"github.com/zen-systems/metaroute/pkg/strategy"
)

// decodeErrorAnswer is the fixed answer shape for an undecodable
// stage-one evaluation. The raw oracle text lives in the trace.
const decodeErrorAnswer = "Error: Could not decode the metacognitive evaluation from the LLM."

// Session routes problems. Construct once, then call Run per problem;
// the session value itself holds only immutable collaborators.
type Session struct {
	oracle     oracle.Port
	dispatcher strategy.Dispatcher
	prompts    *prompt.Library
	thresholds *config.Thresholds
	debug      bool
}

// Option configures a Session.
type Option func(*Session)

// WithPrompts sets the prompt library.
func WithPrompts(lib *prompt.Library) Option {
	return func(s *Session) {
		s.prompts = lib
	}
}

// WithThresholds sets the routing thresholds.
func WithThresholds(t *config.Thresholds) Option {
	return func(s *Session) {
		s.thresholds = t
	}
}

// WithDebug enables debug logging.
func WithDebug(debug bool) Option {
	return func(s *Session) {
		s.debug = debug
	}
}

// New creates a session runner over an oracle port and a strategy
// dispatcher.
func New(port oracle.Port, dispatcher strategy.Dispatcher, opts ...Option) *Session {
	s := &Session{
		oracle:     port,
		dispatcher: dispatcher,
		prompts:    prompt.Defaults(),
		thresholds: config.DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is what the caller gets back for one problem. Run never
// returns an error; failures surface as a diagnostic FinalAnswer with
// the raw text preserved in the trace.
type Result struct {
	FinalAnswer string
	Trace       *Trace
	TotalUsage  oracle.Usage
}

// Run routes one problem to a final answer. contextText may be empty;
// when present it is prepended to the problem for every prompt.
func (s *Session) Run(ctx context.Context, problem, contextText string) *Result {
	ledger := NewLedger()
	trace := &Trace{}

	query := problem
	if contextText != "" {
		query = fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s", contextText, problem)
	}

	scorecard, sel, err := s.evaluate(ctx, query, ledger, trace)
	if err != nil {
		trace.Evaluation.Error = err.Error()
		var decodeErr *Stage1DecodeError
		if errors.As(err, &decodeErr) {
			if s.debug {
				log.Printf("[session] stage-one decode failed: %v", err)
			}
			return &Result{FinalAnswer: decodeErrorAnswer, Trace: trace, TotalUsage: ledger.Totals()}
		}
		return &Result{FinalAnswer: "Error: " + err.Error(), Trace: trace, TotalUsage: ledger.Totals()}
	}

	ranked := judgment.Rank(scorecard)
	trace.Evaluation.Scorecard = scorecard
	trace.Evaluation.MaxScore = ranked.MaxScore
	trace.Evaluation.ScoreGap = ranked.ScoreGap
	trace.Evaluation.SelectedStrategy = sel.SelectedStrategy
	trace.Evaluation.Confidence = sel.Confidence
	trace.Evaluation.Status = sel.Status.String()
	trace.Evaluation.MitigationStrategy = sel.MitigationStrategy

	route := router.Decide(scorecard, sel, s.thresholds)
	trace.Route = route.String()
	if s.debug {
		log.Printf("[session] route=%s max_score=%.1f gap=%.1f confidence=%.2f",
			route, ranked.MaxScore, ranked.ScoreGap, sel.Confidence)
	}

	answer := s.execute(ctx, route, query, sel, ledger, trace)

	return &Result{
		FinalAnswer: answer,
		Trace:       trace,
		TotalUsage:  ledger.Totals(),
	}
}
