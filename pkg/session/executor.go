package session

import (
	"context"
	"strings"

	"github.com/zen-systems/metaroute/pkg/extract"
	"github.com/zen-systems/metaroute/pkg/judgment"
	"github.com/zen-systems/metaroute/pkg/oracle"
	"github.com/zen-systems/metaroute/pkg/prompt"
	"github.com/zen-systems/metaroute/pkg/router"
)

// Path-executor states. Idle is initial, Done is terminal.
type state int

const (
	stateIdle state = iota
	stateConfident
	stateGuardedDraft
	stateGuardedVerify
	stateGuardedMitigate
	stateSynthesis
	stateDone
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateConfident:
		return "confident_execution"
	case stateGuardedDraft:
		return "guarded_draft"
	case stateGuardedVerify:
		return "guarded_verify"
	case stateGuardedMitigate:
		return "guarded_mitigate"
	case stateSynthesis:
		return "synthesis"
	case stateDone:
		return "done"
	}
	return "unknown"
}

// execute drives the path-executor state machine for the chosen route.
// Every transition records its usage on the ledger and its step on the
// trace before leaving the state.
func (s *Session) execute(ctx context.Context, route router.Route, query string, sel judgment.Selection, ledger *Ledger, trace *Trace) string {
	var (
		st     = stateIdle
		draft  string
		answer string
	)

	for st != stateDone {
		switch st {
		case stateIdle:
			switch route {
			case router.RouteConfident:
				st = stateConfident
			case router.RouteGuarded:
				st = stateGuardedDraft
			case router.RouteSynthesis:
				st = stateSynthesis
			}

		case stateConfident:
			result, usage := s.dispatcher.Run(ctx, sel.SelectedStrategy, query, "")
			ledger.Record(usage)
			trace.addStep(Step{State: st.String(), Strategy: sel.SelectedStrategy})
			answer = result
			st = stateDone

		case stateGuardedDraft:
			result, usage := s.dispatcher.Run(ctx, sel.SelectedStrategy, query, "")
			ledger.Record(usage)
			trace.addStep(Step{State: st.String(), Strategy: sel.SelectedStrategy})
			draft = result
			st = stateGuardedVerify

		case stateGuardedVerify:
			passed, raw := s.verify(ctx, query, draft, ledger)
			trace.addStep(Step{State: st.String(), RawResponse: raw, ChecksPassed: &passed})
			if passed {
				answer = draft
				st = stateDone
			} else {
				st = stateGuardedMitigate
			}

		case stateGuardedMitigate:
			if strings.TrimSpace(sel.MitigationStrategy) == "" {
				// No backup strategy, so the unverified draft stands.
				trace.addStep(Step{State: st.String(), Note: "no mitigation strategy; falling back to draft"})
				answer = draft
				st = stateDone
				break
			}
			result, usage := s.dispatcher.Run(ctx, sel.MitigationStrategy, query, "")
			ledger.Record(usage)
			trace.addStep(Step{State: st.String(), Strategy: sel.MitigationStrategy})
			answer = result
			st = stateDone

		case stateSynthesis:
			result, usage := s.synthesize(ctx, query)
			ledger.Record(usage)
			trace.addStep(Step{State: st.String()})
			answer = result
			st = stateDone
		}
	}

	return answer
}

// verify runs the self-correction check over a draft. Any failure to
// render, invoke, or decode fails closed: checks_passed = false.
func (s *Session) verify(ctx context.Context, query, draft string, ledger *Ledger) (bool, string) {
	verifyPrompt, err := s.prompts.Render(prompt.Verification, map[string]string{
		"user_query":   query,
		"draft_answer": draft,
	})
	if err != nil {
		return false, ""
	}

	raw, usage := s.oracle.Invoke(ctx, verifyPrompt)
	ledger.Record(usage)

	doc, err := extract.Extract(raw)
	if err != nil {
		return false, raw
	}
	return doc.Bool("checks_passed", false), raw
}

// synthesize runs the unified synthesis fallback.
func (s *Session) synthesize(ctx context.Context, query string) (string, oracle.Usage) {
	synthesisPrompt, err := s.prompts.Render(prompt.Synthesis, map[string]string{
		"user_query": query,
	})
	if err != nil {
		return "Error: " + err.Error(), oracle.Usage{}
	}
	return s.oracle.Invoke(ctx, synthesisPrompt)
}
