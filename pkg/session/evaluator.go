package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zen-systems/metaroute/pkg/extract"
	"github.com/zen-systems/metaroute/pkg/judgment"
	"github.com/zen-systems/metaroute/pkg/prompt"
)

// Stage1DecodeError is terminal for the session: the metacognitive
// evaluation could not be decoded. It carries the raw oracle text(s)
// for diagnosis. Nothing is retried.
type Stage1DecodeError struct {
	RawResponses []string
	Err          error
}

func (e *Stage1DecodeError) Error() string {
	return fmt.Sprintf("failed to decode stage-one evaluation: %v", e.Err)
}

func (e *Stage1DecodeError) Unwrap() error {
	return e.Err
}

// evaluate runs the stage-one metacognitive evaluation: one combined
// oracle call, or a scorecard call followed by a selection call when
// two-stage evaluation is configured. Usage is recorded on the ledger
// before any decode attempt, so failed calls still count.
func (s *Session) evaluate(ctx context.Context, query string, ledger *Ledger, trace *Trace) (judgment.Scorecard, judgment.Selection, error) {
	if s.thresholds.TwoStageEvaluation {
		return s.evaluateTwoStage(ctx, query, ledger, trace)
	}

	evalPrompt, err := s.prompts.Render(prompt.MetacognitiveEvaluation, map[string]string{
		"user_query": query,
	})
	if err != nil {
		return nil, judgment.Selection{}, err
	}

	raw, usage := s.oracle.Invoke(ctx, evalPrompt)
	ledger.Record(usage)
	trace.Evaluation.RawResponses = append(trace.Evaluation.RawResponses, raw)

	doc, err := extract.Extract(raw)
	if err != nil {
		return nil, judgment.Selection{}, &Stage1DecodeError{RawResponses: []string{raw}, Err: err}
	}

	return judgment.ScorecardFrom(doc), judgment.SelectionFrom(doc), nil
}

// evaluateTwoStage elicits the scorecard first, then feeds it back to
// elicit the selection judgment.
func (s *Session) evaluateTwoStage(ctx context.Context, query string, ledger *Ledger, trace *Trace) (judgment.Scorecard, judgment.Selection, error) {
	scoringPrompt, err := s.prompts.Render(prompt.StrategyScoring, map[string]string{
		"user_query": query,
	})
	if err != nil {
		return nil, judgment.Selection{}, err
	}

	rawScores, usage := s.oracle.Invoke(ctx, scoringPrompt)
	ledger.Record(usage)
	trace.Evaluation.RawResponses = append(trace.Evaluation.RawResponses, rawScores)

	scoresDoc, err := extract.Extract(rawScores)
	if err != nil {
		return nil, judgment.Selection{}, &Stage1DecodeError{RawResponses: []string{rawScores}, Err: err}
	}
	scorecard := judgment.ScorecardFrom(scoresDoc)

	scoresJSON, err := json.Marshal(scorecard)
	if err != nil {
		return nil, judgment.Selection{}, fmt.Errorf("failed to encode scorecard: %w", err)
	}

	selectionPrompt, err := s.prompts.Render(prompt.StrategySelection, map[string]string{
		"user_query":           query,
		"strategy_scores_json": string(scoresJSON),
	})
	if err != nil {
		return nil, judgment.Selection{}, err
	}

	rawSelection, usage := s.oracle.Invoke(ctx, selectionPrompt)
	ledger.Record(usage)
	trace.Evaluation.RawResponses = append(trace.Evaluation.RawResponses, rawSelection)

	selectionDoc, err := extract.Extract(rawSelection)
	if err != nil {
		return nil, judgment.Selection{}, &Stage1DecodeError{RawResponses: []string{rawScores, rawSelection}, Err: err}
	}

	return scorecard, judgment.SelectionFrom(selectionDoc), nil
}
