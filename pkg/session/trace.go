package session

import (
	"encoding/json"

	"github.com/zen-systems/metaroute/pkg/judgment"
)

// Trace is the append-only execution log for one session, handed to
// the caller with the result. Nothing is persisted here.
type Trace struct {
	Route      string        `json:"route,omitempty"`
	Evaluation EvaluationLog `json:"evaluation"`
	Steps      []Step        `json:"steps,omitempty"`
}

// EvaluationLog records the stage-one inputs the route was decided on,
// plus the raw oracle text for postmortems.
type EvaluationLog struct {
	RawResponses       []string           `json:"raw_responses,omitempty"`
	Scorecard          judgment.Scorecard `json:"strategy_scores,omitempty"`
	MaxScore           float64            `json:"max_score"`
	ScoreGap           float64            `json:"score_gap"`
	SelectedStrategy   string             `json:"selected_strategy,omitempty"`
	Confidence         float64            `json:"confidence_score"`
	Status             string             `json:"status,omitempty"`
	MitigationStrategy string             `json:"mitigation_strategy,omitempty"`
	Error              string             `json:"error,omitempty"`
}

// Step records one path-executor state transition.
type Step struct {
	State        string `json:"state"`
	Strategy     string `json:"strategy,omitempty"`
	RawResponse  string `json:"raw_response,omitempty"`
	ChecksPassed *bool  `json:"checks_passed,omitempty"`
	Note         string `json:"note,omitempty"`
}

// addStep appends a state transition to the trace.
func (t *Trace) addStep(step Step) {
	t.Steps = append(t.Steps, step)
}

// JSON renders the trace for result files.
func (t *Trace) JSON() string {
	data, err := json.Marshal(t)
	if err != nil {
		return "{}"
	}
	return string(data)
}
