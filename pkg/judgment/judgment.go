// Package judgment holds the machine-readable self-assessment the
// oracle produces before routing: a per-strategy scorecard and a
// selection judgment. Both are parsed defensively; missing or
// wrong-typed fields degrade to documented defaults.
package judgment

import (
	"sort"

	"github.com/zen-systems/metaroute/pkg/extract"
)

// Status marks how the oracle wants the problem handled.
type Status int

const (
	// StatusNormal lets score-based routing decide.
	StatusNormal Status = iota

	// StatusRequestSynthesis bypasses strategy selection entirely.
	StatusRequestSynthesis
)

const statusRequestSynthesisTag = "REQUEST_SYNTHESIS"

// String returns the wire tag for the status.
func (s Status) String() string {
	if s == StatusRequestSynthesis {
		return statusRequestSynthesisTag
	}
	return "NORMAL"
}

// ParseStatus maps a wire tag to a Status. Unknown tags are NORMAL.
func ParseStatus(tag string) Status {
	if tag == statusRequestSynthesisTag {
		return StatusRequestSynthesis
	}
	return StatusNormal
}

// Scorecard maps a strategy name to its numeric suitability score.
// Built once per problem, immutable thereafter.
type Scorecard map[string]float64

// Selection is the oracle's selection judgment for one problem.
type Selection struct {
	SelectedStrategy   string
	Confidence         float64
	Status             Status
	MitigationStrategy string
}

// Document field names in the stage-one evaluation payload.
const (
	fieldStrategyScores     = "strategy_scores"
	fieldSelectedStrategy   = "selected_strategy"
	fieldConfidenceScore    = "confidence_score"
	fieldStatus             = "status"
	fieldMitigationStrategy = "mitigation_strategy"
)

// ScorecardFrom reads the strategy scorecard out of a parsed document.
// Non-numeric entries are discarded; the result is never nil.
func ScorecardFrom(doc extract.Document) Scorecard {
	return Scorecard(doc.Scores(fieldStrategyScores))
}

// SelectionFrom reads the selection judgment out of a parsed document,
// applying the documented defaults: empty strategy, confidence 0.0,
// status NORMAL, no mitigation strategy.
func SelectionFrom(doc extract.Document) Selection {
	return Selection{
		SelectedStrategy:   doc.String(fieldSelectedStrategy, ""),
		Confidence:         doc.Float(fieldConfidenceScore, 0.0),
		Status:             ParseStatus(doc.String(fieldStatus, "")),
		MitigationStrategy: doc.String(fieldMitigationStrategy, ""),
	}
}

// Ranked is the descending-sorted numeric projection of a scorecard.
type Ranked struct {
	// MaxScore is the highest score, or 0 for an empty scorecard.
	MaxScore float64

	// ScoreGap is the difference between the top two scores. With
	// fewer than two scores it equals MaxScore.
	ScoreGap float64

	// TopStrategy is the name holding MaxScore, ties broken by name
	// for determinism. Empty for an empty scorecard.
	TopStrategy string
}

// Rank computes the ranked projection of a scorecard.
func Rank(sc Scorecard) Ranked {
	type entry struct {
		name  string
		score float64
	}
	entries := make([]entry, 0, len(sc))
	for name, score := range sc {
		entries = append(entries, entry{name: name, score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score == entries[j].score {
			return entries[i].name < entries[j].name
		}
		return entries[i].score > entries[j].score
	})

	if len(entries) == 0 {
		return Ranked{}
	}

	ranked := Ranked{
		MaxScore:    entries[0].score,
		TopStrategy: entries[0].name,
	}
	if len(entries) > 1 {
		ranked.ScoreGap = entries[0].score - entries[1].score
	} else {
		ranked.ScoreGap = ranked.MaxScore
	}
	return ranked
}
