package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Thresholds holds the named numeric cut points for route selection.
// The decision shape is fixed in the router; only these values are
// tunable.
type Thresholds struct {
	// ConfidentScoreMin is the minimum top score for the confident path.
	ConfidentScoreMin float64 `yaml:"confident_score_min"`

	// ConfidentConfidenceMin is the minimum self-reported confidence
	// for the confident path.
	ConfidentConfidenceMin float64 `yaml:"confident_confidence_min"`

	// ConfidentGapMin is the minimum top-two score gap that can stand
	// in for high confidence.
	ConfidentGapMin float64 `yaml:"confident_gap_min"`

	// SynthesisScoreMax is the top score at or below which no strategy
	// is considered suitable and the synthesis fallback runs.
	SynthesisScoreMax float64 `yaml:"synthesis_score_max"`

	// SynthesisConfidenceMax bounds the confidence for the synthesis
	// fallback; above it the guarded path runs instead.
	SynthesisConfidenceMax float64 `yaml:"synthesis_confidence_max"`

	// TwoStageEvaluation splits stage one into separate scorecard and
	// selection calls instead of one combined prompt.
	TwoStageEvaluation bool `yaml:"two_stage_evaluation,omitempty"`
}

// LoadThresholds reads routing thresholds from a YAML file. Decoding
// starts from the defaults, so keys absent from the file keep their
// default while an explicit zero in the file stays zero.
func LoadThresholds(path string) (*Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	t := DefaultThresholds()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, err
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// DefaultThresholds returns the default routing thresholds.
func DefaultThresholds() *Thresholds {
	return &Thresholds{
		ConfidentScoreMin:      8,
		ConfidentConfidenceMin: 0.9,
		ConfidentGapMin:        3,
		SynthesisScoreMax:      4,
		SynthesisConfidenceMax: 0.5,
	}
}

// Validate checks the thresholds for internal consistency.
func (t *Thresholds) Validate() error {
	if t.SynthesisScoreMax >= t.ConfidentScoreMin {
		return fmt.Errorf("synthesis_score_max (%.1f) must be below confident_score_min (%.1f)",
			t.SynthesisScoreMax, t.ConfidentScoreMin)
	}
	if t.ConfidentConfidenceMin < 0 || t.ConfidentConfidenceMin > 1 {
		return fmt.Errorf("confident_confidence_min must be in [0,1], got %.2f", t.ConfidentConfidenceMin)
	}
	if t.SynthesisConfidenceMax < 0 || t.SynthesisConfidenceMax > 1 {
		return fmt.Errorf("synthesis_confidence_max must be in [0,1], got %.2f", t.SynthesisConfidenceMax)
	}
	return nil
}
