// Package router maps a scorecard and selection judgment onto one of
// three execution paths. Decide is a pure function: no oracle calls,
// no side effects, same inputs always give the same route.
package router

import (
	"github.com/zen-systems/metaroute/pkg/config"
	"github.com/zen-systems/metaroute/pkg/judgment"
)

// Route is the chosen high-level execution path for one problem.
type Route int

const (
	// RouteConfident dispatches the selected strategy once and accepts
	// the answer as final.
	RouteConfident Route = iota

	// RouteGuarded dispatches the selected strategy, verifies the
	// draft with a self-correction call, and mitigates on failure.
	RouteGuarded

	// RouteSynthesis bypasses strategy selection for a unified
	// synthesis prompt.
	RouteSynthesis
)

// String returns the route's trace tag.
func (r Route) String() string {
	switch r {
	case RouteConfident:
		return "confident_execution"
	case RouteGuarded:
		return "guarded_execution"
	case RouteSynthesis:
		return "synthesis"
	}
	return "unknown"
}

// Decide picks the route for one problem.
//
// The decision shape is fixed; the cut points come from the thresholds:
//
//  1. REQUEST_SYNTHESIS status forces synthesis, overriding all scores.
//  2. High top score with high confidence or a large top-two gap runs
//     the confident path. A single-candidate scorecard's gap equals its
//     top score, so a lone strong candidate can qualify on gap alone.
//  3. A top score at or below synthesis_score_max with confidence at or
//     below synthesis_confidence_max falls through to synthesis.
//  4. Everything else runs guarded.
func Decide(sc judgment.Scorecard, sel judgment.Selection, t *config.Thresholds) Route {
	if t == nil {
		t = config.DefaultThresholds()
	}

	if sel.Status == judgment.StatusRequestSynthesis {
		return RouteSynthesis
	}

	ranked := judgment.Rank(sc)

	if ranked.MaxScore >= t.ConfidentScoreMin &&
		(sel.Confidence >= t.ConfidentConfidenceMin || ranked.ScoreGap >= t.ConfidentGapMin) {
		return RouteConfident
	}

	if ranked.MaxScore <= t.SynthesisScoreMax && sel.Confidence <= t.SynthesisConfidenceMax {
		return RouteSynthesis
	}

	return RouteGuarded
}
