package session

import "github.com/zen-systems/metaroute/pkg/oracle"

// Ledger accumulates per-call usage records into session totals. One
// ledger per session; never shared.
type Ledger struct {
	totals oracle.Usage
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{totals: oracle.Usage{}}
}

// Record merges a call's usage into the totals, dimension-wise.
func (l *Ledger) Record(usage oracle.Usage) {
	for dim, count := range usage {
		l.totals[dim] += count
	}
}

// Totals returns a copy of the accumulated usage.
func (l *Ledger) Totals() oracle.Usage {
	return oracle.Merge(l.totals, nil)
}
