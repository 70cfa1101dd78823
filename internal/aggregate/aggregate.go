// Package aggregate computes workspace-wide coverage totals.
package aggregate

import (
	"math"

	"covlens/internal/lcov"
)

// Totals is the overall line-coverage summary across all resolved records.
type Totals struct {
	TotalLines   int
	CoveredLines int
	// Percentage is covered/total*100 rounded to two decimals, 0 when no
	// lines were found anywhere.
	Percentage float64
}

// Compute sums line counters across records. Records that never resolved to
// a file are simply not passed in, so they cannot skew the totals.
func Compute(records []*lcov.Record) Totals {
	var t Totals
	for _, rec := range records {
		// A record with no found lines contributes nothing, even when a
		// producer emitted a stray hit counter for it.
		if rec == nil || rec.Lines.Found == 0 {
			continue
		}
		t.TotalLines += rec.Lines.Found
		t.CoveredLines += rec.Lines.Hit
	}
	if t.TotalLines > 0 {
		pct := float64(t.CoveredLines) / float64(t.TotalLines) * 100
		t.Percentage = math.Round(pct*100) / 100
	}
	return t
}
