// Package session keeps each user's most recent calculation between requests.
//
// A Snapshot is immutable: handlers derive a new one with the With* methods
// and Put it back, so a reader never sees a half-updated result.
package session

import (
	"time"

	"github.com/rshade/emissionmission/internal/emissions"
)

// Snapshot is one user's calculation state.
type Snapshot struct {
	result     *emissions.Result
	comparison *emissions.ComparisonReport
	savings    *emissions.Savings
	updatedAt  time.Time
}

// Result returns the latest emissions result.
func (s Snapshot) Result() (emissions.Result, bool) {
	if s.result == nil {
		return emissions.Result{}, false
	}
	return *s.result, true
}

// Comparison returns the latest comparison report.
func (s Snapshot) Comparison() (emissions.ComparisonReport, bool) {
	if s.comparison == nil {
		return emissions.ComparisonReport{}, false
	}
	return *s.comparison, true
}

// Savings returns the latest savings projection.
func (s Snapshot) Savings() (emissions.Savings, bool) {
	if s.savings == nil {
		return emissions.Savings{}, false
	}
	return *s.savings, true
}

// UpdatedAt is when the snapshot was last derived.
func (s Snapshot) UpdatedAt() time.Time {
	return s.updatedAt
}

// HasResult reports whether a calculation has been stored.
func (s Snapshot) HasResult() bool {
	return s.result != nil
}

// WithResult returns a copy holding r. A new result invalidates the previous
// comparison, which was made against the old total.
func (s Snapshot) WithResult(r emissions.Result, at time.Time) Snapshot {
	return Snapshot{result: &r, savings: s.savings, updatedAt: at}
}

// WithComparison returns a copy holding c.
func (s Snapshot) WithComparison(c emissions.ComparisonReport, at time.Time) Snapshot {
	s.comparison = &c
	s.updatedAt = at
	return s
}

// WithSavings returns a copy holding sv.
func (s Snapshot) WithSavings(sv emissions.Savings, at time.Time) Snapshot {
	s.savings = &sv
	s.updatedAt = at
	return s
}
