package emissions

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Direction is the qualitative side of a comparison.
type Direction string

const (
	// Above means the user total exceeds the reference.
	Above Direction = "above"
	// Below means the user total is at or under the reference.
	Below Direction = "below"
)

// Comparison is the signed difference between a user total and a reference.
type Comparison struct {
	UserTotal float64   `json:"user_total"`
	Reference float64   `json:"reference"`
	Diff      float64   `json:"diff"`
	Direction Direction `json:"direction"`
}

// Magnitude returns |Diff|.
func (c Comparison) Magnitude() float64 {
	return math.Abs(c.Diff)
}

// Compare returns userTotal − reference with its direction.
// A zero difference counts as Below.
func Compare(userTotal, reference float64) Comparison {
	diff := userTotal - reference
	dir := Below
	if diff > 0 {
		dir = Above
	}
	return Comparison{
		UserTotal: userTotal,
		Reference: reference,
		Diff:      diff,
		Direction: dir,
	}
}

// StateLookupFunc resolves a normalized state name to its average.
// It returns an error wrapping a not-found sentinel for unknown states.
type StateLookupFunc func(name string) (float64, error)

// StateComparison is the comparison against the user's declared state.
type StateComparison struct {
	State      string      `json:"state"`
	Found      bool        `json:"found"`
	Average    float64     `json:"average,omitempty"`
	Comparison *Comparison `json:"comparison,omitempty"`
}

// ComparisonReport compares one total against a state and the national average.
type ComparisonReport struct {
	Total           float64          `json:"total"`
	State           *StateComparison `json:"state,omitempty"`
	NationalAverage float64          `json:"national_average"`
	National        Comparison       `json:"national"`
}

// StateNotFoundSentence is rendered when the declared state has no average.
const StateNotFoundSentence = "State not found in dataset."

// CompareToReferences builds the state and national comparisons for a total.
//
// An empty state skips the state comparison. A state the lookup cannot
// resolve yields Found=false; the national comparison is always produced.
// Lookup errors other than not-found are returned to the caller.
func CompareToReferences(
	total float64,
	state string,
	lookup StateLookupFunc,
	national float64,
	notFound error,
) (ComparisonReport, error) {
	report := ComparisonReport{
		Total:           total,
		NationalAverage: national,
		National:        Compare(total, national),
	}

	if state == "" || lookup == nil {
		return report, nil
	}

	sc := &StateComparison{State: state}
	avg, err := lookup(state)
	switch {
	case err == nil:
		cmp := Compare(total, avg)
		sc.Found = true
		sc.Average = avg
		sc.Comparison = &cmp
	case notFound != nil && errors.Is(err, notFound):
		// Found stays false.
	default:
		return ComparisonReport{}, fmt.Errorf("looking up state %q: %w", state, err)
	}
	report.State = sc
	return report, nil
}

// StateSentence renders the state comparison line, or "" when no state was given.
func (r ComparisonReport) StateSentence() string {
	if r.State == nil {
		return ""
	}
	if !r.State.Found || r.State.Comparison == nil {
		return StateNotFoundSentence
	}
	c := r.State.Comparison
	if c.Direction == Above {
		return fmt.Sprintf("You are %.2f lbs above your state average.", c.Magnitude())
	}
	return fmt.Sprintf("You are %.2f lbs below your state average. Good job!", c.Magnitude())
}

// NationalSentence renders the national comparison line.
func (r ComparisonReport) NationalSentence() string {
	c := r.National
	if c.Direction == Above {
		return fmt.Sprintf("You are %.2f lbs above the national average.", c.Magnitude())
	}
	return fmt.Sprintf("You are %.2f lbs below the national average. Great!", c.Magnitude())
}

// Sentences returns the non-empty comparison lines in display order.
func (r ComparisonReport) Sentences() []string {
	lines := make([]string, 0, 2) //nolint:mnd // state + national
	if s := r.StateSentence(); s != "" {
		lines = append(lines, s)
	}
	return append(lines, r.NationalSentence())
}

// Text joins the comparison lines with a single space.
func (r ComparisonReport) Text() string {
	return strings.Join(r.Sentences(), " ")
}
