// Package feedback turns an emissions breakdown into short reduction tips.
package feedback

import (
	"fmt"
	"sort"

	"github.com/rshade/emissionmission/internal/emissions"
)

// Rule fires a tip when a category's emission exceeds ThresholdLbs.
type Rule struct {
	Category     emissions.Category
	ThresholdLbs float64
	Tip          string
}

// DefaultRules returns the built-in rule set, one rule per category.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category:     emissions.Electricity,
			ThresholdLbs: 500,
			Tip:          "Your electricity use is high. Switch to LED bulbs and unplug idle electronics.",
		},
		{
			Category:     emissions.Gas,
			ThresholdLbs: 300,
			Tip:          "Consider lowering your thermostat a few degrees and sealing drafts to cut gas use.",
		},
		{
			Category:     emissions.Water,
			ThresholdLbs: 15,
			Tip:          "Install low-flow fixtures and take shorter showers to reduce water use.",
		},
		{
			Category:     emissions.Internet,
			ThresholdLbs: 5,
			Tip:          "Stream at lower resolution and turn off autoplay to trim data transfer.",
		},
	}
}

// CongratulationTip is returned when no rule fires.
const CongratulationTip = "Great job! Your emissions are well managed across all categories."

// dominantShare is the share of the total above which the largest
// category gets its own note.
const dominantShare = 0.5

// Generator evaluates rules against a breakdown.
type Generator struct {
	rules []Rule
}

// New creates a Generator. A nil or empty rule set uses DefaultRules.
func New(rules []Rule) *Generator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &Generator{rules: cp}
}

type firedRule struct {
	rule Rule
	lbs  float64
}

// Generate returns tips ordered by the emission of their category, largest
// first, ties kept in rule order. When a tip fired and one category is more
// than half of the total a share note is appended. With no tips fired it
// returns only CongratulationTip.
func (g *Generator) Generate(b emissions.Breakdown) []string {
	fired := make([]firedRule, 0, len(g.rules))
	for _, r := range g.rules {
		lbs := b.Get(r.Category)
		if lbs > r.ThresholdLbs {
			fired = append(fired, firedRule{rule: r, lbs: lbs})
		}
	}
	if len(fired) == 0 {
		return []string{CongratulationTip}
	}
	sort.SliceStable(fired, func(i, j int) bool { return fired[i].lbs > fired[j].lbs })

	tips := make([]string, 0, len(fired)+1)
	for _, f := range fired {
		tips = append(tips, f.rule.Tip)
	}

	largest := b.Largest()
	if share := b.Share(largest.Category); share > dominantShare {
		tips = append(tips, fmt.Sprintf(
			"%s makes up %.0f%% of your footprint; focus there first.",
			largest.Category, share*100)) //nolint:mnd // percent
	}

	return tips
}

// Generate runs the default rule set.
func Generate(b emissions.Breakdown) []string {
	return New(nil).Generate(b)
}
