// Package greenops expresses a household's monthly CO2 footprint as everyday
// equivalents such as miles driven or smartphones charged, using EPA factors.
package greenops

import "fmt"

// EquivalencyType is a category of equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven is miles in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota

	// EquivalencySmartphonesCharged is full smartphone charges.
	EquivalencySmartphonesCharged

	// EquivalencyTreeSeedlings is seedlings needed for 10 years to absorb the footprint.
	EquivalencyTreeSeedlings

	// EquivalencyHomeDays is days of average US home electricity use.
	EquivalencyHomeDays
)

func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	case EquivalencyTreeSeedlings:
		return "TreeSeedlings"
	case EquivalencyHomeDays:
		return "HomeDays"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// Footprint is a carbon amount with its unit (g, kg, t, lb; "CO2e" suffix allowed).
type Footprint struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Pounds returns a Footprint in lbs CO2.
func Pounds(lbs float64) Footprint {
	return Footprint{Value: lbs, Unit: "lb"}
}

// EquivalencyResult is one calculated equivalency.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// EquivalencyOutput holds every equivalency for one footprint.
type EquivalencyOutput struct {
	InputKg float64             `json:"input_kg"`
	Results []EquivalencyResult `json:"results"`

	// DisplayText is the prose form, e.g.
	// "Equivalent to driving ~2,126 miles or charging ~49,656 smartphones".
	DisplayText string `json:"display_text"`

	// CompactText is the short form, e.g. "(≈ 2,126 mi, 49,656 phones)".
	CompactText string `json:"compact_text"`

	IsEmpty bool `json:"is_empty"`
}

// Get returns the result of a given type.
func (o EquivalencyOutput) Get(t EquivalencyType) (EquivalencyResult, bool) {
	for _, r := range o.Results {
		if r.Type == t {
			return r, true
		}
	}
	return EquivalencyResult{}, false
}
