// Package emissions converts monthly household utility usage into estimated
// pounds of CO2 and compares the result against reference averages.
//
// Everything in this package is pure: no I/O, no logging, no hidden state.
// Input validation belongs to the caller (form, CLI flags, HTTP decoder);
// Compute and ComputeSavings assume non-negative, finite input.
package emissions

import (
	"fmt"
	"math"
	"strings"
)

// Category is a tracked utility category.
type Category int

const (
	// Electricity is measured in kWh per month.
	Electricity Category = iota
	// Gas is natural gas, measured in therms per month.
	Gas
	// Water is measured in gallons per month.
	Water
	// Internet is data transfer, measured in GB per month.
	Internet
)

// categoryCount is the number of tracked categories.
const categoryCount = 4

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{Electricity, Gas, Water, Internet}
}

// String returns the display name of the category.
func (c Category) String() string {
	switch c {
	case Electricity:
		return "Electricity"
	case Gas:
		return "Gas"
	case Water:
		return "Water"
	case Internet:
		return "Internet"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Unit returns the usage unit for the category.
func (c Category) Unit() string {
	switch c {
	case Electricity:
		return "kWh"
	case Gas:
		return "therms"
	case Water:
		return "gallons"
	case Internet:
		return "GB"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler so categories can key JSON maps.
func (c Category) MarshalText() ([]byte, error) {
	if c < Electricity || c > Internet {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory parses a category name case-insensitively.
// "natural gas" and "naturalgas" are accepted for Gas.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "electricity", "electric":
		return Electricity, nil
	case "gas", "natural gas", "naturalgas":
		return Gas, nil
	case "water":
		return Water, nil
	case "internet", "data":
		return Internet, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// UsageRecord holds one household's monthly consumption.
// It is a value type; once submitted it is never modified.
type UsageRecord struct {
	ElectricityKWh float64 `json:"electricity_kwh" yaml:"electricity_kwh"`
	GasTherms      float64 `json:"gas_therms"      yaml:"gas_therms"`
	WaterGallons   float64 `json:"water_gallons"   yaml:"water_gallons"`
	InternetGB     float64 `json:"internet_gb"     yaml:"internet_gb"`
}

// Amount returns the usage for a single category.
func (u UsageRecord) Amount(c Category) float64 {
	switch c {
	case Electricity:
		return u.ElectricityKWh
	case Gas:
		return u.GasTherms
	case Water:
		return u.WaterGallons
	case Internet:
		return u.InternetGB
	default:
		return 0
	}
}

// With returns a copy of u with the amount for c replaced.
func (u UsageRecord) With(c Category, amount float64) UsageRecord {
	switch c {
	case Electricity:
		u.ElectricityKWh = amount
	case Gas:
		u.GasTherms = amount
	case Water:
		u.WaterGallons = amount
	case Internet:
		u.InternetGB = amount
	}
	return u
}

// Validate reports whether every amount is finite and non-negative and
// whether the emissions it converts to are finite too.
// Input boundaries call this; Compute does not.
func (u UsageRecord) Validate() error {
	for _, c := range AllCategories() {
		v := u.Amount(c)
		if !isFinite(v) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidUsage, c)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s = %g %s", ErrNegativeUsage, c, v, c.Unit())
		}
	}
	if total := Compute(u).Total; !isFinite(total) {
		return fmt.Errorf("%w: emissions total overflows", ErrInvalidUsage)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Breakdown is the per-category emission contribution in lbs CO2.
type Breakdown struct {
	Electricity float64 `json:"Electricity"`
	Gas         float64 `json:"Gas"`
	Water       float64 `json:"Water"`
	Internet    float64 `json:"Internet"`
}

// Get returns the emission for a single category.
func (b Breakdown) Get(c Category) float64 {
	switch c {
	case Electricity:
		return b.Electricity
	case Gas:
		return b.Gas
	case Water:
		return b.Water
	case Internet:
		return b.Internet
	default:
		return 0
	}
}

// Sum adds the four entries in display order.
func (b Breakdown) Sum() float64 {
	return b.Electricity + b.Gas + b.Water + b.Internet
}

// Share returns the fraction (0..1) of the sum contributed by c.
// Returns 0 when the sum is zero.
func (b Breakdown) Share(c Category) float64 {
	total := b.Sum()
	if total == 0 {
		return 0
	}
	return b.Get(c) / total
}

// BreakdownEntry is one row of a breakdown.
type BreakdownEntry struct {
	Category Category `json:"category"`
	Lbs      float64  `json:"lbs"`
}

// Entries returns the breakdown as rows in display order.
func (b Breakdown) Entries() []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, categoryCount)
	for _, c := range AllCategories() {
		entries = append(entries, BreakdownEntry{Category: c, Lbs: b.Get(c)})
	}
	return entries
}

// Largest returns the category with the highest emission.
// Ties resolve to the earlier category in display order.
func (b Breakdown) Largest() BreakdownEntry {
	best := BreakdownEntry{Category: Electricity, Lbs: b.Electricity}
	for _, e := range b.Entries()[1:] {
		if e.Lbs > best.Lbs {
			best = e
		}
	}
	return best
}

// Result is the outcome of one emissions calculation.
type Result struct {
	Usage     UsageRecord `json:"usage"`
	Breakdown Breakdown   `json:"breakdown"`
	// Total is lbs CO2 per month; always equal to Breakdown.Sum().
	Total float64 `json:"total"`
}
