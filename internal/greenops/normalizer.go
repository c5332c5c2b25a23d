package greenops

import (
	"math"
	"strings"
)

func unitFactor(unit string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g", "gco2e":
		return GramsToKg, true
	case "kg", "kgco2e":
		return KgToKg, true
	case "t", "tco2e":
		return TonsToKg, true
	case "lb", "lbs", "lbco2e", "lbsco2":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// NormalizeToKg converts a footprint to kilograms.
// Unit matching is case-insensitive.
func NormalizeToKg(f Footprint) (float64, error) {
	if math.IsInf(f.Value, 0) || math.IsNaN(f.Value) {
		return 0, ErrCalculationOverflow
	}
	if f.Value < 0 {
		return 0, ErrNegativeValue
	}

	factor, ok := unitFactor(f.Unit)
	if !ok {
		return 0, ErrInvalidUnit
	}

	kg := f.Value * factor
	if math.IsInf(kg, 0) {
		return 0, ErrCalculationOverflow
	}
	return kg, nil
}
