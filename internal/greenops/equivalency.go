package greenops

import (
	"fmt"
	"math"
)

// Calculate converts a footprint into EPA equivalencies.
//
// Footprints under MinEquivalencyThresholdKg return an empty output with no
// error. Invalid units, negative values and overflow return an error with an
// empty output. Results are ordered miles, phones, trees, home days.
func Calculate(input Footprint) (EquivalencyOutput, error) {
	kg, err := NormalizeToKg(input)
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}, err
	}
	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	miles := kg / EPAMilesDrivenFactor
	phones := kg / EPASmartphoneChargeFactor
	trees := kg / EPATreeSeedlingFactor
	homeDays := kg / EPAHomeDayFactor

	for _, v := range []float64{miles, phones, trees, homeDays} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
		}
	}

	results := []EquivalencyResult{
		newResult(EquivalencyMilesDriven, miles, "miles driven"),
		newResult(EquivalencySmartphonesCharged, phones, "smartphones charged"),
		newResult(EquivalencyTreeSeedlings, trees, "tree seedlings grown for 10 years"),
		newResult(EquivalencyHomeDays, homeDays, "days of home electricity"),
	}

	display := fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
		results[0].FormattedValue, results[1].FormattedValue)
	if trees >= TreeSeedlingDisplayThreshold {
		display += fmt.Sprintf("; offsetting it takes ~%s tree seedlings", results[2].FormattedValue)
	}

	return EquivalencyOutput{
		InputKg:     kg,
		Results:     results,
		DisplayText: display,
		CompactText: fmt.Sprintf("(≈ %s mi, %s phones)", results[0].FormattedValue, results[1].FormattedValue),
	}, nil
}

// FromPounds is Calculate for a footprint in lbs CO2, the unit used across
// the calculators. Errors yield an empty output.
func FromPounds(lbs float64) EquivalencyOutput {
	out, err := Calculate(Pounds(lbs))
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}
	}
	return out
}

func newResult(t EquivalencyType, v float64, label string) EquivalencyResult {
	return EquivalencyResult{
		Type:           t,
		Value:          v,
		FormattedValue: formatEquivalencyValue(v),
		Label:          label,
	}
}
