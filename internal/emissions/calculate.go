package emissions

// Compute converts a usage record into a per-category breakdown and total.
//
// Each category contributes usage × EmissionFactor. The total is the sum of
// the four contributions. Negative input is not guarded; callers validate
// with UsageRecord.Validate first.
func Compute(usage UsageRecord) Result {
	breakdown := Breakdown{
		Electricity: usage.ElectricityKWh * ElectricityLbsPerKWh,
		Gas:         usage.GasTherms * GasLbsPerTherm,
		Water:       usage.WaterGallons * WaterLbsPerGallon,
		Internet:    usage.InternetGB * InternetLbsPerGB,
	}

	return Result{
		Usage:     usage,
		Breakdown: breakdown,
		Total:     breakdown.Sum(),
	}
}
