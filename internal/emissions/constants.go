package emissions

// Emission factors in lbs CO2 per unit of usage.
const (
	// ElectricityLbsPerKWh is lbs CO2 per kWh of grid electricity.
	ElectricityLbsPerKWh = 0.92

	// GasLbsPerTherm is lbs CO2 per therm of natural gas burned.
	GasLbsPerTherm = 11.7

	// WaterLbsPerGallon is lbs CO2 per gallon of treated and delivered water.
	WaterLbsPerGallon = 0.0024

	// InternetLbsPerGB is lbs CO2 per GB of data transfer.
	InternetLbsPerGB = 0.02
)

// Cost factors in USD per unit of usage.
const (
	ElectricityUSDPerKWh = 0.13
	GasUSDPerTherm       = 1.05
	WaterUSDPerGallon    = 0.005
	InternetUSDPerGB     = 0.10
)

// percentBase converts a percentage to a fraction.
const percentBase = 100.0

// EmissionFactor returns lbs CO2 per unit for the category.
func EmissionFactor(c Category) float64 {
	switch c {
	case Electricity:
		return ElectricityLbsPerKWh
	case Gas:
		return GasLbsPerTherm
	case Water:
		return WaterLbsPerGallon
	case Internet:
		return InternetLbsPerGB
	default:
		return 0
	}
}

// CostFactor returns USD per unit for the category.
func CostFactor(c Category) float64 {
	switch c {
	case Electricity:
		return ElectricityUSDPerKWh
	case Gas:
		return GasUSDPerTherm
	case Water:
		return WaterUSDPerGallon
	case Internet:
		return InternetUSDPerGB
	default:
		return 0
	}
}

// EmissionFactors returns a copy of the emission factor table.
func EmissionFactors() map[Category]float64 {
	table := make(map[Category]float64, categoryCount)
	for _, c := range AllCategories() {
		table[c] = EmissionFactor(c)
	}
	return table
}

// CostFactors returns a copy of the cost factor table.
func CostFactors() map[Category]float64 {
	table := make(map[Category]float64, categoryCount)
	for _, c := range AllCategories() {
		table[c] = CostFactor(c)
	}
	return table
}
