package emissions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name          string
		usage         UsageRecord
		wantTotal     float64
		wantBreakdown Breakdown
	}{
		{
			name:          "all zero",
			usage:         UsageRecord{},
			wantTotal:     0,
			wantBreakdown: Breakdown{},
		},
		{
			name:          "electricity only",
			usage:         UsageRecord{ElectricityKWh: 100},
			wantTotal:     92.0,
			wantBreakdown: Breakdown{Electricity: 92.0},
		},
		{
			name:          "gas only",
			usage:         UsageRecord{GasTherms: 10},
			wantTotal:     117.0,
			wantBreakdown: Breakdown{Gas: 117.0},
		},
		{
			name:  "typical household",
			usage: UsageRecord{ElectricityKWh: 900, GasTherms: 30, WaterGallons: 3000, InternetGB: 250},
			// 828 + 351 + 7.2 + 5
			wantTotal: 1191.2,
			wantBreakdown: Breakdown{
				Electricity: 828.0,
				Gas:         351.0,
				Water:       7.2,
				Internet:    5.0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.usage)

			assert.InDelta(t, tt.wantTotal, got.Total, 1e-9)
			assert.InDelta(t, tt.wantBreakdown.Electricity, got.Breakdown.Electricity, 1e-9)
			assert.InDelta(t, tt.wantBreakdown.Gas, got.Breakdown.Gas, 1e-9)
			assert.InDelta(t, tt.wantBreakdown.Water, got.Breakdown.Water, 1e-9)
			assert.InDelta(t, tt.wantBreakdown.Internet, got.Breakdown.Internet, 1e-9)
			assert.Equal(t, tt.usage, got.Usage)
		})
	}
}

func TestCompute_TotalEqualsBreakdownSum(t *testing.T) {
	inputs := []UsageRecord{
		{},
		{ElectricityKWh: 0.1, GasTherms: 0.2, WaterGallons: 0.3, InternetGB: 0.4},
		{ElectricityKWh: 12345.678, GasTherms: 98.7, WaterGallons: 45000, InternetGB: 1e6},
		{ElectricityKWh: 1e-9, InternetGB: 3},
	}
	for _, in := range inputs {
		got := Compute(in)
		assert.Equal(t, got.Breakdown.Sum(), got.Total)

		var manual float64
		for _, e := range got.Breakdown.Entries() {
			manual += e.Lbs
		}
		assert.InDelta(t, manual, got.Total, 1e-9)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	in := UsageRecord{ElectricityKWh: 640, GasTherms: 22, WaterGallons: 2100, InternetGB: 180}
	assert.Equal(t, Compute(in), Compute(in))
}

func TestBreakdown_Share(t *testing.T) {
	b := Compute(UsageRecord{ElectricityKWh: 100, GasTherms: 0}).Breakdown
	assert.InDelta(t, 1.0, b.Share(Electricity), 1e-9)
	assert.Zero(t, b.Share(Gas))

	empty := Compute(UsageRecord{}).Breakdown
	assert.Zero(t, empty.Share(Electricity))
}

func TestBreakdown_Largest(t *testing.T) {
	b := Compute(UsageRecord{ElectricityKWh: 100, GasTherms: 10}).Breakdown
	assert.Equal(t, Gas, b.Largest().Category)

	tie := Breakdown{}
	assert.Equal(t, Electricity, tie.Largest().Category)
}

func TestUsageRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		usage   UsageRecord
		wantErr error
	}{
		{name: "zero is valid", usage: UsageRecord{}},
		{name: "positive is valid", usage: UsageRecord{ElectricityKWh: 1, GasTherms: 2, WaterGallons: 3, InternetGB: 4}},
		{name: "negative electricity", usage: UsageRecord{ElectricityKWh: -1}, wantErr: ErrNegativeUsage},
		{name: "negative internet", usage: UsageRecord{InternetGB: -0.01}, wantErr: ErrNegativeUsage},
		{name: "NaN water", usage: UsageRecord{WaterGallons: math.NaN()}, wantErr: ErrInvalidUsage},
		{name: "infinite gas", usage: UsageRecord{GasTherms: math.Inf(1)}, wantErr: ErrInvalidUsage},
		{name: "gas emissions overflow", usage: UsageRecord{GasTherms: 1e308}, wantErr: ErrInvalidUsage},
		{
			name:    "total overflows while each category is finite",
			usage:   UsageRecord{ElectricityKWh: 1e308, GasTherms: 1e307},
			wantErr: ErrInvalidUsage,
		},
		{name: "largest finite electricity", usage: UsageRecord{ElectricityKWh: 1e308}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.usage.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUsageRecord_With(t *testing.T) {
	orig := UsageRecord{ElectricityKWh: 1}
	updated := orig.With(Water, 50)

	assert.InDelta(t, 50.0, updated.WaterGallons, 1e-9)
	assert.InDelta(t, 1.0, updated.ElectricityKWh, 1e-9)
	assert.Zero(t, orig.WaterGallons, "original must not change")
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "electricity", want: Electricity},
		{in: "  Gas ", want: Gas},
		{in: "natural gas", want: Gas},
		{in: "WATER", want: Water},
		{in: "internet", want: Internet},
		{in: "solar", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_TextRoundTrip(t *testing.T) {
	for _, c := range AllCategories() {
		text, err := c.MarshalText()
		require.NoError(t, err)

		var back Category
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)
	}

	_, err := Category(42).MarshalText()
	require.ErrorIs(t, err, ErrUnknownCategory)
}

func TestFactorTables_AreCopies(t *testing.T) {
	factors := EmissionFactors()
	require.Len(t, factors, 4)
	factors[Electricity] = 99

	assert.InDelta(t, 0.92, EmissionFactor(Electricity), 1e-12)
	assert.InDelta(t, 0.92, EmissionFactors()[Electricity], 1e-12)

	costs := CostFactors()
	require.Len(t, costs, 4)
	assert.InDelta(t, 1.05, costs[Gas], 1e-12)
	assert.InDelta(t, 0.005, costs[Water], 1e-12)
}
