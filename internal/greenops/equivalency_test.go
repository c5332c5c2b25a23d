package greenops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		input       Footprint
		wantKg      float64
		wantMiles   float64
		wantPhones  float64
		wantIsEmpty bool
		wantErr     error
		wantDisplay string
		wantCompact string
	}{
		{
			name:        "national average household",
			input:       Pounds(1000),
			wantKg:      453.592,
			wantMiles:   2362.458, // 453.592 / 0.192
			wantPhones:  55181.51, // 453.592 / 0.00822
			wantDisplay: "Equivalent to driving ~2,362 miles or charging ~55,182 smartphones; offsetting it takes ~8 tree seedlings",
			wantCompact: "(≈ 2,362 mi, 55,182 phones)",
		},
		{
			name:        "small footprint omits trees",
			input:       Pounds(100),
			wantKg:      45.3592,
			wantMiles:   236.2458,
			wantPhones:  5518.151,
			wantDisplay: "Equivalent to driving ~236 miles or charging ~5,518 smartphones",
			wantCompact: "(≈ 236 mi, 5,518 phones)",
		},
		{
			name:       "kilograms accepted",
			input:      Footprint{Value: 150, Unit: "kgCO2e"},
			wantKg:     150,
			wantMiles:  781.25,
			wantPhones: 18248.18,
		},
		{
			name:        "below threshold is empty",
			input:       Pounds(2),
			wantKg:      0.907184,
			wantIsEmpty: true,
		},
		{
			name:        "zero is empty",
			input:       Pounds(0),
			wantIsEmpty: true,
		},
		{
			name:        "negative rejected",
			input:       Pounds(-5),
			wantIsEmpty: true,
			wantErr:     ErrNegativeValue,
		},
		{
			name:        "unknown unit rejected",
			input:       Footprint{Value: 5, Unit: "stone"},
			wantIsEmpty: true,
			wantErr:     ErrInvalidUnit,
		},
		{
			name:        "NaN rejected",
			input:       Pounds(math.NaN()),
			wantIsEmpty: true,
			wantErr:     ErrCalculationOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, got.IsEmpty)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIsEmpty, got.IsEmpty)
			assert.InDelta(t, tt.wantKg, got.InputKg, 1e-6)
			if tt.wantIsEmpty {
				assert.Empty(t, got.Results)
				return
			}

			require.Len(t, got.Results, 4)
			miles, ok := got.Get(EquivalencyMilesDriven)
			require.True(t, ok)
			assert.InEpsilon(t, tt.wantMiles, miles.Value, 0.001)
			phones, ok := got.Get(EquivalencySmartphonesCharged)
			require.True(t, ok)
			assert.InEpsilon(t, tt.wantPhones, phones.Value, 0.001)

			if tt.wantDisplay != "" {
				assert.Equal(t, tt.wantDisplay, got.DisplayText)
			}
			if tt.wantCompact != "" {
				assert.Equal(t, tt.wantCompact, got.CompactText)
			}
		})
	}
}

func TestCalculate_ResultOrder(t *testing.T) {
	got, err := Calculate(Pounds(1000))
	require.NoError(t, err)

	want := []EquivalencyType{
		EquivalencyMilesDriven,
		EquivalencySmartphonesCharged,
		EquivalencyTreeSeedlings,
		EquivalencyHomeDays,
	}
	for i, r := range got.Results {
		assert.Equal(t, want[i], r.Type)
		assert.NotEmpty(t, r.Label)
	}
	trees, _ := got.Get(EquivalencyTreeSeedlings)
	assert.Equal(t, "8", trees.FormattedValue)
	days, _ := got.Get(EquivalencyHomeDays)
	assert.Equal(t, "25", days.FormattedValue)
}

func TestFromPounds(t *testing.T) {
	assert.False(t, FromPounds(1000).IsEmpty)
	assert.True(t, FromPounds(-1).IsEmpty)
	assert.True(t, FromPounds(0.5).IsEmpty)
}

func TestEquivalencyType_String(t *testing.T) {
	assert.Equal(t, "MilesDriven", EquivalencyMilesDriven.String())
	assert.Equal(t, "HomeDays", EquivalencyHomeDays.String())
	assert.Equal(t, "EquivalencyType(9)", EquivalencyType(9).String())
}
