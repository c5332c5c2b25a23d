package greenops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{18248, "18,248"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in))
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name      string
		in        float64
		precision int
		want      string
	}{
		{name: "two places", in: 1234.567, precision: 2, want: "1,234.57"},
		{name: "pads zeros", in: 92, precision: 2, want: "92.00"},
		{name: "zero precision rounds", in: 1191.6, precision: 0, want: "1,192"},
		{name: "small", in: 0.0024, precision: 4, want: "0.0024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.in, tt.precision))
		})
	}
}

func TestFormatLbs(t *testing.T) {
	assert.Equal(t, "1,191.20 lbs CO2", FormatLbs(1191.2))
	assert.Equal(t, "0.00 lbs CO2", FormatLbs(0))
}

func TestFormatLarge(t *testing.T) {
	assert.Equal(t, "~1.5 billion", FormatLarge(1_500_000_000))
	assert.Equal(t, "~2.4 million", FormatLarge(2_400_000))
	assert.Equal(t, "999,999", FormatLarge(999_999))
}

func TestNormalizeToKg(t *testing.T) {
	tests := []struct {
		name    string
		in      Footprint
		want    float64
		wantErr error
	}{
		{name: "pounds", in: Pounds(10), want: 4.53592},
		{name: "lbs alias", in: Footprint{Value: 10, Unit: "LBS"}, want: 4.53592},
		{name: "grams", in: Footprint{Value: 1500, Unit: "g"}, want: 1.5},
		{name: "tons", in: Footprint{Value: 0.2, Unit: "tCO2e"}, want: 200},
		{name: "unknown", in: Footprint{Value: 1, Unit: "oz"}, wantErr: ErrInvalidUnit},
		{name: "negative", in: Pounds(-1), wantErr: ErrNegativeValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeToKg(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
