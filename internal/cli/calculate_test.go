package cli_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/emissionmission/internal/cli"
	"github.com/rshade/emissionmission/internal/emissions"
)

var sampleUsageArgs = []string{
	"--electricity", "1000", "--gas", "50", "--water", "3000", "--internet", "100",
}

func TestCalculate_Table(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, append([]string{"calculate"}, sampleUsageArgs...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "920.00")
	assert.Contains(t, out, "585.00")
	assert.Contains(t, out, "7.20")
	assert.Contains(t, out, "1514.20")
	assert.Contains(t, out, "Suggestions:")
	assert.Contains(t, out, "Switch to LED bulbs")
	assert.NotContains(t, out, "Comparison:")
}

func TestCalculate_WithState(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, append([]string{"calculate", "--state", " california "}, sampleUsageArgs...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "Comparison:")
	assert.Contains(t, out, "You are 614.20 lbs above your state average.")
	assert.Contains(t, out, "You are 514.20 lbs above the national average.")
}

func TestCalculate_UnknownState(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "calculate", "--electricity", "100", "--state", "Atlantis")
	require.NoError(t, err)
	assert.Contains(t, out, emissions.StateNotFoundSentence)
	assert.Contains(t, out, "You are 908.00 lbs below the national average. Great!")
}

func TestCalculate_JSON(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "calculate", "--electricity", "100", "--output", "json")
	require.NoError(t, err)

	var got struct {
		Result struct {
			Total     float64            `json:"total"`
			Breakdown map[string]float64 `json:"breakdown"`
		} `json:"result"`
		Suggestions []string `json:"suggestions"`
		Equivalency *struct {
			DisplayText string `json:"display_text"`
		} `json:"equivalency"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.InDelta(t, 92.0, got.Result.Total, 1e-9)
	assert.InDelta(t, 92.0, got.Result.Breakdown["Electricity"], 1e-9)
	assert.InDelta(t, 0.0, got.Result.Breakdown["Gas"], 1e-9)
	assert.NotEmpty(t, got.Suggestions)
	require.NotNil(t, got.Equivalency)
	assert.NotEmpty(t, got.Equivalency.DisplayText)
}

func TestCalculate_NDJSON(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, append([]string{"calculate", "--output", "ndjson"}, sampleUsageArgs...)...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)

	var first struct {
		Category string  `json:"category"`
		Usage    float64 `json:"usage"`
		Unit     string  `json:"unit"`
		Lbs      float64 `json:"lbs"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "Electricity", first.Category)
	assert.Equal(t, "kWh", first.Unit)
	assert.InDelta(t, 920.0, first.Lbs, 1e-9)
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "negative usage",
			args:    []string{"calculate", "--electricity=-5"},
			wantErr: emissions.ErrNegativeUsage,
		},
		{
			name:    "emissions overflow",
			args:    []string{"calculate", "--gas", "1e308", "--output", "json"},
			wantErr: emissions.ErrInvalidUsage,
		},
		{
			name:    "unknown output format",
			args:    []string{"calculate", "--electricity", "1", "--output", "xml"},
			wantErr: cli.ErrUnknownOutputFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			_, err := executeCmd(t, tt.args...)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCalculate_InteractiveRequiresTerminal(t *testing.T) {
	setupCLITest(t)

	_, err := executeCmd(t, "calculate", "--electricity", "1", "--interactive")
	require.ErrorIs(t, err, cli.ErrNotTerminal)
}
