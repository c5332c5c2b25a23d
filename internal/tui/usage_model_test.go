package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/emissionmission/internal/emissions"
)

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// send applies msg and, when a command comes back, runs it and applies its
// message too, the way the Bubble Tea runtime would.
func send(t *testing.T, m *UsageModel, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(msg)
	if cmd == nil {
		return nil
	}
	if out, ok := cmd().(usageRecalculatedMsg); ok {
		m.Update(out)
	}
	return cmd
}

func baseUsage() emissions.UsageRecord {
	return emissions.UsageRecord{ElectricityKWh: 100, GasTherms: 10, WaterGallons: 1000, InternetGB: 50}
}

func TestNewUsageModel(t *testing.T) {
	m := NewUsageModel(context.Background(), baseUsage(), nil)

	require.Len(t, m.rows, 4)
	assert.Equal(t, emissions.Electricity, m.rows[0].Category)
	assert.Equal(t, "100", m.rows[0].CurrentValue)
	assert.InDelta(t, 92.0, m.rows[0].Emission, 1e-9)
	assert.InDelta(t, 92+117+2.4+1, m.baseline.Total, 1e-9)
	assert.Equal(t, ViewStateReady, m.state)
	assert.Equal(t, baseUsage(), m.Usage())
}

func TestUsageModel_Edit(t *testing.T) {
	t.Run("commits a valid value and recalculates", func(t *testing.T) {
		m := NewUsageModel(context.Background(), baseUsage(), nil)

		send(t, m, key(tea.KeyEnter))
		require.True(t, m.editMode)
		assert.Equal(t, "100", m.editBuffer)

		for range 3 {
			send(t, m, key(tea.KeyBackspace))
		}
		send(t, m, runes("200"))
		cmd := send(t, m, key(tea.KeyEnter))

		require.NotNil(t, cmd)
		assert.False(t, m.editMode)
		assert.False(t, m.loading)
		assert.Equal(t, "200", m.rows[0].CurrentValue)
		assert.InDelta(t, 184.0, m.rows[0].Emission, 1e-9)
		assert.InDelta(t, 92.0, m.rows[0].EmissionDelta, 1e-9)
		assert.InDelta(t, 200, m.Usage().ElectricityKWh, 1e-9)
		assert.InDelta(t, m.baseline.Total+92, m.Summary().Result.Total, 1e-9)
	})

	t.Run("rejects invalid input and stays in edit mode", func(t *testing.T) {
		for _, input := range []string{"abc", "-5", "NaN", "1e308"} {
			m := NewUsageModel(context.Background(), baseUsage(), nil)
			send(t, m, key(tea.KeyDown))
			send(t, m, key(tea.KeyEnter))
			for range 2 {
				send(t, m, key(tea.KeyBackspace))
			}
			send(t, m, runes(input))
			cmd := send(t, m, key(tea.KeyEnter))

			assert.Nil(t, cmd, input)
			assert.True(t, m.editMode, input)
			assert.NotEmpty(t, m.inputErr, input)
			assert.Equal(t, "10", m.rows[1].CurrentValue, input)
			assert.Contains(t, m.View(), "✗", input)
		}
	})

	t.Run("blank input means zero", func(t *testing.T) {
		m := NewUsageModel(context.Background(), baseUsage(), nil)
		send(t, m, key(tea.KeyEnter))
		for range 3 {
			send(t, m, key(tea.KeyBackspace))
		}
		send(t, m, key(tea.KeyEnter))
		assert.Equal(t, "0", m.rows[0].CurrentValue)
		assert.InDelta(t, 0, m.rows[0].Emission, 1e-9)
	})

	t.Run("esc cancels the edit", func(t *testing.T) {
		m := NewUsageModel(context.Background(), baseUsage(), nil)
		send(t, m, key(tea.KeyEnter))
		send(t, m, runes("9"))
		send(t, m, key(tea.KeyEsc))
		assert.False(t, m.editMode)
		assert.Equal(t, "100", m.rows[0].CurrentValue)
	})

	t.Run("r resets to the original usage", func(t *testing.T) {
		m := NewUsageModel(context.Background(), baseUsage(), nil)
		send(t, m, key(tea.KeyEnter))
		send(t, m, runes("0"))
		send(t, m, key(tea.KeyEnter))
		assert.Equal(t, "1000", m.rows[0].CurrentValue)

		send(t, m, runes("r"))
		assert.Equal(t, "100", m.rows[0].CurrentValue)
		assert.InDelta(t, 0, m.rows[0].EmissionDelta, 1e-9)
	})
}

func TestUsageModel_Navigation(t *testing.T) {
	m := NewUsageModel(context.Background(), baseUsage(), nil)

	send(t, m, key(tea.KeyUp))
	assert.Equal(t, 0, m.focusedRow)
	for range 10 {
		send(t, m, key(tea.KeyDown))
	}
	assert.Equal(t, 3, m.focusedRow)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}

func TestUsageModel_Quit(t *testing.T) {
	m := NewUsageModel(context.Background(), baseUsage(), nil)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, ViewStateQuitting, m.state)
	assert.Empty(t, m.View())
}

func TestUsageModel_RecalculateCallback(t *testing.T) {
	recalc := func(_ context.Context, usage emissions.UsageRecord) (Summary, error) {
		res := emissions.Compute(usage)
		cmp := emissions.ComparisonReport{
			Total:           res.Total,
			NationalAverage: 1000,
			National:        emissions.Compare(res.Total, 1000),
		}
		return Summary{Result: res, Comparison: &cmp, Tips: []string{"Turn things off."}}, nil
	}
	m := NewUsageModel(context.Background(), baseUsage(), recalc)

	msg := m.Init()()
	m.Update(msg)

	view := m.View()
	assert.Contains(t, view, "Comparison")
	assert.Contains(t, view, "below the national average")
	assert.Contains(t, view, "Turn things off.")
	assert.Contains(t, view, "Electricity")
	assert.Contains(t, view, "kWh")
}

func TestUsageModel_RecalculateError(t *testing.T) {
	boom := errors.New("lookup failed")
	m := NewUsageModel(context.Background(), baseUsage(),
		func(context.Context, emissions.UsageRecord) (Summary, error) { return Summary{}, boom })

	m.Update(m.Init()())
	assert.Equal(t, ViewStateError, m.state)
	assert.Contains(t, m.View(), "Error: lookup failed")
}

func TestRenderEmissionDelta(t *testing.T) {
	tests := []struct {
		delta    float64
		contains []string
	}{
		{delta: 12.345, contains: []string{"+12.35 lbs", IconArrowUp}},
		{delta: -4, contains: []string{"-4.00 lbs", IconArrowDown}},
		{delta: 0.001, contains: []string{"0.00 lbs", IconArrowRight}},
	}
	for _, tt := range tests {
		got := RenderEmissionDelta(tt.delta)
		for _, want := range tt.contains {
			assert.Contains(t, got, want)
		}
	}
}

func TestRenderTotals(t *testing.T) {
	got := RenderTotals(500, 1000)
	assert.Contains(t, got, "500.00 lbs CO2/month")
	assert.Contains(t, got, "1000.00 lbs CO2/month")
	assert.Contains(t, got, "+500.00 lbs")
	assert.Contains(t, got, "Equivalent to driving")
}
