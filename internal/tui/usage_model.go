package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/emissionmission/internal/emissions"
)

// UsageRow is one editable category in the usage form.
type UsageRow struct {
	Category      emissions.Category
	OriginalValue string
	CurrentValue  string
	Emission      float64 // lbs CO2 at CurrentValue
	EmissionDelta float64 // change from the baseline emission
}

// Summary is what a recalculation produces for display.
type Summary struct {
	Result     emissions.Result
	Comparison *emissions.ComparisonReport
	Tips       []string
}

// RecalculateFunc turns a usage record into a Summary.
type RecalculateFunc func(ctx context.Context, usage emissions.UsageRecord) (Summary, error)

// usageRecalculatedMsg is sent when a recalculation completes.
type usageRecalculatedMsg struct {
	summary Summary
	err     error
}

const (
	usageDefaultWidth  = 80
	usageDefaultHeight = 20
)

// UsageModel is the Bubble Tea model for editing monthly usage and watching
// the emissions breakdown update.
type UsageModel struct {
	ctx context.Context

	rows       []UsageRow
	focusedRow int
	editMode   bool
	editBuffer string
	inputErr   string

	baseline emissions.Result
	summary  Summary

	state   ViewState
	loading bool
	err     error

	width  int
	height int

	recalculateFn RecalculateFunc
}

// NewUsageModel creates a form seeded with usage. recalc may be nil, in which
// case edits are recomputed with emissions.Compute and no comparison or tips.
func NewUsageModel(ctx context.Context, usage emissions.UsageRecord, recalc RecalculateFunc) *UsageModel {
	if recalc == nil {
		recalc = computeOnly
	}
	m := &UsageModel{
		ctx:           ctx,
		state:         ViewStateReady,
		width:         usageDefaultWidth,
		height:        usageDefaultHeight,
		recalculateFn: recalc,
	}

	m.baseline = emissions.Compute(usage)
	m.summary = Summary{Result: m.baseline}
	for _, c := range emissions.AllCategories() {
		v := formatUsage(usage.Amount(c))
		m.rows = append(m.rows, UsageRow{
			Category:      c,
			OriginalValue: v,
			CurrentValue:  v,
			Emission:      m.baseline.Breakdown.Get(c),
		})
	}
	return m
}

func computeOnly(_ context.Context, usage emissions.UsageRecord) (Summary, error) {
	return Summary{Result: emissions.Compute(usage)}, nil
}

func formatUsage(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Init runs the first recalculation so comparison and tips are populated.
func (m *UsageModel) Init() tea.Cmd {
	return m.triggerRecalculation()
}

// Update handles messages and updates the model state.
func (m *UsageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case usageRecalculatedMsg:
		return m.handleRecalculateComplete(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

//nolint:exhaustive // Only handling relevant key types for form navigation.
func (m *UsageModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editMode {
		return m.handleEditModeKey(msg)
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			m.state = ViewStateQuitting
			return m, tea.Quit
		case "r":
			return m, m.reset()
		}

	case tea.KeyUp:
		if m.focusedRow > 0 {
			m.focusedRow--
		}

	case tea.KeyDown:
		if m.focusedRow < len(m.rows)-1 {
			m.focusedRow++
		}

	case tea.KeyEnter:
		m.editMode = true
		m.editBuffer = m.rows[m.focusedRow].CurrentValue
		m.inputErr = ""
	}

	return m, nil
}

//nolint:exhaustive // Only handling relevant key types for text editing.
func (m *UsageModel) handleEditModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v, err := parseUsageInput(m.editBuffer)
		if err == nil {
			err = m.Usage().With(m.rows[m.focusedRow].Category, v).Validate()
		}
		if err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.rows[m.focusedRow].CurrentValue = formatUsage(v)
		m.editMode = false
		m.inputErr = ""
		return m, m.triggerRecalculation()

	case tea.KeyEsc:
		m.editMode = false
		m.editBuffer = ""
		m.inputErr = ""

	case tea.KeyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit

	case tea.KeyBackspace:
		runes := []rune(m.editBuffer)
		if len(runes) > 0 {
			m.editBuffer = string(runes[:len(runes)-1])
		}

	case tea.KeyRunes:
		m.editBuffer += string(msg.Runes)
	}

	return m, nil
}

// parseUsageInput accepts a non-negative number; blank means zero.
// The committed record is validated as a whole by the caller.
func parseUsageInput(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < 0 {
		return 0, emissions.ErrNegativeUsage
	}
	return v, nil
}

func (m *UsageModel) reset() tea.Cmd {
	for i := range m.rows {
		m.rows[i].CurrentValue = m.rows[i].OriginalValue
	}
	return m.triggerRecalculation()
}

// Usage returns the usage record currently in the form.
func (m *UsageModel) Usage() emissions.UsageRecord {
	var u emissions.UsageRecord
	for _, row := range m.rows {
		v, err := strconv.ParseFloat(row.CurrentValue, 64)
		if err != nil {
			continue
		}
		u = u.With(row.Category, v)
	}
	return u
}

// Summary returns the latest recalculated summary.
func (m *UsageModel) Summary() Summary {
	return m.summary
}

func (m *UsageModel) triggerRecalculation() tea.Cmd {
	m.loading = true

	ctx := m.ctx
	usage := m.Usage()
	recalculateFn := m.recalculateFn

	return func() tea.Msg {
		summary, err := recalculateFn(ctx, usage)
		return usageRecalculatedMsg{summary: summary, err: err}
	}
}

func (m *UsageModel) handleRecalculateComplete(msg usageRecalculatedMsg) (tea.Model, tea.Cmd) {
	m.loading = false

	if msg.err != nil {
		m.err = msg.err
		m.state = ViewStateError
		return m, nil
	}

	m.summary = msg.summary
	for i := range m.rows {
		c := m.rows[i].Category
		m.rows[i].Emission = msg.summary.Result.Breakdown.Get(c)
		m.rows[i].EmissionDelta = m.rows[i].Emission - m.baseline.Breakdown.Get(c)
	}
	return m, nil
}

// View renders the current view.
func (m *UsageModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateError:
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	case ViewStateReady:
	}

	var sb strings.Builder
	sb.WriteString(titleStyle().Render("EmissionMission"))
	sb.WriteString("\n\n")

	rows := m.rows
	if m.editMode {
		rows = make([]UsageRow, len(m.rows))
		copy(rows, m.rows)
		rows[m.focusedRow].CurrentValue = m.editBuffer + IconCursor
	}
	sb.WriteString(RenderUsageTable(rows, m.focusedRow, m.editMode))
	sb.WriteString("\n")
	if m.inputErr != "" {
		sb.WriteString(RenderInputError(m.inputErr))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if m.loading {
		sb.WriteString(RenderLoadingIndicator())
	} else {
		sb.WriteString(RenderTotals(m.baseline.Total, m.summary.Result.Total))
		if m.summary.Comparison != nil {
			sb.WriteString("\n\n")
			sb.WriteString(RenderComparison(*m.summary.Comparison))
		}
		if len(m.summary.Tips) > 0 {
			sb.WriteString("\n\n")
			sb.WriteString(RenderTips(m.summary.Tips))
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(RenderUsageHelp())
	return sb.String()
}
