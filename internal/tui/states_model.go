package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/emissionmission/internal/emissions"
	"github.com/rshade/emissionmission/internal/refdata"
)

// Key bindings for the states browser.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
	keySlash = "/"
	keyS     = "s"
)

// StateSortField orders the states table.
type StateSortField int

// Sort fields, cycled with "s".
const (
	SortByName StateSortField = iota
	SortByAverageDesc
	SortByAverageAsc
	numStateSortFields
)

func (f StateSortField) String() string {
	switch f {
	case SortByName:
		return "name"
	case SortByAverageDesc:
		return "average ↓"
	case SortByAverageAsc:
		return "average ↑"
	default:
		return "unknown"
	}
}

// StateRow is one state in the browser.
type StateRow struct {
	Name     string
	Average  float64
	Mappable bool
}

const statesTableChrome = 8

// StateRowsFrom lists every state with an average, flagging the ones that
// also have a map coordinate.
func StateRowsFrom(ds *refdata.Dataset) []StateRow {
	averages := ds.StateAverages()
	rows := make([]StateRow, 0, len(averages))
	for _, name := range ds.StateNames() {
		_, mappable := ds.Coordinate(name)
		rows = append(rows, StateRow{Name: name, Average: averages[name], Mappable: mappable})
	}
	return rows
}

// StatesModel browses state averages, optionally diffed against a user total.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type StatesModel struct {
	allRows  []StateRow
	rows     []StateRow
	total    float64
	hasTotal bool

	table      table.Model
	filter     textinput.Model
	showFilter bool
	sortBy     StateSortField
	detail     *StateRow

	state  ViewState
	width  int
	height int
}

// NewStatesModel creates the browser. When total is non-nil a diff column
// compares each state to it.
func NewStatesModel(rows []StateRow, total *float64) StatesModel {
	ti := textinput.New()
	ti.Placeholder = "filter states"
	ti.CharLimit = 32

	m := StatesModel{
		allRows: append([]StateRow(nil), rows...),
		filter:  ti,
		state:   ViewStateReady,
		width:   usageDefaultWidth,
		height:  usageDefaultHeight + statesTableChrome,
	}
	if total != nil {
		m.total = *total
		m.hasTotal = true
	}
	m.applyFilter("")
	return m
}

// Init implements tea.Model.
func (m StatesModel) Init() tea.Cmd {
	return nil
}

// Rows returns the visible rows in display order.
func (m StatesModel) Rows() []StateRow {
	return append([]StateRow(nil), m.rows...)
}

// Update implements tea.Model.
func (m StatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
		m.height = ws.Height
		m.rebuildTable()
		return m, nil
	}

	switch {
	case m.detail != nil:
		return m.handleDetailUpdate(msg)
	case m.showFilter:
		return m.handleFilterUpdate(msg)
	default:
		return m.handleListUpdate(msg)
	}
}

func (m StatesModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEnter:
		if i := m.table.Cursor(); i >= 0 && i < len(m.rows) {
			row := m.rows[i]
			m.detail = &row
		}
		return m, nil
	case keySlash:
		m.showFilter = true
		m.filter.Focus()
		return m, textinput.Blink
	case keyS:
		m.sortBy = (m.sortBy + 1) % numStateSortFields
		m.applyFilter(m.filter.Value())
		return m, nil
	case keyEsc:
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter("")
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(keyMsg)
		return m, cmd
	}
}

func (m StatesModel) handleFilterUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.showFilter = false
			m.filter.Blur()
			return m, nil
		case keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter(m.filter.Value())
	return m, cmd
}

func (m StatesModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEsc, keyEnter:
			m.detail = nil
			return m, nil
		}
	}
	return m, nil
}

func (m *StatesModel) applyFilter(query string) {
	q := strings.ToLower(strings.TrimSpace(query))
	m.rows = make([]StateRow, 0, len(m.allRows))
	for _, r := range m.allRows {
		if q == "" || strings.Contains(strings.ToLower(r.Name), q) {
			m.rows = append(m.rows, r)
		}
	}

	switch m.sortBy {
	case SortByAverageDesc:
		sort.SliceStable(m.rows, func(i, j int) bool { return m.rows[i].Average > m.rows[j].Average })
	case SortByAverageAsc:
		sort.SliceStable(m.rows, func(i, j int) bool { return m.rows[i].Average < m.rows[j].Average })
	case SortByName, numStateSortFields:
		sort.SliceStable(m.rows, func(i, j int) bool { return m.rows[i].Name < m.rows[j].Name })
	}
	m.rebuildTable()
}

func (m *StatesModel) rebuildTable() {
	columns := []table.Column{
		{Title: "State", Width: 18},   //nolint:mnd // Column width.
		{Title: "Average", Width: 12}, //nolint:mnd // Column width.
		{Title: "On map", Width: 7},   //nolint:mnd // Column width.
	}
	if m.hasTotal {
		columns = append(columns, table.Column{Title: "You vs state", Width: 16}) //nolint:mnd // Column width.
	}

	rows := make([]table.Row, len(m.rows))
	for i, r := range m.rows {
		mappable := "–"
		if r.Mappable {
			mappable = "✓"
		}
		row := table.Row{r.Name, fmt.Sprintf("%.0f", r.Average), mappable}
		if m.hasTotal {
			row = append(row, fmt.Sprintf("%+.2f", emissions.Compare(m.total, r.Average).Diff))
		}
		rows[i] = row
	}

	height := m.height - statesTableChrome
	if height < 1 {
		height = 1
	}

	cursor := m.table.Cursor()

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).BorderBottom(true).Bold(true).Foreground(ColorHeader)
	s.Selected = s.Selected.Foreground(ColorHighlight).Bold(true)
	t.SetStyles(s)
	if cursor < len(rows) {
		t.SetCursor(cursor)
	}
	m.table = t
}

// View implements tea.Model.
func (m StatesModel) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}
	if m.detail != nil {
		return m.renderDetail(*m.detail)
	}

	var sb strings.Builder
	sb.WriteString(titleStyle().Render("State averages (lbs CO2/month)"))
	sb.WriteString("\n\n")
	if m.showFilter || m.filter.Value() != "" {
		sb.WriteString(m.filter.View())
		sb.WriteString("\n")
	}
	sb.WriteString(m.table.View())
	sb.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	sb.WriteString(helpStyle.Render(fmt.Sprintf(
		"%d states | sort: %s | ↑/↓: Navigate | Enter: Details | /: Filter | s: Sort | q: Quit",
		len(m.rows), m.sortBy)))
	return sb.String()
}

func (m StatesModel) renderDetail(r StateRow) string {
	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue).Bold(true)

	var sb strings.Builder
	sb.WriteString(titleStyle().Render(r.Name))
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("State average:    "))
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%.2f lbs CO2/month", r.Average)))
	sb.WriteString("\n")

	nat := emissions.Compare(r.Average, refdata.NationalAverage)
	sb.WriteString(labelStyle.Render("vs national:      "))
	sb.WriteString(RenderEmissionDelta(nat.Diff))
	sb.WriteString("\n")

	if !r.Mappable {
		sb.WriteString(lipgloss.NewStyle().Foreground(ColorWarning).
			Render("No map coordinate for this state."))
		sb.WriteString("\n")
	}

	if m.hasTotal {
		report := emissions.ComparisonReport{
			Total: m.total,
			State: &emissions.StateComparison{
				State:      r.Name,
				Found:      true,
				Average:    r.Average,
				Comparison: ptr(emissions.Compare(m.total, r.Average)),
			},
			NationalAverage: refdata.NationalAverage,
			National:        emissions.Compare(m.total, refdata.NationalAverage),
		}
		sb.WriteString("\n")
		sb.WriteString(RenderComparison(report))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(ColorMuted).Render("Esc: Back | q: Quit"))
	return sb.String()
}

func ptr[T any](v T) *T { return &v }
