package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by every view.
const (
	ColorHeader    = lipgloss.Color("42")
	ColorBorder    = lipgloss.Color("240")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("252")
	ColorMuted     = lipgloss.Color("241")
	ColorHighlight = lipgloss.Color("214")
	ColorOK        = lipgloss.Color("34")
	ColorWarning   = lipgloss.Color("208")
	ColorError     = lipgloss.Color("196")
	ColorSpinner   = lipgloss.Color("69")
)

// Direction icons.
const (
	IconArrowUp    = "↑"
	IconArrowDown  = "↓"
	IconArrowRight = "→"
	IconCursor     = "▌"
)

// ViewState is the lifecycle state shared by the interactive models.
type ViewState int

const (
	// ViewStateReady is the normal interactive state.
	ViewStateReady ViewState = iota
	// ViewStateQuitting means the program is exiting.
	ViewStateQuitting
	// ViewStateError means a fatal error is being shown.
	ViewStateError
)

// centsMultiplier rounds to two decimals for display.
const centsMultiplier = 100

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorHeader).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)
}
