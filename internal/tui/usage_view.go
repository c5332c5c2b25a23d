package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/emissionmission/internal/emissions"
	"github.com/rshade/emissionmission/internal/greenops"
)

// Column widths for the usage table.
const (
	categoryWidth  = 14
	usageWidth     = 14
	unitWidth      = 9
	emissionWidth  = 14
	separatorWidth = 68
)

// RenderEmissionDelta renders a signed lbs change with a direction arrow.
// Increases use the warning color, decreases the OK color.
func RenderEmissionDelta(delta float64) string {
	rounded := math.Round(delta*centsMultiplier) / centsMultiplier

	var icon, sign string
	var color lipgloss.Color

	switch {
	case rounded > 0:
		icon = IconArrowUp
		sign = "+"
		color = ColorWarning
	case rounded < 0:
		icon = IconArrowDown
		sign = "-"
		color = ColorOK
	default:
		icon = IconArrowRight
		color = ColorMuted
	}

	style := lipgloss.NewStyle().Foreground(color).Bold(true)
	return style.Render(fmt.Sprintf("%s%.2f lbs %s", sign, math.Abs(rounded), icon))
}

// RenderUsageTable renders the editable usage rows.
func RenderUsageTable(rows []UsageRow, focused int, editing bool) string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	sb.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s %*s %-*s %*s  %s",
		categoryWidth, "Category",
		usageWidth, "Usage",
		unitWidth, "",
		emissionWidth, "lbs CO2",
		"Change")))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(ColorBorder).Render(strings.Repeat("─", separatorWidth)))
	sb.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue)
	modifiedStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)

	for i, row := range rows {
		cursor := "  "
		if i == focused {
			cursor = "> "
			if editing {
				cursor = "✎ "
			}
		}

		vs := valueStyle
		if row.CurrentValue != row.OriginalValue {
			vs = modifiedStyle
		}

		line := cursor +
			labelStyle.Render(fmt.Sprintf("%-*s", categoryWidth, row.Category)) + " " +
			vs.Render(fmt.Sprintf("%*s", usageWidth, row.CurrentValue)) + " " +
			labelStyle.Render(fmt.Sprintf("%-*s", unitWidth, row.Category.Unit())) + " " +
			valueStyle.Render(fmt.Sprintf("%*.2f", emissionWidth, row.Emission)) + "  " +
			RenderEmissionDelta(row.EmissionDelta)
		sb.WriteString(line)
		if i < len(rows)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderTotals renders the baseline and current totals with the difference
// and a compact equivalency.
func RenderTotals(baseline, current float64) string {
	var sb strings.Builder

	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue).Bold(true)

	sb.WriteString(labelStyle.Render("Baseline:  "))
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%.2f lbs CO2/month", baseline)))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Total:     "))
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%.2f lbs CO2/month", current)))
	sb.WriteString("  ")
	sb.WriteString(RenderEmissionDelta(current - baseline))

	if eq := greenops.FromPounds(current); !eq.IsEmpty {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(ColorMuted).Italic(true).Render(eq.DisplayText))
	}
	return sb.String()
}

// RenderComparison renders the comparison sentences.
func RenderComparison(r emissions.ComparisonReport) string {
	headerStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	lines := []string{headerStyle.Render("Comparison")}
	for _, s := range r.Sentences() {
		color := ColorOK
		if strings.Contains(s, "above") || s == emissions.StateNotFoundSentence {
			color = ColorWarning
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(color).Render(s))
	}
	return strings.Join(lines, "\n")
}

// RenderTips renders feedback tips as a bulleted list.
func RenderTips(tips []string) string {
	headerStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	tipStyle := lipgloss.NewStyle().Foreground(ColorValue)
	lines := []string{headerStyle.Render("Suggestions")}
	for _, t := range tips {
		lines = append(lines, tipStyle.Render("• "+t))
	}
	return strings.Join(lines, "\n")
}

// RenderInputError renders an edit validation message.
func RenderInputError(msg string) string {
	return lipgloss.NewStyle().Foreground(ColorError).Render("✗ " + msg)
}

// RenderUsageHelp renders the keyboard shortcut help text.
func RenderUsageHelp() string {
	helpStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	shortcuts := []string{
		"↑/↓: Navigate",
		"Enter: Edit usage",
		"Esc: Cancel edit",
		"r: Reset",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(shortcuts, " | "))
}

// RenderLoadingIndicator renders the recalculation indicator.
func RenderLoadingIndicator() string {
	return lipgloss.NewStyle().Foreground(ColorSpinner).Bold(true).Render("Calculating emissions...")
}
