// Package report assembles a calculation summary and renders it as PDF,
// plain text, Markdown, HTML or JSON.
//
// Data is the only input the renderers see; they never reach back into the
// calculators.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rshade/emissionmission/internal/emissions"
	"github.com/rshade/emissionmission/internal/greenops"
)

// DefaultFileName is the suggested name for PDF exports.
const DefaultFileName = "emission_report.pdf"

// Title heads every rendering.
const Title = "EmissionMission Report"

// Data is everything a report shows.
type Data struct {
	ID          string                     `json:"id"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Author      string                     `json:"author,omitempty"`
	Usage       emissions.UsageRecord      `json:"usage"`
	Total       float64                    `json:"total_lbs"`
	Breakdown   []emissions.BreakdownEntry `json:"breakdown"`
	Comparison  string                     `json:"comparison,omitempty"`
	Suggestions []string                   `json:"suggestions,omitempty"`
	Equivalency string                     `json:"equivalency,omitempty"`
	Savings     *emissions.Savings         `json:"savings,omitempty"`
}

// Input collects what Build needs. Only Result is required.
type Input struct {
	Result      emissions.Result
	Comparison  *emissions.ComparisonReport
	Suggestions []string
	Savings     *emissions.Savings
	Author      string
	Now         time.Time
}

// Build turns calculation output into report Data with a fresh ID.
func Build(in Input) Data {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	d := Data{
		ID:          uuid.NewString(),
		GeneratedAt: now.UTC(),
		Author:      in.Author,
		Usage:       in.Result.Usage,
		Total:       in.Result.Total,
		Breakdown:   in.Result.Breakdown.Entries(),
		Suggestions: append([]string(nil), in.Suggestions...),
		Savings:     in.Savings,
	}
	if in.Comparison != nil {
		d.Comparison = in.Comparison.Text()
	}
	if eq := greenops.FromPounds(in.Result.Total); !eq.IsEmpty {
		d.Equivalency = eq.DisplayText
	}
	return d
}

// TotalLine is the headline sentence.
func (d Data) TotalLine() string {
	return fmt.Sprintf("Total Emissions: %.2f lbs CO2/month", d.Total)
}

// BreakdownLines returns "Category: X.XX lbs" for each category.
func (d Data) BreakdownLines() []string {
	lines := make([]string, 0, len(d.Breakdown))
	for _, e := range d.Breakdown {
		lines = append(lines, fmt.Sprintf("%s: %.2f lbs", e.Category, e.Lbs))
	}
	return lines
}

// SavingsLines describes the savings projection, if any.
func (d Data) SavingsLines() []string {
	if d.Savings == nil {
		return nil
	}
	return []string{
		fmt.Sprintf("Estimated emissions saved: %.2f lbs CO2", d.Savings.EmissionsSaved),
		fmt.Sprintf("Estimated cost saved: $%s", d.Savings.CostSavedUSD().StringFixed(2)),
	}
}

// Format is an output format.
type Format string

// Formats.
const (
	FormatPDF      Format = "pdf"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// ErrUnknownFormat is returned for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatPDF, FormatText, FormatMarkdown, FormatHTML, FormatJSON}
}

// FormatNames lists the format names for help text.
func FormatNames() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, "|")
}

// ParseFormat parses a format name; "md" and "txt" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension for the format, with the dot.
func (f Format) Extension() string {
	switch f {
	case FormatText:
		return ".txt"
	case FormatMarkdown:
		return ".md"
	default:
		return "." + string(f)
	}
}

// Render writes d to w in the given format.
func Render(w io.Writer, format Format, d Data) error {
	switch format {
	case FormatPDF:
		return RenderPDF(w, d)
	case FormatText:
		return RenderText(w, d)
	case FormatMarkdown:
		return RenderMarkdown(w, d)
	case FormatHTML:
		return RenderHTML(w, d)
	case FormatJSON:
		return RenderJSON(w, d)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
