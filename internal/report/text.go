package report

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/yuin/goldmark"
)

// RenderText writes d as plain text using the same layout as the PDF.
func RenderText(w io.Writer, d Data) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, Title)
	fmt.Fprintln(bw, strings.Repeat("=", len(Title)))
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, d.TotalLine())

	textSection(bw, "Breakdown:", d.BreakdownLines(), "  ")
	if d.Comparison != "" {
		textSection(bw, "Comparison:", []string{d.Comparison}, "  ")
	}
	textSection(bw, "Suggestions:", d.Suggestions, "  • ")
	textSection(bw, "Savings:", d.SavingsLines(), "  ")
	if d.Equivalency != "" {
		textSection(bw, "In perspective:", []string{d.Equivalency}, "  ")
	}

	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Report %s\n", d.ID)
	if !d.GeneratedAt.IsZero() {
		fmt.Fprintf(bw, "Generated %s\n", d.GeneratedAt.Format("2006-01-02 15:04 MST"))
	}

	return bw.Flush()
}

func textSection(w io.Writer, heading string, lines []string, prefix string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, heading)
	for _, line := range lines {
		fmt.Fprintf(w, "%s%s\n", prefix, line)
	}
}

// RenderMarkdown writes d as a Markdown document.
func RenderMarkdown(w io.Writer, d Data) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n\n", Title)
	fmt.Fprintf(bw, "**%s**\n", d.TotalLine())

	mdList(bw, "Breakdown", d.BreakdownLines())
	if d.Comparison != "" {
		fmt.Fprintf(bw, "\n## Comparison\n\n%s\n", d.Comparison)
	}
	mdList(bw, "Suggestions", d.Suggestions)
	mdList(bw, "Savings", d.SavingsLines())
	if d.Equivalency != "" {
		fmt.Fprintf(bw, "\n## In perspective\n\n%s\n", d.Equivalency)
	}

	fmt.Fprintf(bw, "\n---\n\n_Report %s", d.ID)
	if !d.GeneratedAt.IsZero() {
		fmt.Fprintf(bw, ", generated %s", d.GeneratedAt.Format("2006-01-02 15:04 MST"))
	}
	fmt.Fprintln(bw, "_")

	return bw.Flush()
}

func mdList(w io.Writer, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(w, "- %s\n", item)
	}
}

// RenderHTML writes d as an HTML fragment converted from its Markdown form.
func RenderHTML(w io.Writer, d Data) error {
	var md bytes.Buffer
	if err := RenderMarkdown(&md, d); err != nil {
		return err
	}
	if err := goldmark.Convert(md.Bytes(), w); err != nil {
		return fmt.Errorf("converting report markdown: %w", err)
	}
	return nil
}

// RenderJSON writes d as indented JSON.
func RenderJSON(w io.Writer, d Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding report json: %w", err)
	}
	return nil
}
