package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rshade/emissionmission/internal/config"
)

// OutputFormat selects how a command prints its result.
type OutputFormat string

// Output formats accepted by --output.
const (
	OutputTable  OutputFormat = "table"
	OutputJSON   OutputFormat = "json"
	OutputNDJSON OutputFormat = "ndjson"
)

// ErrUnknownOutputFormat is returned for an --output value that is not
// table, json or ndjson.
var ErrUnknownOutputFormat = errors.New("unknown output format")

const tabPadding = 2

func parseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputTable, OutputJSON, OutputNDJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q (want table, json or ndjson)", ErrUnknownOutputFormat, s)
	}
}

// addOutputFlag registers --output with the configured default.
func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "output", config.GetDefaultOutputFormat(),
		"Output format: table, json, or ndjson")
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
}

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// writeNDJSON writes each row as one JSON line.
func writeNDJSON[T any](w io.Writer, rows []T) error {
	for _, row := range rows {
		data, marshalErr := json.Marshal(row)
		if marshalErr != nil {
			return fmt.Errorf("marshaling row: %w", marshalErr)
		}
		if _, writeErr := fmt.Fprintf(w, "%s\n", data); writeErr != nil {
			return fmt.Errorf("writing NDJSON line: %w", writeErr)
		}
	}
	return nil
}

// formatLbs renders a pound value at the configured precision.
func formatLbs(v float64) string {
	return fmt.Sprintf("%.*f", config.GetOutputPrecision(), v)
}

// writeSection prints a heading followed by indented lines. Empty sections
// are skipped.
func writeSection(w io.Writer, title string, lines []string, bullet string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, l := range lines {
		fmt.Fprintf(w, "  %s%s\n", bullet, l)
	}
}
