package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/emissionmission/internal/emissions"
	"github.com/rshade/emissionmission/internal/greenops"
	"github.com/rshade/emissionmission/internal/logging"
	"github.com/rshade/emissionmission/internal/tui"
)

// ErrNotTerminal is returned when --interactive is used without a terminal.
var ErrNotTerminal = errors.New("interactive mode requires a terminal")

type calculateParams struct {
	usage       usageFlags
	state       string
	interactive bool
	output      string
}

// calculateOutput is the JSON shape of calculate.
type calculateOutput struct {
	analysis

	Equivalency *greenops.EquivalencyOutput `json:"equivalency,omitempty"`
}

// calculateRow is one NDJSON line of calculate.
type calculateRow struct {
	Category string  `json:"category"`
	Usage    float64 `json:"usage"`
	Unit     string  `json:"unit"`
	Lbs      float64 `json:"lbs"`
}

func newCalculateCmd() *cobra.Command {
	var params calculateParams

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Estimate monthly emissions from utility usage",
		Long: `Converts monthly electricity, gas, water and internet usage into pounds of
CO2 per month, with a per-category breakdown and reduction tips. With --state
the total is compared against that state's average and the national average.`,
		Example: `  # Breakdown and tips
  emissionmission calculate --electricity 900 --gas 40 --water 3000 --internet 150

  # Compare against a state
  emissionmission calculate --electricity 900 --state "new york"

  # Machine-readable output
  emissionmission calculate --electricity 900 --output json

  # Edit the numbers in a terminal form
  emissionmission calculate --electricity 900 --interactive`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculate(cmd, params)
		},
	}

	params.usage.register(cmd)
	cmd.Flags().StringVar(&params.state, "state", "", "compare against this US state's average")
	cmd.Flags().BoolVarP(&params.interactive, "interactive", "i", false, "edit usage in an interactive form")
	addOutputFlag(cmd, &params.output)

	return cmd
}

func runCalculate(cmd *cobra.Command, params calculateParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := parseOutputFormat(params.output)
	if err != nil {
		return err
	}
	usage, err := params.usage.record()
	if err != nil {
		return err
	}

	audit := newAuditContext(ctx, "calculate", usageParams(usage))

	if params.interactive {
		if !isTerminal(os.Stdout) {
			audit.logFailure(ctx, ErrNotTerminal)
			return ErrNotTerminal
		}
		usage, err = runInteractiveCalculate(ctx, usage, params.state)
		if err != nil {
			audit.logFailure(ctx, err)
			return err
		}
	}

	result, err := analyze(ctx, usage, params.state)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Msg("calculation failed")
		audit.logFailure(ctx, err)
		return err
	}

	if err = renderCalculate(cmd.OutOrStdout(), format, result); err != nil {
		audit.logFailure(ctx, err)
		return err
	}
	audit.logSuccess(ctx, result.Result.Total)
	return nil
}

// runInteractiveCalculate runs the usage form and returns the usage it ended with.
func runInteractiveCalculate(
	ctx context.Context,
	usage emissions.UsageRecord,
	state string,
) (emissions.UsageRecord, error) {
	recalculateFn := func(ctx context.Context, u emissions.UsageRecord) (tui.Summary, error) {
		a, err := analyze(ctx, u, state)
		if err != nil {
			return tui.Summary{}, err
		}
		return tui.Summary{Result: a.Result, Comparison: a.Comparison, Tips: a.Suggestions}, nil
	}

	model := tui.NewUsageModel(ctx, usage, recalculateFn)
	program := tea.NewProgram(model, tea.WithContext(ctx))

	finalModel, err := program.Run()
	if err != nil {
		return emissions.UsageRecord{}, fmt.Errorf("running interactive TUI: %w", err)
	}
	usageModel, ok := finalModel.(*tui.UsageModel)
	if !ok {
		return emissions.UsageRecord{}, fmt.Errorf("unexpected model type: %T, expected *tui.UsageModel", finalModel)
	}
	return usageModel.Usage(), nil
}

func renderCalculate(w io.Writer, format OutputFormat, a analysis) error {
	switch format {
	case OutputJSON:
		out := calculateOutput{analysis: a}
		if eq := greenops.FromPounds(a.Result.Total); !eq.IsEmpty {
			out.Equivalency = &eq
		}
		return writeJSON(w, out)
	case OutputNDJSON:
		rows := make([]calculateRow, 0, len(emissions.AllCategories()))
		for _, c := range emissions.AllCategories() {
			rows = append(rows, calculateRow{
				Category: c.String(),
				Usage:    a.Result.Usage.Amount(c),
				Unit:     c.Unit(),
				Lbs:      a.Result.Breakdown.Get(c),
			})
		}
		return writeNDJSON(w, rows)
	case OutputTable:
		return renderCalculateTable(w, a)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutputFormat, format)
	}
}

func renderCalculateTable(w io.Writer, a analysis) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "CATEGORY\tUSAGE\tUNIT\tLBS CO2")
	fmt.Fprintln(tw, "--------\t-----\t----\t-------")
	for _, c := range emissions.AllCategories() {
		fmt.Fprintf(tw, "%s\t%g\t%s\t%s\n",
			c, a.Result.Usage.Amount(c), c.Unit(), formatLbs(a.Result.Breakdown.Get(c)))
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t%s\n", formatLbs(a.Result.Total))
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	if a.Comparison != nil {
		writeSection(w, "Comparison", a.Comparison.Sentences(), "")
	}
	writeSection(w, "Suggestions", a.Suggestions, "• ")
	if eq := greenops.FromPounds(a.Result.Total); !eq.IsEmpty {
		fmt.Fprintf(w, "\n%s\n", eq.DisplayText)
	}
	return nil
}
