package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/emissionmission/internal/emissions"
	"github.com/rshade/emissionmission/internal/logging"
	"github.com/rshade/emissionmission/internal/refdata"
	"github.com/rshade/emissionmission/internal/tui"
)

type statesParams struct {
	total       float64
	interactive bool
	output      string
}

// stateRow is one state in states output.
type stateRow struct {
	State    string   `json:"state"`
	Average  float64  `json:"average"`
	Mappable bool     `json:"mappable"`
	Diff     *float64 `json:"diff,omitempty"`
}

// statesOutput is the JSON shape of states.
type statesOutput struct {
	NationalAverage float64    `json:"national_average"`
	States          []stateRow `json:"states"`
}

func newStatesCmd() *cobra.Command {
	var params statesParams

	cmd := &cobra.Command{
		Use:   "states",
		Short: "List state average emissions",
		Long: `Lists the monthly average emissions for all 50 states, sorted by name.
With --total a column shows how that total compares to each state.`,
		Example: `  emissionmission states
  emissionmission states --total 1514.2
  emissionmission states --interactive
  emissionmission states validate --strict`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var total *float64
			if cmd.Flags().Changed("total") {
				total = &params.total
			}
			return runStates(cmd, params, total)
		},
	}

	cmd.Flags().Float64Var(&params.total, "total", 0, "compare this monthly total (lbs CO2) against each state")
	cmd.Flags().BoolVarP(&params.interactive, "interactive", "i", false, "browse states interactively")
	addOutputFlag(cmd, &params.output)
	cmd.AddCommand(newStatesValidateCmd())

	return cmd
}

func runStates(cmd *cobra.Command, params statesParams, total *float64) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := parseOutputFormat(params.output)
	if err != nil {
		return err
	}
	if total != nil && *total < 0 {
		return fmt.Errorf("invalid total: %w", emissions.ErrNegativeUsage)
	}

	rows := tui.StateRowsFrom(refdata.Default())
	log.Debug().Ctx(ctx).Int("states", len(rows)).Msg("state averages loaded")

	if params.interactive {
		if !isTerminal(os.Stdout) {
			return ErrNotTerminal
		}
		if _, err = tea.NewProgram(tui.NewStatesModel(rows, total), tea.WithContext(ctx)).Run(); err != nil {
			return fmt.Errorf("failed to run interactive states TUI: %w", err)
		}
		return nil
	}

	return renderStates(cmd.OutOrStdout(), format, toStateRows(rows, total))
}

func toStateRows(rows []tui.StateRow, total *float64) []stateRow {
	out := make([]stateRow, 0, len(rows))
	for _, r := range rows {
		row := stateRow{State: r.Name, Average: r.Average, Mappable: r.Mappable}
		if total != nil {
			diff := emissions.Compare(*total, r.Average).Diff
			row.Diff = &diff
		}
		out = append(out, row)
	}
	return out
}

func renderStates(w io.Writer, format OutputFormat, rows []stateRow) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, statesOutput{NationalAverage: refdata.NationalAverage, States: rows})
	case OutputNDJSON:
		return writeNDJSON(w, rows)
	case OutputTable:
		return renderStatesTable(w, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutputFormat, format)
	}
}

func renderStatesTable(w io.Writer, rows []stateRow) error {
	withDiff := len(rows) > 0 && rows[0].Diff != nil

	tw := newTabWriter(w)
	if withDiff {
		fmt.Fprintln(tw, "STATE\tAVERAGE\tON MAP\tYOU VS STATE")
	} else {
		fmt.Fprintln(tw, "STATE\tAVERAGE\tON MAP")
	}
	for _, r := range rows {
		onMap := "yes"
		if !r.Mappable {
			onMap = "no"
		}
		if withDiff {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%+.2f\n", r.State, formatLbs(r.Average), onMap, *r.Diff)
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.State, formatLbs(r.Average), onMap)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	fmt.Fprintf(w, "\nNational average: %s lbs CO2/month\n", formatLbs(refdata.NationalAverage))
	return nil
}

// validateOutput is the JSON shape of states validate.
type validateOutput struct {
	Valid  bool            `json:"valid"`
	Issues []refdata.Issue `json:"issues"`
}

func newStatesValidateCmd() *cobra.Command {
	var (
		strict bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the reference data for states missing an average or a map coordinate",
		Long: `Reports states that have an average but no map coordinate, or a coordinate
but no average. Issues are printed as warnings; with --strict they also make
the command exit with status 2.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatesValidate(cmd, strict, output)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit with status 2 when issues are found")
	addOutputFlag(cmd, &output)

	return cmd
}

func runStatesValidate(cmd *cobra.Command, strict bool, output string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := parseOutputFormat(output)
	if err != nil {
		return err
	}

	issues := refdata.Default().Validate()
	for _, issue := range issues {
		log.Warn().Ctx(ctx).Str("state", issue.State).Str("kind", string(issue.Kind)).
			Msg("reference data issue")
	}

	w := cmd.OutOrStdout()
	switch format {
	case OutputJSON:
		err = writeJSON(w, validateOutput{Valid: len(issues) == 0, Issues: issues})
	case OutputNDJSON:
		err = writeNDJSON(w, issues)
	case OutputTable:
		if len(issues) == 0 {
			fmt.Fprintln(w, "✅ Reference data is valid")
		} else {
			fmt.Fprintf(w, "Reference data has %d issue(s):\n", len(issues))
			for _, issue := range issues {
				fmt.Fprintf(w, "  - %s\n", issue)
			}
		}
	}
	if err != nil {
		return err
	}

	if strict && len(issues) > 0 {
		return &ValidationExitError{
			ExitCode: validationFailedExitCode,
			Reason:   fmt.Sprintf("reference data has %d issue(s)", len(issues)),
		}
	}
	return nil
}
