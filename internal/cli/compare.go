package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/emissionmission/internal/emissions"
	"github.com/rshade/emissionmission/internal/logging"
)

type compareParams struct {
	total  float64
	state  string
	output string
}

// compareOutput adds the rendered sentences to a comparison report.
type compareOutput struct {
	emissions.ComparisonReport

	Sentences []string `json:"sentences"`
}

func newCompareCmd() *cobra.Command {
	var params compareParams

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a monthly total against a state and the national average",
		Example: `  emissionmission compare --total 1514.2 --state california
  emissionmission compare --total 800 --state Texas --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd, params)
		},
	}

	cmd.Flags().Float64Var(&params.total, "total", 0, "monthly total in lbs CO2")
	cmd.Flags().StringVar(&params.state, "state", "", "US state name")
	addOutputFlag(cmd, &params.output)
	_ = cmd.MarkFlagRequired("total")
	_ = cmd.MarkFlagRequired("state")

	return cmd
}

func runCompare(cmd *cobra.Command, params compareParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := parseOutputFormat(params.output)
	if err != nil {
		return err
	}

	audit := newAuditContext(ctx, "compare", map[string]string{
		"total": strconv.FormatFloat(params.total, 'f', -1, 64),
		"state": params.state,
	})

	if params.total < 0 {
		err = fmt.Errorf("invalid total: %w", emissions.ErrNegativeUsage)
		audit.logFailure(ctx, err)
		return err
	}

	report, err := compareTotal(params.total, params.state)
	if err != nil {
		audit.logFailure(ctx, err)
		return err
	}
	if report.State != nil && !report.State.Found {
		log.Warn().Ctx(ctx).Str("state", report.State.State).Msg("state not found in dataset")
	}

	if err = renderCompare(cmd.OutOrStdout(), format, report); err != nil {
		audit.logFailure(ctx, err)
		return err
	}
	audit.logSuccess(ctx, params.total)
	return nil
}

func renderCompare(w io.Writer, format OutputFormat, report emissions.ComparisonReport) error {
	out := compareOutput{ComparisonReport: report, Sentences: report.Sentences()}
	switch format {
	case OutputJSON:
		return writeJSON(w, out)
	case OutputNDJSON:
		return writeNDJSON(w, []compareOutput{out})
	case OutputTable:
		for _, s := range out.Sentences {
			fmt.Fprintln(w, s)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutputFormat, format)
	}
}
