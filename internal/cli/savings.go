package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/emissionmission/internal/emissions"
	"github.com/rshade/emissionmission/internal/logging"
)

// DefaultReductionPercent is the reduction applied to a category when its
// --X-reduction flag is not given.
const DefaultReductionPercent = 10.0

type savingsParams struct {
	usage      usageFlags
	reductions map[emissions.Category]*float64
	output     string
}

// savingsOutput adds the rounded dollar figure to a savings projection.
type savingsOutput struct {
	emissions.Savings

	CostUSD string `json:"cost_saved_usd"`
}

func newSavingsCmd() *cobra.Command {
	params := savingsParams{reductions: make(map[emissions.Category]*float64)}

	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Project emissions and cost saved by reducing usage",
		Long: `Projects the monthly emissions and cost saved by cutting each category's usage
by a percentage. Each category defaults to a 10% reduction.`,
		Example: `  # 10% across the board
  emissionmission savings --electricity 900 --gas 40 --water 3000 --internet 150

  # Halve electricity, leave the rest alone
  emissionmission savings --electricity 900 --electricity-reduction 50 \
    --gas-reduction 0 --water-reduction 0 --internet-reduction 0`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSavings(cmd, params)
		},
	}

	params.usage.register(cmd)
	for _, c := range emissions.AllCategories() {
		pct := new(float64)
		params.reductions[c] = pct
		cmd.Flags().Float64Var(pct, reductionFlagName(c), DefaultReductionPercent,
			fmt.Sprintf("percent reduction of %s usage (0-100)", c))
	}
	addOutputFlag(cmd, &params.output)

	return cmd
}

// categoryFlag is the usage flag name for c, e.g. "electricity".
func categoryFlag(c emissions.Category) string {
	return strings.ToLower(c.String())
}

func reductionFlagName(c emissions.Category) string {
	return categoryFlag(c) + "-reduction"
}

func (p savingsParams) request() emissions.ReductionRequest {
	usage := emissions.UsageRecord{
		ElectricityKWh: p.usage.electricity,
		GasTherms:      p.usage.gas,
		WaterGallons:   p.usage.water,
		InternetGB:     p.usage.internet,
	}
	var req emissions.ReductionRequest
	for _, c := range emissions.AllCategories() {
		req = req.With(c, emissions.Reduction{
			CurrentUsage:     usage.Amount(c),
			ReductionPercent: *p.reductions[c],
		})
	}
	return req
}

func runSavings(cmd *cobra.Command, params savingsParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := parseOutputFormat(params.output)
	if err != nil {
		return err
	}

	req := params.request()
	auditParams := make(map[string]string, 2*len(emissions.AllCategories())) //nolint:mnd // usage + percent
	for _, c := range emissions.AllCategories() {
		red := req.Get(c)
		auditParams[categoryFlag(c)] = strconv.FormatFloat(red.CurrentUsage, 'f', -1, 64)
		auditParams[reductionFlagName(c)] = strconv.FormatFloat(red.ReductionPercent, 'f', -1, 64)
	}
	audit := newAuditContext(ctx, "savings", auditParams)

	if err = req.Validate(); err != nil {
		err = fmt.Errorf("invalid reduction: %w", err)
		audit.logFailure(ctx, err)
		return err
	}

	savings := emissions.ComputeSavings(req)
	log.Debug().Ctx(ctx).Float64("emissions_saved", savings.EmissionsSaved).
		Float64("cost_saved", savings.CostSaved).Msg("savings projected")

	if err = renderSavings(cmd.OutOrStdout(), format, savings); err != nil {
		audit.logFailure(ctx, err)
		return err
	}
	audit.logSuccess(ctx, savings.EmissionsSaved)
	return nil
}

func renderSavings(w io.Writer, format OutputFormat, s emissions.Savings) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, savingsOutput{Savings: s, CostUSD: s.CostSavedUSD().StringFixed(2)})
	case OutputNDJSON:
		return writeNDJSON(w, s.Categories)
	case OutputTable:
		return renderSavingsTable(w, s)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutputFormat, format)
	}
}

func renderSavingsTable(w io.Writer, s emissions.Savings) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "CATEGORY\tSAVED USAGE\tUNIT\tLBS CO2 SAVED\tCOST SAVED")
	fmt.Fprintln(tw, "--------\t-----------\t----\t-------------\t----------")
	for _, cs := range s.Categories {
		fmt.Fprintf(tw, "%s\t%g\t%s\t%s\t$%.2f\n",
			cs.Category, cs.SavedUsage, cs.Category.Unit(), formatLbs(cs.EmissionsSaved), cs.CostSaved)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(w, "\nEstimated emissions saved: %.2f lbs CO2\n", s.EmissionsSaved)
	fmt.Fprintf(w, "Estimated cost saved: $%s\n", s.CostSavedUSD().StringFixed(2))
	return nil
}
