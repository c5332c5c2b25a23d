package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/emissionmission/internal/config"
	"github.com/rshade/emissionmission/internal/emissions"
	"github.com/rshade/emissionmission/internal/logging"
	"github.com/rshade/emissionmission/internal/report"
)

// stdoutPath makes --out write to standard output.
const stdoutPath = "-"

type reportParams struct {
	usage     usageFlags
	state     string
	out       string
	format    string
	author    string
	reduction float64
}

func newReportCmd() *cobra.Command {
	var params reportParams
	cfg := config.GetGlobalConfig()

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export an emissions summary",
		Long: `Builds a summary of the calculation (total, breakdown, optional state
comparison, suggestions and an equivalency) and writes it as a PDF, or as
text, markdown, HTML or JSON. With --reduction the summary also projects the
savings of cutting every category by that percent.`,
		Example: `  emissionmission report --electricity 900 --gas 40 --state ohio
  emissionmission report --electricity 900 --out summary.md --format markdown
  emissionmission report --electricity 900 --format text --out -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, params)
		},
	}

	params.usage.register(cmd)
	cmd.Flags().StringVar(&params.state, "state", "", "include a comparison against this US state")
	cmd.Flags().StringVar(&params.out, "out", cfg.Report.FileName, `output file, or "-" for stdout`)
	cmd.Flags().StringVar(&params.format, "format", string(report.FormatPDF),
		"report format: "+report.FormatNames())
	cmd.Flags().StringVar(&params.author, "author", cfg.Report.Author, "author stamped on the report")
	cmd.Flags().Float64Var(&params.reduction, "reduction", 0, "project savings for this percent reduction (0-100)")

	return cmd
}

func runReport(cmd *cobra.Command, params reportParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := report.ParseFormat(params.format)
	if err != nil {
		return err
	}
	usage, err := params.usage.record()
	if err != nil {
		return err
	}

	auditParams := usageParams(usage)
	auditParams["format"] = string(format)
	auditParams["out"] = params.out
	audit := newAuditContext(ctx, "report", auditParams)

	a, err := analyze(ctx, usage, params.state)
	if err != nil {
		audit.logFailure(ctx, err)
		return err
	}

	in := report.Input{
		Result:      a.Result,
		Comparison:  a.Comparison,
		Suggestions: a.Suggestions,
		Author:      params.author,
	}
	if cmd.Flags().Changed("reduction") {
		req := emissions.NewReductionRequest(usage, params.reduction)
		if err = req.Validate(); err != nil {
			err = fmt.Errorf("invalid reduction: %w", err)
			audit.logFailure(ctx, err)
			return err
		}
		savings := emissions.ComputeSavings(req)
		in.Savings = &savings
	}
	data := report.Build(in)

	out := params.out
	if !cmd.Flags().Changed("out") && format != report.FormatPDF {
		out = strings.TrimSuffix(out, filepath.Ext(out)) + format.Extension()
	}
	if err = writeReport(cmd, out, format, data); err != nil {
		log.Error().Ctx(ctx).Err(err).Str("out", out).Msg("report export failed")
		audit.logFailure(ctx, err)
		return err
	}

	log.Info().Ctx(ctx).Str("report_id", data.ID).Str("format", string(format)).
		Str("out", out).Msg("report exported")
	audit.logSuccess(ctx, data.Total)
	return nil
}

func writeReport(cmd *cobra.Command, out string, format report.Format, data report.Data) (err error) {
	if out == stdoutPath {
		return report.Render(cmd.OutOrStdout(), format, data)
	}

	if format == report.FormatPDF {
		if err = report.WritePDFFile(out, data); err != nil {
			return err
		}
		cmd.Printf("Report written to %s\n", out)
		return nil
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", out, closeErr)
		}
	}()
	if err = report.Render(f, format, data); err != nil {
		return err
	}
	cmd.Printf("Report written to %s\n", out)
	return nil
}
