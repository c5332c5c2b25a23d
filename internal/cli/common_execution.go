package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/emissionmission/internal/emissions"
	"github.com/rshade/emissionmission/internal/feedback"
	"github.com/rshade/emissionmission/internal/logging"
	"github.com/rshade/emissionmission/internal/refdata"
)

// auditContext holds common context for audit logging within a command.
type auditContext struct {
	logger  logging.AuditLogger
	traceID string
	params  map[string]string
	start   time.Time
	command string
}

// newAuditContext creates a new audit context.
func newAuditContext(ctx context.Context, command string, params map[string]string) *auditContext {
	return &auditContext{
		logger:  logging.AuditLoggerFromContext(ctx),
		traceID: logging.TraceIDFromContext(ctx),
		params:  params,
		start:   time.Now(),
		command: command,
	}
}

// logFailure logs an audit entry for a failed operation.
func (a *auditContext) logFailure(ctx context.Context, err error) {
	entry := logging.NewAuditEntry(a.command, a.traceID).
		WithParameters(a.params).
		WithError(err.Error()).
		WithDuration(a.start)
	a.logger.Log(ctx, *entry)
}

// logSuccess logs an audit entry for a successful operation.
func (a *auditContext) logSuccess(ctx context.Context, totalLbs float64) {
	entry := logging.NewAuditEntry(a.command, a.traceID).
		WithParameters(a.params).
		WithSuccess(totalLbs).
		WithDuration(a.start)
	a.logger.Log(ctx, *entry)
}

// usageFlags binds the four monthly usage flags shared by calculate and report.
type usageFlags struct {
	electricity float64
	gas         float64
	water       float64
	internet    float64
}

func (f *usageFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.electricity, "electricity", 0, "monthly electricity usage in kWh")
	cmd.Flags().Float64Var(&f.gas, "gas", 0, "monthly natural gas usage in therms")
	cmd.Flags().Float64Var(&f.water, "water", 0, "monthly water usage in gallons")
	cmd.Flags().Float64Var(&f.internet, "internet", 0, "monthly internet usage in GB")
}

// record validates the flags and returns them as a usage record.
func (f *usageFlags) record() (emissions.UsageRecord, error) {
	u := emissions.UsageRecord{
		ElectricityKWh: f.electricity,
		GasTherms:      f.gas,
		WaterGallons:   f.water,
		InternetGB:     f.internet,
	}
	if err := u.Validate(); err != nil {
		return emissions.UsageRecord{}, fmt.Errorf("invalid usage: %w", err)
	}
	return u, nil
}

func usageParams(u emissions.UsageRecord) map[string]string {
	params := make(map[string]string, len(emissions.AllCategories()))
	for _, c := range emissions.AllCategories() {
		params[c.String()] = strconv.FormatFloat(u.Amount(c), 'f', -1, 64)
	}
	return params
}

// analysis is a calculation with its comparison and tips.
type analysis struct {
	Result      emissions.Result            `json:"result"`
	Comparison  *emissions.ComparisonReport `json:"comparison,omitempty"`
	Suggestions []string                    `json:"suggestions"`
}

// analyze computes emissions for usage and, when state is non-empty,
// compares the total against it and the national average.
func analyze(ctx context.Context, usage emissions.UsageRecord, state string) (analysis, error) {
	log := logging.FromContext(ctx)

	res := emissions.Compute(usage)
	out := analysis{Result: res, Suggestions: feedback.Generate(res.Breakdown)}

	if state != "" {
		cmp, err := compareTotal(res.Total, state)
		if err != nil {
			return analysis{}, err
		}
		out.Comparison = &cmp
	}

	log.Debug().Ctx(ctx).Float64("total_lbs", res.Total).Str("state", state).
		Int("suggestions", len(out.Suggestions)).Msg("usage analyzed")
	return out, nil
}

// compareTotal normalizes state and compares total against it and the
// national average.
func compareTotal(total float64, state string) (emissions.ComparisonReport, error) {
	return emissions.CompareToReferences(
		total,
		refdata.NormalizeStateName(state),
		refdata.LookupStateAverage,
		refdata.NationalAverage,
		refdata.ErrStateNotFound,
	)
}
