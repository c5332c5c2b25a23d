package emissions

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultReductionPercent is the reduction offered when the user has not chosen one.
const DefaultReductionPercent = 10.0

// Reduction is the current usage of one category and the percentage to cut.
type Reduction struct {
	CurrentUsage     float64 `json:"current_usage"`
	ReductionPercent float64 `json:"reduction_percent"`
}

// ReductionRequest carries one Reduction per category.
type ReductionRequest struct {
	Electricity Reduction `json:"electricity"`
	Gas         Reduction `json:"gas"`
	Water       Reduction `json:"water"`
	Internet    Reduction `json:"internet"`
}

// NewReductionRequest builds a request from a usage record, applying the
// same percent to every category.
func NewReductionRequest(usage UsageRecord, percent float64) ReductionRequest {
	var req ReductionRequest
	for _, c := range AllCategories() {
		req = req.With(c, Reduction{CurrentUsage: usage.Amount(c), ReductionPercent: percent})
	}
	return req
}

// Get returns the reduction for a single category.
func (r ReductionRequest) Get(c Category) Reduction {
	switch c {
	case Electricity:
		return r.Electricity
	case Gas:
		return r.Gas
	case Water:
		return r.Water
	case Internet:
		return r.Internet
	default:
		return Reduction{}
	}
}

// With returns a copy of r with the reduction for c replaced.
func (r ReductionRequest) With(c Category, red Reduction) ReductionRequest {
	switch c {
	case Electricity:
		r.Electricity = red
	case Gas:
		r.Gas = red
	case Water:
		r.Water = red
	case Internet:
		r.Internet = red
	}
	return r
}

// Validate checks usage is non-negative and every percent lies in [0,100].
// ComputeSavings does not call this; input boundaries do.
func (r ReductionRequest) Validate() error {
	for _, c := range AllCategories() {
		red := r.Get(c)
		if !isFinite(red.CurrentUsage) || !isFinite(red.ReductionPercent) {
			return fmt.Errorf("%w: %s", ErrInvalidUsage, c)
		}
		if red.CurrentUsage < 0 {
			return fmt.Errorf("%w: %s = %g %s", ErrNegativeUsage, c, red.CurrentUsage, c.Unit())
		}
		if red.ReductionPercent < 0 || red.ReductionPercent > percentBase {
			return fmt.Errorf("%w: %s = %g", ErrReductionOutOfRange, c, red.ReductionPercent)
		}
	}
	if sv := ComputeSavings(r); !isFinite(sv.EmissionsSaved) || !isFinite(sv.CostSaved) {
		return fmt.Errorf("%w: savings overflow", ErrInvalidUsage)
	}
	return nil
}

// CategorySavings is the saving attributed to a single category.
type CategorySavings struct {
	Category       Category `json:"category"`
	SavedUsage     float64  `json:"saved_usage"`
	EmissionsSaved float64  `json:"emissions_saved"`
	CostSaved      float64  `json:"cost_saved"`
}

// Savings is the projected monthly saving for a reduction request.
type Savings struct {
	EmissionsSaved float64           `json:"emissions_saved"`
	CostSaved      float64           `json:"cost_saved"`
	Categories     []CategorySavings `json:"categories"`
}

// CostSavedUSD returns the cost saving rounded to cents.
func (s Savings) CostSavedUSD() decimal.Decimal {
	return decimal.NewFromFloat(s.CostSaved).Round(2)
}

// ComputeSavings projects emissions and cost saved for a reduction request.
//
// Per category, saved usage is current × percent/100; emissions and cost are
// saved usage times the category's factors. Percent values outside [0,100]
// are not clamped: a percent above 100 projects more than the current usage
// and a negative percent yields a negative saving. Range checks belong to
// the caller (ReductionRequest.Validate).
func ComputeSavings(req ReductionRequest) Savings {
	out := Savings{Categories: make([]CategorySavings, 0, categoryCount)}
	for _, c := range AllCategories() {
		red := req.Get(c)
		saved := red.CurrentUsage * (red.ReductionPercent / percentBase)
		cs := CategorySavings{
			Category:       c,
			SavedUsage:     saved,
			EmissionsSaved: saved * EmissionFactor(c),
			CostSaved:      saved * CostFactor(c),
		}
		out.EmissionsSaved += cs.EmissionsSaved
		out.CostSaved += cs.CostSaved
		out.Categories = append(out.Categories, cs)
	}
	return out
}
