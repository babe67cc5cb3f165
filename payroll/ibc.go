package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// ContributionBase is the resolved IBC and how it was reached.
type ContributionBase struct {
	// NonSalaryLimit is the 40% share of total remuneration.
	NonSalaryLimit decimal.Decimal `json:"non_salary_limit"`

	// Excess is the part of non-salary pay above NonSalaryLimit.
	Excess decimal.Decimal `json:"excess"`

	Raw decimal.Decimal `json:"raw"`
	IBC decimal.Decimal `json:"ibc"`

	// Clamped is true when the floor or ceiling replaced Raw.
	Clamped bool `json:"clamped"`
}

// ResolveIBC applies the non-salary cap rule and clamps the result to
// [IBCFloorMultiple, IBCCeilingMultiple] minimum wages. The clamp is a legal
// floor and ceiling and applies even when the raw base is zero.
func ResolveIBC(subtotalSalary, nonSalaryTotal decimal.Decimal, p *FiscalParameters) ContributionBase {
	limit := subtotalSalary.Add(nonSalaryTotal).Mul(p.NonSalaryCapRate)
	excess := generic.NonNegative(nonSalaryTotal.Sub(limit))
	raw := subtotalSalary.Add(excess)

	floor := p.MinimumWage.Mul(p.IBCFloorMultiple)
	ceiling := p.MinimumWage.Mul(p.IBCCeilingMultiple)
	ibc := generic.Clamp(raw, floor, ceiling)

	return ContributionBase{
		NonSalaryLimit: limit,
		Excess:         excess,
		Raw:            raw,
		IBC:            ibc,
		Clamped:        !ibc.Equal(raw),
	}
}
