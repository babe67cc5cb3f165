package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// EmployerCosts is what the employer pays on top of, and including, the
// employee's accrued pay.
type EmployerCosts struct {
	Health           decimal.Decimal `json:"health"`
	Pension          decimal.Decimal `json:"pension"`
	OccupationalRisk decimal.Decimal `json:"occupational_risk"`
	RiskRate         decimal.Decimal `json:"risk_rate"`
	TrainingLevy     decimal.Decimal `json:"training_levy"`
	WelfareLevy      decimal.Decimal `json:"welfare_levy"`
	CompensationFund decimal.Decimal `json:"compensation_fund"`
	ExemptionApplied bool            `json:"exemption_applied"`
	Provisions       Provisions      `json:"provisions"`

	// Total includes the employee's total accrued pay.
	Total decimal.Decimal `json:"total"`
}

func (e EmployerCosts) contributions() decimal.Decimal {
	return generic.SumOf(e.Health, e.Pension, e.OccupationalRisk, e.TrainingLevy, e.WelfareLevy, e.CompensationFund)
}

// ExemptionApplies reports whether the payroll-tax exemption takes effect.
// The flag only counts below ExemptionThresholdMultiple minimum wages.
func ExemptionApplies(c Contract, comp Compensation, p *FiscalParameters) bool {
	threshold := p.MinimumWage.Mul(p.ExemptionThresholdMultiple)
	return c.PayrollTaxExempt && comp.SubtotalSalary.LessThan(threshold)
}

// ComputeEmployerCosts computes employer contributions, payroll levies and
// the monthly provisions. The exemption zeroes health, the training levy and
// the welfare levy; pension, occupational risk and the compensation fund are
// never exempted.
func ComputeEmployerCosts(c Contract, comp Compensation, ibc decimal.Decimal, p *FiscalParameters) EmployerCosts {
	rates := p.Contributions
	exempt := ExemptionApplies(c, comp, p)
	levyBase := comp.Remuneration()
	riskRate := p.RiskRate(c.RiskClass)

	e := EmployerCosts{
		Pension:          ibc.Mul(rates.EmployerPension),
		OccupationalRisk: ibc.Mul(riskRate),
		RiskRate:         riskRate,
		CompensationFund: levyBase.Mul(rates.CompensationFund),
		ExemptionApplied: exempt,
		Provisions:       ComputeMonthlyProvisions(comp, p),
	}
	if !exempt {
		e.Health = ibc.Mul(rates.EmployerHealth)
		e.TrainingLevy = levyBase.Mul(rates.TrainingLevy)
		e.WelfareLevy = levyBase.Mul(rates.WelfareLevy)
	}
	e.Total = generic.SumOf(comp.TotalAccrued(), e.contributions(), e.Provisions.Total)
	return e
}

// rounded rounds every item and rebuilds Total over totalAccrued, which must
// already be rounded.
func (e EmployerCosts) rounded(totalAccrued decimal.Decimal) EmployerCosts {
	r := EmployerCosts{
		Health:           generic.RoundCurrency(e.Health),
		Pension:          generic.RoundCurrency(e.Pension),
		OccupationalRisk: generic.RoundCurrency(e.OccupationalRisk),
		RiskRate:         e.RiskRate,
		TrainingLevy:     generic.RoundCurrency(e.TrainingLevy),
		WelfareLevy:      generic.RoundCurrency(e.WelfareLevy),
		CompensationFund: generic.RoundCurrency(e.CompensationFund),
		ExemptionApplied: e.ExemptionApplied,
		Provisions:       e.Provisions.rounded(),
	}
	r.Total = generic.SumOf(totalAccrued, r.contributions(), r.Provisions.Total)
	return r
}
