package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// Provisions are the four statutory benefits: severance, severance
// interest, service bonus and vacation.
type Provisions struct {
	Severance         decimal.Decimal `json:"severance"`
	SeveranceInterest decimal.Decimal `json:"severance_interest"`
	Bonus             decimal.Decimal `json:"bonus"`
	Vacation          decimal.Decimal `json:"vacation"`
	Total             decimal.Decimal `json:"total"`
}

func (p Provisions) sum() decimal.Decimal {
	return generic.SumOf(p.Severance, p.SeveranceInterest, p.Bonus, p.Vacation)
}

func (p Provisions) rounded() Provisions {
	r := Provisions{
		Severance:         generic.RoundCurrency(p.Severance),
		SeveranceInterest: generic.RoundCurrency(p.SeveranceInterest),
		Bonus:             generic.RoundCurrency(p.Bonus),
		Vacation:          generic.RoundCurrency(p.Vacation),
	}
	r.Total = r.sum()
	return r
}

// ComputeMonthlyProvisions accrues one month with the fixed-factor
// approximation. Severance interest is the annual rate applied flat to the
// month's severance; vacation excludes the transport subsidy.
func ComputeMonthlyProvisions(comp Compensation, p *FiscalParameters) Provisions {
	withSubsidy := comp.SubtotalSalary.Add(comp.TransportSubsidy)
	rates := p.Provisions

	prov := Provisions{
		Severance: generic.AccrueFixed(withSubsidy, rates.Severance),
		Bonus:     generic.AccrueFixed(withSubsidy, rates.Bonus),
		Vacation:  generic.AccrueFixed(comp.SubtotalSalary, rates.Vacation),
	}
	prov.SeveranceInterest = generic.AccrueFixed(prov.Severance, rates.SeveranceInterest)
	prov.Total = prov.sum()
	return prov
}
