package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// EmployeeDeductions is everything withheld from the employee's pay.
type EmployeeDeductions struct {
	Health           decimal.Decimal `json:"health"`
	Pension          decimal.Decimal `json:"pension"`
	SolidarityFund   decimal.Decimal `json:"solidarity_fund"`
	SolidarityRate   decimal.Decimal `json:"solidarity_rate"`
	Withholding      decimal.Decimal `json:"withholding"`
	VoluntaryPension decimal.Decimal `json:"voluntary_pension"`
	AFCSavings       decimal.Decimal `json:"afc_savings"`
	Loans            decimal.Decimal `json:"loans"`
	Other            decimal.Decimal `json:"other"`
	Total            decimal.Decimal `json:"total"`
}

// Mandatory is health + pension + solidarity fund.
func (d EmployeeDeductions) Mandatory() decimal.Decimal {
	return generic.SumOf(d.Health, d.Pension, d.SolidarityFund)
}

// Voluntary is voluntary pension + AFC savings taken from pay.
func (d EmployeeDeductions) Voluntary() decimal.Decimal {
	return d.VoluntaryPension.Add(d.AFCSavings)
}

func (d EmployeeDeductions) sum() decimal.Decimal {
	return generic.SumOf(d.Mandatory(), d.Withholding, d.Voluntary(), d.Loans, d.Other)
}

// WithWithholding returns a copy carrying amount as withholding.
func (d EmployeeDeductions) WithWithholding(amount decimal.Decimal) EmployeeDeductions {
	d.Withholding = amount
	d.Total = d.sum()
	return d
}

// ComputeEmployeeDeductions applies the employee contribution rates to ibc
// and adds the flat deductions. Withholding starts at zero; see
// WithWithholding.
func ComputeEmployeeDeductions(c Contract, ibc, solidarityRate decimal.Decimal, p *FiscalParameters) EmployeeDeductions {
	d := EmployeeDeductions{
		Health:           ibc.Mul(p.Contributions.EmployeeHealth),
		Pension:          ibc.Mul(p.Contributions.EmployeePension),
		SolidarityFund:   ibc.Mul(solidarityRate),
		SolidarityRate:   solidarityRate,
		VoluntaryPension: c.VoluntaryPension,
		AFCSavings:       c.AFCSavings,
		Loans:            c.Loans,
		Other:            c.OtherDeductions,
	}
	d.Total = d.sum()
	return d
}

func (d EmployeeDeductions) rounded() EmployeeDeductions {
	r := EmployeeDeductions{
		Health:           generic.RoundCurrency(d.Health),
		Pension:          generic.RoundCurrency(d.Pension),
		SolidarityFund:   generic.RoundCurrency(d.SolidarityFund),
		SolidarityRate:   d.SolidarityRate,
		Withholding:      generic.RoundCurrency(d.Withholding),
		VoluntaryPension: generic.RoundCurrency(d.VoluntaryPension),
		AFCSavings:       generic.RoundCurrency(d.AFCSavings),
		Loans:            generic.RoundCurrency(d.Loans),
		Other:            generic.RoundCurrency(d.Other),
	}
	r.Total = r.sum()
	return r
}
