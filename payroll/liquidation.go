package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

const (
	// daysPerYear is the commercial year used for severance and bonus.
	daysPerYear = 360

	// vacationDivisor grants 15 working days per 360 worked.
	vacationDivisor = 720
)

// Settlement is the final amount owed when a contract ends.
type Settlement struct {
	DaysWorked int             `json:"days_worked"`
	Benefits   decimal.Decimal `json:"benefits"`
	Deductions decimal.Decimal `json:"deductions"`
	NetToPay   decimal.Decimal `json:"net_to_pay"`
}

// ComputeLiquidationBenefits prorates the four benefits over the actual
// worked days. It is its own formula path, not a slice of the monthly
// provisions:
//
//	severance          = base * days / 360
//	severance interest = severance * days * 12% / 360
//	bonus              = base * days / 360
//	vacation           = subtotalSalary * days / 720
//
// where base = subtotalSalary + transport subsidy.
func ComputeLiquidationBenefits(comp Compensation, days int, p *FiscalParameters) Provisions {
	base := comp.SubtotalSalary.Add(comp.TransportSubsidy)

	b := Provisions{
		Severance: generic.AccrueDays(base, days, daysPerYear),
		Bonus:     generic.AccrueDays(base, days, daysPerYear),
		Vacation:  generic.AccrueDays(comp.SubtotalSalary, days, vacationDivisor),
	}
	b.SeveranceInterest = generic.AccrueDays(b.Severance.Mul(p.Provisions.SeveranceInterest), days, daysPerYear)
	b.Total = b.sum()
	return b
}

// liquidationDeductions keeps what a settlement discounts: loans,
// withholding, voluntary deductions and other deductions. Benefits are not a
// contribution base, so health, pension and solidarity do not apply.
func liquidationDeductions(monthly EmployeeDeductions) EmployeeDeductions {
	d := EmployeeDeductions{
		Withholding:      monthly.Withholding,
		VoluntaryPension: monthly.VoluntaryPension,
		AFCSavings:       monthly.AFCSavings,
		Loans:            monthly.Loans,
		Other:            monthly.Other,
	}
	d.Total = d.sum()
	return d
}
