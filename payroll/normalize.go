package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// Contract is a fully-populated ContractInput. Formulas read only this type,
// so none of them branch on missing values.
type Contract struct {
	Employee     Employee
	ContractType ContractType
	BaseSalary   decimal.Decimal
	RiskClass    RiskClass

	IncludeTransportSubsidy bool
	PayrollTaxExempt        bool
	EnableWithholding       bool

	// Period is zero when the dates were missing or malformed.
	Period     generic.Period
	DaysWorked int

	OvertimeHours map[OvertimeCategory]decimal.Decimal

	Commissions      decimal.Decimal
	SalaryBonuses    decimal.Decimal
	NonSalaryBonuses decimal.Decimal

	Loans           decimal.Decimal
	OtherDeductions decimal.Decimal

	HousingInterest  decimal.Decimal
	PrepaidMedicine  decimal.Decimal
	VoluntaryPension decimal.Decimal
	AFCSavings       decimal.Decimal
	HasDependents    bool
}

// Normalize resolves every default of in against p:
//   - nil base salary -> minimum wage; negative amounts -> 0
//   - unknown risk class -> class I; unknown contract type -> indefinite
//   - every overtime category present, missing hours -> 0
//   - missing or malformed dates -> 30 worked days
func Normalize(in ContractInput, p *FiscalParameters) Contract {
	c := Contract{
		Employee:                in.Employee,
		ContractType:            ParseContractType(string(in.ContractType)),
		RiskClass:               in.RiskClass,
		IncludeTransportSubsidy: in.IncludeTransportSubsidy,
		PayrollTaxExempt:        in.PayrollTaxExempt,
		EnableWithholding:       in.EnableWithholding,
		DaysWorked:              ComputeDayCount(in.StartDate, in.EndDate),
		OvertimeHours:           make(map[OvertimeCategory]decimal.Decimal, len(OvertimeCategories)),
		Commissions:             generic.OrZero(in.Commissions),
		SalaryBonuses:           generic.OrZero(in.SalaryBonuses),
		NonSalaryBonuses:        generic.OrZero(in.NonSalaryBonuses),
		Loans:                   generic.OrZero(in.Loans),
		OtherDeductions:         generic.OrZero(in.OtherDeductions),
	}

	if in.BaseSalary == nil {
		c.BaseSalary = p.MinimumWage
	} else {
		c.BaseSalary = generic.NonNegative(*in.BaseSalary)
	}

	if !c.RiskClass.Valid() {
		c.RiskClass = RiskClassI
	}

	if period, ok := generic.ParsePeriod(in.StartDate, in.EndDate); ok {
		c.Period = period
	}

	for _, cat := range OvertimeCategories {
		c.OvertimeHours[cat] = generic.NonNegative(in.OvertimeHours[cat])
	}

	if d := in.Deductions; d != nil {
		c.HousingInterest = generic.OrZero(d.HousingInterest)
		c.PrepaidMedicine = generic.OrZero(d.PrepaidMedicine)
		c.VoluntaryPension = generic.OrZero(d.VoluntaryPension)
		c.AFCSavings = generic.OrZero(d.AFCSavings)
		c.HasDependents = d.HasDependents
	}
	return c
}
