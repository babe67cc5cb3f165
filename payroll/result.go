package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// RESULT VIEWS - Same shape for monthly and liquidation
// =============================================================================

type ViewKind string

const (
	ViewMonthly     ViewKind = "monthly"
	ViewLiquidation ViewKind = "liquidation"
)

// SalaryData describes the pay the view is built on.
type SalaryData struct {
	BaseSalary       decimal.Decimal `json:"base_salary"`
	TransportSubsidy decimal.Decimal `json:"transport_subsidy"`
	OvertimeTotal    decimal.Decimal `json:"overtime_total"`
	VariableTotal    decimal.Decimal `json:"variable_total"`
	NonSalaryTotal   decimal.Decimal `json:"non_salary_total"`
	SubtotalSalary   decimal.Decimal `json:"subtotal_salary"`
	TotalAccrued     decimal.Decimal `json:"total_accrued"`
	DaysWorked       int             `json:"days_worked"`
	Overtime         []OvertimeLine  `json:"overtime"`
}

// PeriodView is the worked period as dates, when known.
type PeriodView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PayrollFinancials is the engine's output. NetPay always equals
// SalaryData.TotalAccrued - EmployeeDeductions.Total, on rounded values.
type PayrollFinancials struct {
	Kind         ViewKind     `json:"kind"`
	FiscalYear   int          `json:"fiscal_year"`
	Employee     Employee     `json:"employee"`
	ContractType ContractType `json:"contract_type"`
	RiskClass    RiskClass    `json:"risk_class"`
	Period       *PeriodView  `json:"period,omitempty"`

	SalaryData         SalaryData         `json:"salary_data"`
	ContributionBase   ContributionBase   `json:"contribution_base"`
	EmployeeDeductions EmployeeDeductions `json:"employee_deductions"`
	NetPay             decimal.Decimal    `json:"net_pay"`
	EmployerCosts      EmployerCosts      `json:"employer_costs"`

	// Withholding is nil when withholding is disabled.
	Withholding *WithholdingDetail `json:"withholding,omitempty"`

	// Settlement is set on liquidation views only.
	Settlement *Settlement `json:"settlement,omitempty"`
}

// Result pairs both views of one contract.
type Result struct {
	Monthly     PayrollFinancials `json:"monthly"`
	Liquidation PayrollFinancials `json:"liquidation"`
}

// =============================================================================
// ASSEMBLY
// =============================================================================

// breakdown is the unrounded output of one pass through the pipeline.
type breakdown struct {
	contract    Contract
	comp        Compensation
	base        ContributionBase
	deductions  EmployeeDeductions
	withholding *WithholdingDetail
	employer    EmployerCosts
	benefits    Provisions
}

// calculate runs Day-Count -> Compensation -> IBC -> {Solidarity,
// Withholding} -> Deductions -> Employer costs -> Liquidation.
func calculate(c Contract, p *FiscalParameters) breakdown {
	comp := AggregateCompensation(c, p)
	base := ResolveIBC(comp.SubtotalSalary, comp.NonSalaryTotal, p)
	rate := SolidarityRate(base.IBC, p)
	ded := ComputeEmployeeDeductions(c, base.IBC, rate, p)

	var wd *WithholdingDetail
	if c.EnableWithholding {
		detail := ComputeWithholding(WithholdingInput{
			GrossIncome:            comp.Remuneration(),
			MandatoryContributions: ded.Mandatory(),
			HousingInterest:        c.HousingInterest,
			PrepaidMedicine:        c.PrepaidMedicine,
			VoluntaryPension:       c.VoluntaryPension,
			AFCSavings:             c.AFCSavings,
			HasDependents:          c.HasDependents,
		}, p)
		wd = &detail
		ded = ded.WithWithholding(detail.Withholding)
	}

	return breakdown{
		contract:    c,
		comp:        comp,
		base:        base,
		deductions:  ded,
		withholding: wd,
		employer:    ComputeEmployerCosts(c, comp, base.IBC, p),
		benefits:    ComputeLiquidationBenefits(comp, c.DaysWorked, p),
	}
}

func (b breakdown) salaryData(days int) SalaryData {
	round := generic.RoundCurrency
	s := SalaryData{
		BaseSalary:       round(b.contract.BaseSalary),
		TransportSubsidy: round(b.comp.TransportSubsidy),
		OvertimeTotal:    round(b.comp.OvertimeTotal),
		VariableTotal:    round(b.comp.VariableSalaryTotal),
		NonSalaryTotal:   round(b.comp.NonSalaryTotal),
		DaysWorked:       days,
		Overtime:         make([]OvertimeLine, len(b.comp.Overtime)),
	}
	for i, line := range b.comp.Overtime {
		line.Value = round(line.Value)
		s.Overtime[i] = line
	}
	s.SubtotalSalary = generic.SumOf(s.BaseSalary, s.OvertimeTotal, s.VariableTotal)
	s.TotalAccrued = generic.SumOf(s.SubtotalSalary, s.NonSalaryTotal, s.TransportSubsidy)
	return s
}

func (b breakdown) header(kind ViewKind, p *FiscalParameters) PayrollFinancials {
	f := PayrollFinancials{
		Kind:         kind,
		FiscalYear:   p.Year,
		Employee:     b.contract.Employee,
		ContractType: b.contract.ContractType,
		RiskClass:    b.contract.RiskClass,
		ContributionBase: ContributionBase{
			NonSalaryLimit: generic.RoundCurrency(b.base.NonSalaryLimit),
			Excess:         generic.RoundCurrency(b.base.Excess),
			Raw:            generic.RoundCurrency(b.base.Raw),
			IBC:            generic.RoundCurrency(b.base.IBC),
			Clamped:        b.base.Clamped,
		},
	}
	if !b.contract.Period.IsZero() {
		f.Period = &PeriodView{
			Start: b.contract.Period.Start.Format("2006-01-02"),
			End:   b.contract.Period.End.Format("2006-01-02"),
		}
	}
	if b.withholding != nil {
		wd := *b.withholding
		f.Withholding = &wd
	}
	return f
}

// monthly assembles the fixed 30-day cycle view.
func (b breakdown) monthly(p *FiscalParameters) PayrollFinancials {
	f := b.header(ViewMonthly, p)
	f.SalaryData = b.salaryData(FallbackDays)
	f.EmployeeDeductions = b.deductions.rounded()
	f.NetPay = f.SalaryData.TotalAccrued.Sub(f.EmployeeDeductions.Total)
	f.EmployerCosts = b.employer.rounded(f.SalaryData.TotalAccrued)
	return f
}

// liquidation assembles the days-driven settlement view. The accrued total
// is the liquidated benefits; the employer bears exactly those.
func (b breakdown) liquidation(p *FiscalParameters) PayrollFinancials {
	f := b.header(ViewLiquidation, p)
	benefits := b.benefits.rounded()

	f.SalaryData = b.salaryData(b.contract.DaysWorked)
	f.SalaryData.TotalAccrued = benefits.Total
	f.EmployeeDeductions = liquidationDeductions(b.deductions).rounded()
	f.NetPay = f.SalaryData.TotalAccrued.Sub(f.EmployeeDeductions.Total)
	f.EmployerCosts = EmployerCosts{
		RiskRate:   b.employer.RiskRate,
		Provisions: benefits,
		Total:      benefits.Total,
	}
	f.Settlement = &Settlement{
		DaysWorked: b.contract.DaysWorked,
		Benefits:   benefits.Total,
		Deductions: f.EmployeeDeductions.Total,
		NetToPay:   f.NetPay,
	}
	return f
}
