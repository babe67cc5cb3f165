package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// OvertimeLine is the value of one overtime/premium category.
type OvertimeLine struct {
	Category   OvertimeCategory `json:"category"`
	Hours      decimal.Decimal  `json:"hours"`
	Multiplier decimal.Decimal  `json:"multiplier"`
	Value      decimal.Decimal  `json:"value"`
}

// Compensation holds the gross salary components of one month.
type Compensation struct {
	HourlyRate          decimal.Decimal
	Overtime            []OvertimeLine
	OvertimeTotal       decimal.Decimal
	VariableSalaryTotal decimal.Decimal
	NonSalaryTotal      decimal.Decimal

	// SubtotalSalary is everything salary-constitutive:
	// base + overtime + commissions + salary bonuses.
	SubtotalSalary   decimal.Decimal
	TransportSubsidy decimal.Decimal
}

// Remuneration is SubtotalSalary + NonSalaryTotal, the base of the 40% rule
// and of the payroll levies.
func (c Compensation) Remuneration() decimal.Decimal {
	return c.SubtotalSalary.Add(c.NonSalaryTotal)
}

// TotalAccrued adds the transport subsidy to the remuneration.
func (c Compensation) TotalAccrued() decimal.Decimal {
	return c.Remuneration().Add(c.TransportSubsidy)
}

// AggregateCompensation values overtime at hourlyRate * multiplier * hours,
// with hourlyRate = base / HourlyDivisor, and sums the variable items.
func AggregateCompensation(c Contract, p *FiscalParameters) Compensation {
	comp := Compensation{
		HourlyRate: c.BaseSalary.Div(p.HourlyDivisor),
		Overtime:   make([]OvertimeLine, 0, len(OvertimeCategories)),
	}

	for _, cat := range OvertimeCategories {
		hours := c.OvertimeHours[cat]
		mult := p.OvertimeMultipliers[cat]
		value := comp.HourlyRate.Mul(mult).Mul(hours)
		comp.Overtime = append(comp.Overtime, OvertimeLine{
			Category:   cat,
			Hours:      hours,
			Multiplier: mult,
			Value:      value,
		})
		comp.OvertimeTotal = comp.OvertimeTotal.Add(value)
	}

	comp.VariableSalaryTotal = c.Commissions.Add(c.SalaryBonuses)
	comp.NonSalaryTotal = c.NonSalaryBonuses
	comp.SubtotalSalary = generic.SumOf(c.BaseSalary, comp.OvertimeTotal, comp.VariableSalaryTotal)

	if c.IncludeTransportSubsidy {
		comp.TransportSubsidy = p.TransportSubsidy
	}
	return comp
}
