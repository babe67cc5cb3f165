package payroll_test

import (
	"encoding/json"
	"testing"
	"testing/quick"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func amount(v int64) *decimal.Decimal {
	x := generic.Dec(v)
	return &x
}

func minimumWageContract() payroll.ContractInput {
	return payroll.ContractInput{
		Employee:                payroll.Employee{ID: "emp-1", Name: "Ana Ruiz"},
		ContractType:            payroll.ContractIndefinite,
		RiskClass:               payroll.RiskClassI,
		IncludeTransportSubsidy: true,
	}
}

// randomContract builds a contract from quick-generated values.
func randomContract(base uint32, commissions, nonSalary, loans uint16, hours uint8, risk uint8, withholding, exempt bool) payroll.ContractInput {
	return payroll.ContractInput{
		BaseSalary:              amount(int64(base) % 150_000_000),
		RiskClass:               payroll.RiskClass(risk % 7),
		IncludeTransportSubsidy: base%2 == 0,
		PayrollTaxExempt:        exempt,
		EnableWithholding:       withholding,
		StartDate:               str("2024-03-31"),
		EndDate:                 str("2025-01-15"),
		OvertimeHours: map[payroll.OvertimeCategory]decimal.Decimal{
			payroll.OvertimeDay:  generic.Dec(int64(hours % 48)),
			payroll.NightPremium: generic.Dec(int64(hours % 13)),
			payroll.HolidayWork:  generic.Dec(int64(hours % 9)),
		},
		Commissions:      amount(int64(commissions) * 100),
		NonSalaryBonuses: amount(int64(nonSalary) * 150),
		Loans:            amount(int64(loans) * 10),
		Deductions: &payroll.DeductionParameters{
			VoluntaryPension: amount(int64(loans) * 20),
			HasDependents:    exempt,
		},
	}
}

// =============================================================================
// END-TO-END
// =============================================================================

func TestComputeMonthlyPayroll_MinimumWage2025(t *testing.T) {
	// GIVEN: One minimum wage, transport subsidy, no withholding, class I
	// WHEN: Computing the monthly payroll under 2025 values
	// THEN: Health and pension are 4% each, no solidarity, and
	//       net = minWage + subsidy - 8% minWage

	p := payroll.Parameters2025()
	result := payroll.ComputeMonthlyPayroll(minimumWageContract(), p)

	assert.Equal(t, payroll.ViewMonthly, result.Kind)
	assert.Equal(t, 2025, result.FiscalYear)
	assert.Equal(t, "1423500", result.SalaryData.BaseSalary.String())
	assert.Equal(t, "200000", result.SalaryData.TransportSubsidy.String())
	assert.Equal(t, "1623500", result.SalaryData.TotalAccrued.String())
	assert.Equal(t, 30, result.SalaryData.DaysWorked)

	ded := result.EmployeeDeductions
	assert.Equal(t, "56940", ded.Health.String())
	assert.Equal(t, "56940", ded.Pension.String())
	assert.True(t, ded.SolidarityFund.IsZero())
	assert.True(t, ded.Withholding.IsZero())
	assert.Nil(t, result.Withholding)

	assert.Equal(t, "1509620", result.NetPay.String())
	assert.Nil(t, result.Settlement)
	assert.Nil(t, result.Period)
}

func TestComputeMonthlyPayroll_EmployerCosts(t *testing.T) {
	p := payroll.Parameters2025()
	result := payroll.ComputeMonthlyPayroll(minimumWageContract(), p)
	e := result.EmployerCosts

	assert.Equal(t, "120998", e.Health.String(), "8.5% of 1,423,500 = 120,997.5")
	assert.Equal(t, "170820", e.Pension.String())
	assert.Equal(t, "7431", e.OccupationalRisk.String(), "0.522% of 1,423,500")
	assert.Equal(t, "28470", e.TrainingLevy.String())
	assert.Equal(t, "42705", e.WelfareLevy.String())
	assert.Equal(t, "56940", e.CompensationFund.String())
	assert.False(t, e.ExemptionApplied)

	assert.Equal(t, "135238", e.Provisions.Severance.String())
	assert.Equal(t, "16229", e.Provisions.SeveranceInterest.String())
	assert.Equal(t, "135238", e.Provisions.Bonus.String())
	assert.Equal(t, "59360", e.Provisions.Vacation.String())
	assert.True(t, e.Total.GreaterThan(result.SalaryData.TotalAccrued))
}

func TestComputeMonthlyPayroll_RiskClassDrivesRate(t *testing.T) {
	p := payroll.Parameters2025()
	in := minimumWageContract()
	in.RiskClass = payroll.RiskClassV

	result := payroll.ComputeMonthlyPayroll(in, p)

	assert.Equal(t, "99076", result.EmployerCosts.OccupationalRisk.String(), "6.96% of 1,423,500")
	assert.Equal(t, "V", result.RiskClass.String())
}

func TestComputeMonthlyPayroll_DefaultsResolved(t *testing.T) {
	// GIVEN: An empty contract
	// THEN: Base salary is the minimum wage, class I, no subsidy

	p := payroll.Parameters2024()
	result := payroll.ComputeMonthlyPayroll(payroll.ContractInput{}, p)

	assert.Equal(t, "1300000", result.SalaryData.BaseSalary.String())
	assert.Equal(t, payroll.RiskClassI, result.RiskClass)
	assert.Equal(t, payroll.ContractIndefinite, result.ContractType)
	assert.True(t, result.SalaryData.TransportSubsidy.IsZero())
	assert.Len(t, result.SalaryData.Overtime, len(payroll.OvertimeCategories))
}

func TestComputeMonthlyPayroll_NegativeAmountsIgnored(t *testing.T) {
	p := payroll.Parameters2025()
	in := minimumWageContract()
	in.Loans = amount(-500_000)
	in.Commissions = amount(-1)

	result := payroll.ComputeMonthlyPayroll(in, p)

	assert.True(t, result.EmployeeDeductions.Loans.IsZero())
	assert.True(t, result.SalaryData.VariableTotal.IsZero())
}

func TestComputeMonthlyPayroll_Overtime(t *testing.T) {
	// GIVEN: 2,400,000 salary, hourly rate 10,000
	// WHEN: 10 daytime overtime hours and 4 holiday hours
	// THEN: 10 * 10,000 * 1.25 + 4 * 10,000 * 1.80

	p := payroll.Parameters2025()
	in := payroll.ContractInput{
		BaseSalary: amount(2_400_000),
		OvertimeHours: map[payroll.OvertimeCategory]decimal.Decimal{
			payroll.OvertimeDay: generic.Dec(10),
			payroll.HolidayWork: generic.Dec(4),
		},
	}

	result := payroll.ComputeMonthlyPayroll(in, p)

	assert.Equal(t, "197000", result.SalaryData.OvertimeTotal.String())
	assert.Equal(t, "2597000", result.SalaryData.SubtotalSalary.String())
	for _, line := range result.SalaryData.Overtime {
		if line.Category == payroll.OvertimeDay {
			assert.Equal(t, "125000", line.Value.String())
		}
	}
}

func TestComputeMonthlyPayroll_WithholdingEnabled(t *testing.T) {
	p := payroll.Parameters2025()
	in := payroll.ContractInput{
		BaseSalary:        amount(10_000_000),
		EnableWithholding: true,
	}

	result := payroll.ComputeMonthlyPayroll(in, p)

	require.NotNil(t, result.Withholding)
	assert.Equal(t, "100000", result.EmployeeDeductions.SolidarityFund.String())
	assert.Equal(t, "397878", result.EmployeeDeductions.Withholding.String())
	assert.Equal(t, "8702122", result.NetPay.String())
}

// =============================================================================
// PAYROLL-TAX EXEMPTION
// =============================================================================

func TestEmployerCosts_ExemptionBelowThreshold(t *testing.T) {
	// GIVEN: An exempt employer and a salary under 10 minimum wages
	// THEN: Health and both levies are waived; pension and the fund remain

	p := payroll.Parameters2025()
	in := payroll.ContractInput{BaseSalary: amount(5_000_000), PayrollTaxExempt: true}

	e := payroll.ComputeMonthlyPayroll(in, p).EmployerCosts

	assert.True(t, e.ExemptionApplied)
	assert.True(t, e.Health.IsZero())
	assert.True(t, e.TrainingLevy.IsZero())
	assert.True(t, e.WelfareLevy.IsZero())
	assert.Equal(t, "600000", e.Pension.String())
	assert.Equal(t, "200000", e.CompensationFund.String())
}

func TestEmployerCosts_ExemptionHasNoEffectAtThreshold(t *testing.T) {
	// GIVEN: Salary of exactly 10 minimum wages and more
	// WHEN: Computing with and without the exemption flag
	// THEN: Employer costs are identical

	p := payroll.Parameters2025()
	for _, multiple := range []int64{10, 11, 20} {
		base := p.MinimumWage.Mul(generic.Dec(multiple))
		exempt := payroll.ContractInput{BaseSalary: &base, PayrollTaxExempt: true}
		regular := payroll.ContractInput{BaseSalary: &base}

		a := payroll.ComputeMonthlyPayroll(exempt, p).EmployerCosts
		b := payroll.ComputeMonthlyPayroll(regular, p).EmployerCosts

		assert.False(t, a.ExemptionApplied)
		assert.True(t, a.Total.Equal(b.Total), "multiple %d", multiple)
		assert.True(t, a.Health.Equal(b.Health), "multiple %d", multiple)
	}
}

// =============================================================================
// LIQUIDATION
// =============================================================================

func TestComputeLiquidation_ThirtyDaysDivergesFromMonthly(t *testing.T) {
	// GIVEN: A minimum wage contract worked for exactly 30 days
	// WHEN: Computing both views
	// THEN: Liquidation uses days/360 while the monthly provision uses 8.33%

	p := payroll.Parameters2025()
	in := minimumWageContract()
	in.StartDate = str("2025-01-01")
	in.EndDate = str("2025-01-30")

	result := payroll.Compute(in, p)
	liq := result.Liquidation
	monthly := result.Monthly.EmployerCosts.Provisions

	require.NotNil(t, liq.Settlement)
	assert.Equal(t, 30, liq.Settlement.DaysWorked)

	b := liq.EmployerCosts.Provisions
	assert.Equal(t, "135292", b.Severance.String())
	assert.Equal(t, "1353", b.SeveranceInterest.String())
	assert.Equal(t, "135292", b.Bonus.String())
	assert.Equal(t, "59313", b.Vacation.String())
	assert.Equal(t, "331250", b.Total.String())

	assert.False(t, b.Severance.Equal(monthly.Severance))
	assert.Equal(t, "331250", liq.NetPay.String())
	assert.Equal(t, "331250", liq.Settlement.NetToPay.String())
}

func TestComputeLiquidation_FullYear(t *testing.T) {
	p := payroll.Parameters2025()
	in := minimumWageContract()
	in.StartDate = str("2025-01-01")
	in.EndDate = str("2025-12-31")

	liq := payroll.ComputeLiquidation(in, p)
	b := liq.EmployerCosts.Provisions

	assert.Equal(t, 360, liq.SalaryData.DaysWorked)
	assert.Equal(t, "1623500", b.Severance.String())
	assert.Equal(t, "194820", b.SeveranceInterest.String())
	assert.Equal(t, "1623500", b.Bonus.String())
	assert.Equal(t, "711750", b.Vacation.String())
	require.NotNil(t, liq.Period)
	assert.Equal(t, "2025-01-01", liq.Period.Start)
}

func TestComputeLiquidation_DeductsLoansAndVoluntary(t *testing.T) {
	// GIVEN: A settlement with a pending loan and a voluntary contribution
	// THEN: Only those are discounted; health and pension are not

	p := payroll.Parameters2025()
	in := minimumWageContract()
	in.StartDate = str("2025-01-01")
	in.EndDate = str("2025-12-31")
	in.Loans = amount(300_000)
	in.OtherDeductions = amount(20_000)
	in.Deductions = &payroll.DeductionParameters{VoluntaryPension: amount(50_000)}

	liq := payroll.ComputeLiquidation(in, p)

	assert.True(t, liq.EmployeeDeductions.Health.IsZero())
	assert.True(t, liq.EmployeeDeductions.Pension.IsZero())
	assert.Equal(t, "370000", liq.EmployeeDeductions.Total.String())
	assert.Equal(t, "3783570", liq.NetPay.String())
}

func TestComputeLiquidation_MissingDatesUseThirtyDays(t *testing.T) {
	p := payroll.Parameters2025()

	liq := payroll.ComputeLiquidation(minimumWageContract(), p)

	assert.Equal(t, payroll.FallbackDays, liq.Settlement.DaysWorked)
	assert.Equal(t, "331250", liq.NetPay.String())
}

// =============================================================================
// PROPERTIES
// =============================================================================

func TestNetPayIdentity(t *testing.T) {
	// For all inputs: netPay = totalAccrued - totalEmployeeDeductions, and
	// the employer never pays less than the employee accrues.
	p := payroll.Parameters2025()

	property := func(base uint32, commissions, nonSalary, loans uint16, hours, risk uint8, withholding, exempt bool) bool {
		in := randomContract(base, commissions, nonSalary, loans, hours, risk, withholding, exempt)
		r := payroll.Compute(in, p)

		for _, view := range []payroll.PayrollFinancials{r.Monthly, r.Liquidation} {
			accrued := view.SalaryData.TotalAccrued
			if !view.NetPay.Equal(accrued.Sub(view.EmployeeDeductions.Total)) {
				return false
			}
			if view.EmployerCosts.Total.LessThan(accrued) {
				return false
			}
		}
		return r.Liquidation.NetPay.Equal(r.Liquidation.Settlement.NetToPay)
	}
	require.NoError(t, quick.Check(property, &quick.Config{MaxCount: 500}))
}

func TestDeterminism(t *testing.T) {
	p := payroll.Parameters2025()

	property := func(base uint32, commissions, nonSalary, loans uint16, hours, risk uint8, withholding, exempt bool) bool {
		in := randomContract(base, commissions, nonSalary, loans, hours, risk, withholding, exempt)

		first, err := json.Marshal(payroll.Compute(in, p))
		if err != nil {
			return false
		}
		second, err := json.Marshal(payroll.Compute(in, payroll.Parameters2025()))
		if err != nil {
			return false
		}
		return string(first) == string(second)
	}
	require.NoError(t, quick.Check(property, &quick.Config{MaxCount: 200}))
}

func TestCompute_MatchesSeparateViews(t *testing.T) {
	p := payroll.Parameters2025()
	in := randomContract(7_500_000, 1200, 800, 300, 12, 3, true, false)

	r := payroll.Compute(in, p)

	assert.Equal(t, payroll.ComputeMonthlyPayroll(in, p), r.Monthly)
	assert.Equal(t, payroll.ComputeLiquidation(in, p), r.Liquidation)
}

func TestCompute_PanicsOnInvalidTable(t *testing.T) {
	p := payroll.Parameters2025()
	p.WithholdingTable = generic.BracketTable{}

	assert.Panics(t, func() { payroll.ComputeMonthlyPayroll(minimumWageContract(), p) })
}
