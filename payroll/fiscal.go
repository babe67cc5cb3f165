/*
fiscal.go - Versioned fiscal parameter tables

PURPOSE:
  Every constant a payroll rule depends on lives in a FiscalParameters
  value: minimum wage, transport subsidy, tax unit (UVT), contribution and
  provision rates, risk class rates, and the solidarity and withholding
  bracket tables. A table is passed into every calculation, so several
  fiscal years can be computed side by side.

INVARIANTS (checked by Validate):
  - All amounts and rates are non-negative
  - Minimum wage, UVT and the hourly divisor are positive
  - Both bracket tables start at 0 and strictly increase
  - Every risk class I-V has a rate

PRESETS:
  Parameters2024 and Parameters2025 carry the Colombian values for those
  years. Collaborators may load other years through the factory package.

SEE ALSO:
  - factory/fiscal.go: JSON representation of these tables
  - generic/bracket.go: BracketTable lookup
*/
package payroll

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// FISCAL PARAMETERS
// =============================================================================

// ContributionRates are fractions of the contribution base or payroll.
type ContributionRates struct {
	EmployeeHealth   decimal.Decimal
	EmployeePension  decimal.Decimal
	EmployerHealth   decimal.Decimal
	EmployerPension  decimal.Decimal
	TrainingLevy     decimal.Decimal
	WelfareLevy      decimal.Decimal
	CompensationFund decimal.Decimal
}

// ProvisionRates drive the monthly accrual approximation.
type ProvisionRates struct {
	Severance         decimal.Decimal
	SeveranceInterest decimal.Decimal
	Bonus             decimal.Decimal
	Vacation          decimal.Decimal
}

// DeductionCaps bound each withholding depuration stage. Amounts are in UVT.
type DeductionCaps struct {
	HousingInterestMonthlyUVT decimal.Decimal
	PrepaidMedicineMonthlyUVT decimal.Decimal
	DependentsMonthlyUVT      decimal.Decimal
	DependentsRate            decimal.Decimal
	ExemptSavingsMonthlyUVT   decimal.Decimal
	LaborExemptionRate        decimal.Decimal
	LaborExemptionAnnualUVT   decimal.Decimal
	BenefitsAnnualUVT         decimal.Decimal
	BenefitsIncomeRate        decimal.Decimal
}

// FiscalParameters is read-only once built; share it freely between calls.
type FiscalParameters struct {
	Year             int
	MinimumWage      decimal.Decimal
	TransportSubsidy decimal.Decimal
	UVT              decimal.Decimal

	// HourlyDivisor converts a monthly salary into an hourly rate.
	HourlyDivisor       decimal.Decimal
	OvertimeMultipliers map[OvertimeCategory]decimal.Decimal

	RiskClassRates map[RiskClass]decimal.Decimal

	// SolidarityTable lower bounds are minimum-wage multiples.
	SolidarityTable generic.BracketTable

	// WithholdingTable lower bounds and fixed amounts are in UVT.
	WithholdingTable generic.BracketTable

	Contributions ContributionRates
	Provisions    ProvisionRates
	Caps          DeductionCaps

	// IBC bounds, in minimum-wage multiples.
	IBCFloorMultiple   decimal.Decimal
	IBCCeilingMultiple decimal.Decimal

	// NonSalaryCapRate is the share of total remuneration that non-salary
	// benefits may take before the excess re-enters the contribution base.
	NonSalaryCapRate decimal.Decimal

	// ExemptionThresholdMultiple: employers exempt from payroll levies only
	// qualify below this many minimum wages.
	ExemptionThresholdMultiple decimal.Decimal
}

// ParameterError reports a broken fiscal table.
type ParameterError struct {
	Year   int
	Field  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("fiscal parameters %d: %s: %s", e.Year, e.Field, e.Reason)
}

func (e *ParameterError) Unwrap() error { return generic.ErrInvalidParameters }

// Validate checks the table invariants. A table that fails validation is a
// defect in the caller, not a business condition.
func (p *FiscalParameters) Validate() error {
	if p == nil {
		return &ParameterError{Field: "table", Reason: "missing"}
	}
	positive := map[string]decimal.Decimal{
		"minimum_wage":   p.MinimumWage,
		"uvt":            p.UVT,
		"hourly_divisor": p.HourlyDivisor,
	}
	for _, name := range sortedKeys(positive) {
		if !positive[name].IsPositive() {
			return &ParameterError{Year: p.Year, Field: name, Reason: "must be positive"}
		}
	}

	nonNegative := map[string]decimal.Decimal{
		"transport_subsidy":            p.TransportSubsidy,
		"employee_health":              p.Contributions.EmployeeHealth,
		"employee_pension":             p.Contributions.EmployeePension,
		"employer_health":              p.Contributions.EmployerHealth,
		"employer_pension":             p.Contributions.EmployerPension,
		"training_levy":                p.Contributions.TrainingLevy,
		"welfare_levy":                 p.Contributions.WelfareLevy,
		"compensation_fund":            p.Contributions.CompensationFund,
		"severance":                    p.Provisions.Severance,
		"severance_interest":           p.Provisions.SeveranceInterest,
		"bonus":                        p.Provisions.Bonus,
		"vacation":                     p.Provisions.Vacation,
		"housing_interest_cap":         p.Caps.HousingInterestMonthlyUVT,
		"prepaid_medicine_cap":         p.Caps.PrepaidMedicineMonthlyUVT,
		"dependents_cap":               p.Caps.DependentsMonthlyUVT,
		"dependents_rate":              p.Caps.DependentsRate,
		"exempt_savings_cap":           p.Caps.ExemptSavingsMonthlyUVT,
		"labor_exemption_rate":         p.Caps.LaborExemptionRate,
		"labor_exemption_cap":          p.Caps.LaborExemptionAnnualUVT,
		"benefits_cap":                 p.Caps.BenefitsAnnualUVT,
		"benefits_income_rate":         p.Caps.BenefitsIncomeRate,
		"ibc_floor_multiple":           p.IBCFloorMultiple,
		"ibc_ceiling_multiple":         p.IBCCeilingMultiple,
		"non_salary_cap_rate":          p.NonSalaryCapRate,
		"exemption_threshold_multiple": p.ExemptionThresholdMultiple,
	}
	for _, name := range sortedKeys(nonNegative) {
		if nonNegative[name].IsNegative() {
			return &ParameterError{Year: p.Year, Field: name, Reason: "must not be negative"}
		}
	}
	if p.IBCCeilingMultiple.LessThan(p.IBCFloorMultiple) {
		return &ParameterError{Year: p.Year, Field: "ibc_ceiling_multiple", Reason: "below floor"}
	}

	for _, cat := range OvertimeCategories {
		m, ok := p.OvertimeMultipliers[cat]
		if !ok || m.IsNegative() {
			return &ParameterError{Year: p.Year, Field: "overtime_multipliers", Reason: fmt.Sprintf("missing or negative %s", cat)}
		}
	}
	for r := RiskClassI; r <= RiskClassV; r++ {
		rate, ok := p.RiskClassRates[r]
		if !ok || rate.IsNegative() {
			return &ParameterError{Year: p.Year, Field: "risk_class_rates", Reason: fmt.Sprintf("missing or negative class %s", r)}
		}
	}

	if err := p.SolidarityTable.Validate(); err != nil {
		return named(err, "solidarity table")
	}
	if err := p.WithholdingTable.Validate(); err != nil {
		return named(err, "withholding table")
	}
	return nil
}

func (p *FiscalParameters) mustValidate() {
	if err := p.Validate(); err != nil {
		panic(err)
	}
}

// RiskRate returns the rate for r, falling back to class I.
func (p *FiscalParameters) RiskRate(r RiskClass) decimal.Decimal {
	if rate, ok := p.RiskClassRates[r]; ok {
		return rate
	}
	return p.RiskClassRates[RiskClassI]
}

// MonthlyUVT converts an annual UVT limit into a monthly currency ceiling.
func (p *FiscalParameters) MonthlyUVT(annualUVT decimal.Decimal) decimal.Decimal {
	return annualUVT.Mul(p.UVT).Div(twelve)
}

// UVTAmount converts a UVT quantity into currency.
func (p *FiscalParameters) UVTAmount(uvt decimal.Decimal) decimal.Decimal {
	return uvt.Mul(p.UVT)
}

func named(err error, table string) error {
	var bte *generic.BracketTableError
	if errors.As(err, &bte) {
		cp := *bte
		cp.Table = table
		return &cp
	}
	return err
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var twelve = decimal.NewFromInt(12)

// =============================================================================
// PRESETS
// =============================================================================

func colombianBase(year int, minWage, subsidy, uvt int64) *FiscalParameters {
	pct := generic.Pct
	return &FiscalParameters{
		Year:             year,
		MinimumWage:      decimal.NewFromInt(minWage),
		TransportSubsidy: decimal.NewFromInt(subsidy),
		UVT:              decimal.NewFromInt(uvt),
		HourlyDivisor:    decimal.NewFromInt(240),
		OvertimeMultipliers: map[OvertimeCategory]decimal.Decimal{
			OvertimeDay:          generic.MustParseDecimal("1.25"),
			OvertimeNight:        generic.MustParseDecimal("1.75"),
			NightPremium:         generic.MustParseDecimal("0.35"),
			HolidayWork:          generic.MustParseDecimal("1.80"),
			HolidayOvertimeDay:   generic.MustParseDecimal("2.00"),
			HolidayOvertimeNight: generic.MustParseDecimal("2.50"),
		},
		RiskClassRates: map[RiskClass]decimal.Decimal{
			RiskClassI:   pct("0.522"),
			RiskClassII:  pct("1.044"),
			RiskClassIII: pct("2.436"),
			RiskClassIV:  pct("4.350"),
			RiskClassV:   pct("6.960"),
		},
		SolidarityTable: generic.BracketTable{
			{Lower: generic.Dec(0), Rate: decimal.Zero},
			{Lower: generic.Dec(4), Rate: pct("1.0")},
			{Lower: generic.Dec(16), Rate: pct("1.2")},
			{Lower: generic.Dec(17), Rate: pct("1.4")},
			{Lower: generic.Dec(18), Rate: pct("1.6")},
			{Lower: generic.Dec(19), Rate: pct("1.8")},
			{Lower: generic.Dec(20), Rate: pct("2.0")},
		},
		WithholdingTable: generic.BracketTable{
			{Lower: generic.Dec(0), Rate: decimal.Zero, Fixed: decimal.Zero},
			{Lower: generic.Dec(95), Rate: pct("19"), Fixed: decimal.Zero},
			{Lower: generic.Dec(150), Rate: pct("28"), Fixed: generic.Dec(10)},
			{Lower: generic.Dec(360), Rate: pct("33"), Fixed: generic.Dec(69)},
			{Lower: generic.Dec(640), Rate: pct("35"), Fixed: generic.Dec(162)},
			{Lower: generic.Dec(945), Rate: pct("37"), Fixed: generic.Dec(268)},
			{Lower: generic.Dec(2300), Rate: pct("39"), Fixed: generic.Dec(770)},
		},
		Contributions: ContributionRates{
			EmployeeHealth:   pct("4"),
			EmployeePension:  pct("4"),
			EmployerHealth:   pct("8.5"),
			EmployerPension:  pct("12"),
			TrainingLevy:     pct("2"),
			WelfareLevy:      pct("3"),
			CompensationFund: pct("4"),
		},
		Provisions: ProvisionRates{
			Severance:         pct("8.33"),
			SeveranceInterest: pct("12"),
			Bonus:             pct("8.33"),
			Vacation:          pct("4.17"),
		},
		Caps: DeductionCaps{
			HousingInterestMonthlyUVT: generic.Dec(100),
			PrepaidMedicineMonthlyUVT: generic.Dec(16),
			DependentsMonthlyUVT:      generic.Dec(32),
			DependentsRate:            pct("10"),
			ExemptSavingsMonthlyUVT:   generic.Dec(316),
			LaborExemptionRate:        pct("25"),
			LaborExemptionAnnualUVT:   generic.Dec(790),
			BenefitsAnnualUVT:         generic.Dec(1340),
			BenefitsIncomeRate:        pct("40"),
		},
		IBCFloorMultiple:           generic.Dec(1),
		IBCCeilingMultiple:         generic.Dec(25),
		NonSalaryCapRate:           pct("40"),
		ExemptionThresholdMultiple: generic.Dec(10),
	}
}

// Parameters2024 returns the 2024 table.
func Parameters2024() *FiscalParameters {
	return colombianBase(2024, 1_300_000, 162_000, 47_065)
}

// Parameters2025 returns the 2025 table.
func Parameters2025() *FiscalParameters {
	return colombianBase(2025, 1_423_500, 200_000, 49_799)
}

// =============================================================================
// REGISTRY - Several fiscal years side by side
// =============================================================================

// FiscalRegistry maps years to validated parameter tables.
type FiscalRegistry struct {
	mu    sync.RWMutex
	years map[int]*FiscalParameters
}

func NewFiscalRegistry() *FiscalRegistry {
	return &FiscalRegistry{years: make(map[int]*FiscalParameters)}
}

// DefaultRegistry holds the built-in presets.
func DefaultRegistry() *FiscalRegistry {
	r := NewFiscalRegistry()
	for _, p := range []*FiscalParameters{Parameters2024(), Parameters2025()} {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// Register validates p and makes it the table for p.Year.
func (r *FiscalRegistry) Register(p *FiscalParameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.years[p.Year] = p
	return nil
}

// For returns the table for year.
func (r *FiscalRegistry) For(year int) (*FiscalParameters, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.years[year]
	if !ok {
		return nil, fmt.Errorf("%w: %d", generic.ErrFiscalYearNotFound, year)
	}
	return p, nil
}

// Years returns registered years in ascending order.
func (r *FiscalRegistry) Years() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	years := make([]int, 0, len(r.years))
	for y := range r.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
