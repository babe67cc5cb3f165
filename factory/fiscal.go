/*
Package factory provides JSON to Go fiscal table conversion.

PURPOSE:
  Converts JSON fiscal parameter definitions into payroll.FiscalParameters.
  A new fiscal year (new minimum wage, new UVT, a reformed withholding
  table) is loaded without code changes: payroll staff edit JSON, the
  factory builds and validates the table.

JSON SCHEMA:
  {
    "year": 2026,
    "base_year": 2025,
    "minimum_wage": "1500000",
    "transport_subsidy": "210000",
    "uvt": "52000",
    "risk_class_rates": {"I": "0.522", "V": "6.96"},
    "withholding_table": [
      {"lower": "0", "rate": "0"},
      {"lower": "95", "rate": "19"},
      {"lower": "150", "rate": "28", "fixed": "10"}
    ]
  }

  Rates are percentages ("8.5" is 8.5%). Bracket lower bounds are in UVT
  (withholding) or minimum-wage multiples (solidarity). When base_year is
  set, every field missing from the document is inherited from that year.

USAGE:
  f := NewFiscalFactory(payroll.DefaultRegistry())
  params, err := f.ParseFiscal(data)

SEE ALSO:
  - payroll/fiscal.go: FiscalParameters definition and presets
  - store/sqlite/sqlite.go: Stores FiscalJSON documents by year
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// FiscalJSON is the JSON representation of a fiscal parameter table.
type FiscalJSON struct {
	Year     int `json:"year"`
	BaseYear int `json:"base_year,omitempty"`

	MinimumWage      decimal.Decimal `json:"minimum_wage"`
	TransportSubsidy decimal.Decimal `json:"transport_subsidy"`
	UVT              decimal.Decimal `json:"uvt"`
	HourlyDivisor    decimal.Decimal `json:"hourly_divisor"`

	OvertimeMultipliers map[string]decimal.Decimal `json:"overtime_multipliers"`
	RiskClassRates      map[string]decimal.Decimal `json:"risk_class_rates"` // percent

	SolidarityTable  []BracketJSON `json:"solidarity_table"`
	WithholdingTable []BracketJSON `json:"withholding_table"`

	Contributions ContributionsJSON `json:"contributions"`
	Provisions    ProvisionsJSON    `json:"provisions"`
	Caps          CapsJSON          `json:"caps"`

	IBCFloorMultiple           decimal.Decimal `json:"ibc_floor_multiple"`
	IBCCeilingMultiple         decimal.Decimal `json:"ibc_ceiling_multiple"`
	NonSalaryCapPercent        decimal.Decimal `json:"non_salary_cap_percent"`
	ExemptionThresholdMultiple decimal.Decimal `json:"exemption_threshold_multiple"`
}

// BracketJSON is one bracket row. Rate is a percentage.
type BracketJSON struct {
	Lower decimal.Decimal `json:"lower"`
	Rate  decimal.Decimal `json:"rate"`
	Fixed decimal.Decimal `json:"fixed"`
}

// ContributionsJSON holds percentages.
type ContributionsJSON struct {
	EmployeeHealth   decimal.Decimal `json:"employee_health"`
	EmployeePension  decimal.Decimal `json:"employee_pension"`
	EmployerHealth   decimal.Decimal `json:"employer_health"`
	EmployerPension  decimal.Decimal `json:"employer_pension"`
	TrainingLevy     decimal.Decimal `json:"training_levy"`
	WelfareLevy      decimal.Decimal `json:"welfare_levy"`
	CompensationFund decimal.Decimal `json:"compensation_fund"`
}

// ProvisionsJSON holds percentages.
type ProvisionsJSON struct {
	Severance         decimal.Decimal `json:"severance"`
	SeveranceInterest decimal.Decimal `json:"severance_interest"`
	Bonus             decimal.Decimal `json:"bonus"`
	Vacation          decimal.Decimal `json:"vacation"`
}

// CapsJSON holds UVT ceilings and percentages.
type CapsJSON struct {
	HousingInterestMonthlyUVT decimal.Decimal `json:"housing_interest_monthly_uvt"`
	PrepaidMedicineMonthlyUVT decimal.Decimal `json:"prepaid_medicine_monthly_uvt"`
	DependentsMonthlyUVT      decimal.Decimal `json:"dependents_monthly_uvt"`
	DependentsPercent         decimal.Decimal `json:"dependents_percent"`
	ExemptSavingsMonthlyUVT   decimal.Decimal `json:"exempt_savings_monthly_uvt"`
	LaborExemptionPercent     decimal.Decimal `json:"labor_exemption_percent"`
	LaborExemptionAnnualUVT   decimal.Decimal `json:"labor_exemption_annual_uvt"`
	BenefitsAnnualUVT         decimal.Decimal `json:"benefits_annual_uvt"`
	BenefitsIncomePercent     decimal.Decimal `json:"benefits_income_percent"`
}

// =============================================================================
// FISCAL FACTORY
// =============================================================================

// FiscalFactory converts JSON fiscal tables to Go structs.
type FiscalFactory struct {
	// Registry resolves base_year. May be nil when inheritance is not used.
	Registry *payroll.FiscalRegistry
}

// NewFiscalFactory creates a factory that inherits from registry.
func NewFiscalFactory(registry *payroll.FiscalRegistry) *FiscalFactory {
	return &FiscalFactory{Registry: registry}
}

// ParseFiscal parses and validates a JSON fiscal table.
func (f *FiscalFactory) ParseFiscal(data []byte) (*payroll.FiscalParameters, error) {
	var head struct {
		BaseYear int `json:"base_year"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: failed to parse fiscal JSON: %v", generic.ErrInvalidInput, err)
	}

	var fj FiscalJSON
	if head.BaseYear != 0 {
		if f.Registry == nil {
			return nil, fmt.Errorf("%w: base_year %d without a registry", generic.ErrInvalidInput, head.BaseYear)
		}
		base, err := f.Registry.For(head.BaseYear)
		if err != nil {
			return nil, err
		}
		fj = f.ToJSON(base)
	}
	if err := json.Unmarshal(data, &fj); err != nil {
		return nil, fmt.Errorf("%w: failed to parse fiscal JSON: %v", generic.ErrInvalidInput, err)
	}
	return f.FromJSON(fj)
}

// FromJSON converts FiscalJSON to a validated FiscalParameters.
func (f *FiscalFactory) FromJSON(fj FiscalJSON) (*payroll.FiscalParameters, error) {
	if fj.Year <= 0 {
		return nil, fmt.Errorf("%w: year is required", generic.ErrInvalidInput)
	}

	p := &payroll.FiscalParameters{
		Year:                fj.Year,
		MinimumWage:         fj.MinimumWage,
		TransportSubsidy:    fj.TransportSubsidy,
		UVT:                 fj.UVT,
		HourlyDivisor:       fj.HourlyDivisor,
		OvertimeMultipliers: make(map[payroll.OvertimeCategory]decimal.Decimal, len(fj.OvertimeMultipliers)),
		RiskClassRates:      make(map[payroll.RiskClass]decimal.Decimal, len(fj.RiskClassRates)),
		SolidarityTable:     parseBrackets(fj.SolidarityTable),
		WithholdingTable:    parseBrackets(fj.WithholdingTable),
		Contributions: payroll.ContributionRates{
			EmployeeHealth:   fraction(fj.Contributions.EmployeeHealth),
			EmployeePension:  fraction(fj.Contributions.EmployeePension),
			EmployerHealth:   fraction(fj.Contributions.EmployerHealth),
			EmployerPension:  fraction(fj.Contributions.EmployerPension),
			TrainingLevy:     fraction(fj.Contributions.TrainingLevy),
			WelfareLevy:      fraction(fj.Contributions.WelfareLevy),
			CompensationFund: fraction(fj.Contributions.CompensationFund),
		},
		Provisions: payroll.ProvisionRates{
			Severance:         fraction(fj.Provisions.Severance),
			SeveranceInterest: fraction(fj.Provisions.SeveranceInterest),
			Bonus:             fraction(fj.Provisions.Bonus),
			Vacation:          fraction(fj.Provisions.Vacation),
		},
		Caps: payroll.DeductionCaps{
			HousingInterestMonthlyUVT: fj.Caps.HousingInterestMonthlyUVT,
			PrepaidMedicineMonthlyUVT: fj.Caps.PrepaidMedicineMonthlyUVT,
			DependentsMonthlyUVT:      fj.Caps.DependentsMonthlyUVT,
			DependentsRate:            fraction(fj.Caps.DependentsPercent),
			ExemptSavingsMonthlyUVT:   fj.Caps.ExemptSavingsMonthlyUVT,
			LaborExemptionRate:        fraction(fj.Caps.LaborExemptionPercent),
			LaborExemptionAnnualUVT:   fj.Caps.LaborExemptionAnnualUVT,
			BenefitsAnnualUVT:         fj.Caps.BenefitsAnnualUVT,
			BenefitsIncomeRate:        fraction(fj.Caps.BenefitsIncomePercent),
		},
		IBCFloorMultiple:           fj.IBCFloorMultiple,
		IBCCeilingMultiple:         fj.IBCCeilingMultiple,
		NonSalaryCapRate:           fraction(fj.NonSalaryCapPercent),
		ExemptionThresholdMultiple: fj.ExemptionThresholdMultiple,
	}

	for name, m := range fj.OvertimeMultipliers {
		cat, ok := parseOvertimeCategory(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown overtime category %q", generic.ErrInvalidInput, name)
		}
		p.OvertimeMultipliers[cat] = m
	}

	for name, rate := range fj.RiskClassRates {
		class, ok := parseRiskKey(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown risk class %q", generic.ErrInvalidInput, name)
		}
		p.RiskClassRates[class] = fraction(rate)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ToJSON converts FiscalParameters to FiscalJSON.
func (f *FiscalFactory) ToJSON(p *payroll.FiscalParameters) FiscalJSON {
	fj := FiscalJSON{
		Year:                p.Year,
		MinimumWage:         p.MinimumWage,
		TransportSubsidy:    p.TransportSubsidy,
		UVT:                 p.UVT,
		HourlyDivisor:       p.HourlyDivisor,
		OvertimeMultipliers: make(map[string]decimal.Decimal, len(p.OvertimeMultipliers)),
		RiskClassRates:      make(map[string]decimal.Decimal, len(p.RiskClassRates)),
		SolidarityTable:     formatBrackets(p.SolidarityTable),
		WithholdingTable:    formatBrackets(p.WithholdingTable),
		Contributions: ContributionsJSON{
			EmployeeHealth:   percent(p.Contributions.EmployeeHealth),
			EmployeePension:  percent(p.Contributions.EmployeePension),
			EmployerHealth:   percent(p.Contributions.EmployerHealth),
			EmployerPension:  percent(p.Contributions.EmployerPension),
			TrainingLevy:     percent(p.Contributions.TrainingLevy),
			WelfareLevy:      percent(p.Contributions.WelfareLevy),
			CompensationFund: percent(p.Contributions.CompensationFund),
		},
		Provisions: ProvisionsJSON{
			Severance:         percent(p.Provisions.Severance),
			SeveranceInterest: percent(p.Provisions.SeveranceInterest),
			Bonus:             percent(p.Provisions.Bonus),
			Vacation:          percent(p.Provisions.Vacation),
		},
		Caps: CapsJSON{
			HousingInterestMonthlyUVT: p.Caps.HousingInterestMonthlyUVT,
			PrepaidMedicineMonthlyUVT: p.Caps.PrepaidMedicineMonthlyUVT,
			DependentsMonthlyUVT:      p.Caps.DependentsMonthlyUVT,
			DependentsPercent:         percent(p.Caps.DependentsRate),
			ExemptSavingsMonthlyUVT:   p.Caps.ExemptSavingsMonthlyUVT,
			LaborExemptionPercent:     percent(p.Caps.LaborExemptionRate),
			LaborExemptionAnnualUVT:   p.Caps.LaborExemptionAnnualUVT,
			BenefitsAnnualUVT:         p.Caps.BenefitsAnnualUVT,
			BenefitsIncomePercent:     percent(p.Caps.BenefitsIncomeRate),
		},
		IBCFloorMultiple:           p.IBCFloorMultiple,
		IBCCeilingMultiple:         p.IBCCeilingMultiple,
		NonSalaryCapPercent:        percent(p.NonSalaryCapRate),
		ExemptionThresholdMultiple: p.ExemptionThresholdMultiple,
	}
	for cat, m := range p.OvertimeMultipliers {
		fj.OvertimeMultipliers[string(cat)] = m
	}
	for class, rate := range p.RiskClassRates {
		fj.RiskClassRates[class.String()] = percent(rate)
	}
	return fj
}

// =============================================================================
// HELPERS
// =============================================================================

var hundred = decimal.NewFromInt(100)

func fraction(pct decimal.Decimal) decimal.Decimal { return pct.Div(hundred) }

func percent(rate decimal.Decimal) decimal.Decimal { return rate.Mul(hundred) }

func parseBrackets(rows []BracketJSON) generic.BracketTable {
	table := make(generic.BracketTable, 0, len(rows))
	for _, r := range rows {
		table = append(table, generic.Bracket{Lower: r.Lower, Rate: fraction(r.Rate), Fixed: r.Fixed})
	}
	return table
}

func formatBrackets(table generic.BracketTable) []BracketJSON {
	rows := make([]BracketJSON, 0, len(table))
	for _, b := range table {
		rows = append(rows, BracketJSON{Lower: b.Lower, Rate: percent(b.Rate), Fixed: b.Fixed})
	}
	return rows
}

func parseOvertimeCategory(name string) (payroll.OvertimeCategory, bool) {
	for _, cat := range payroll.OvertimeCategories {
		if string(cat) == name {
			return cat, true
		}
	}
	return "", false
}

// parseRiskKey is strict where payroll.ParseRiskClass is lenient: a table
// keyed by an unknown class is a typo, not a missing value.
func parseRiskKey(name string) (payroll.RiskClass, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for r := payroll.RiskClassI; r <= payroll.RiskClassV; r++ {
		if r.String() == name || strconv.Itoa(int(r)) == name {
			return r, true
		}
	}
	return 0, false
}
