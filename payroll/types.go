// Package payroll implements the payroll and severance calculation engine.
// It converts one employment contract into a monthly payroll breakdown and a
// days-driven liquidation, under a fiscal parameter table supplied per call.
// Every function here is pure: no I/O, no globals, no logging.
package payroll

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONTRACT TYPE
// =============================================================================

type ContractType string

const (
	ContractIndefinite     ContractType = "indefinite"
	ContractFixedTerm      ContractType = "fixed_term"
	ContractProject        ContractType = "project"
	ContractApprenticeship ContractType = "apprenticeship"
)

// ParseContractType maps free text to a contract type; unknown -> indefinite.
func ParseContractType(s string) ContractType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed_term", "fixed-term", "fixed", "termino_fijo":
		return ContractFixedTerm
	case "project", "obra_labor", "obra":
		return ContractProject
	case "apprenticeship", "aprendizaje", "apprentice":
		return ContractApprenticeship
	default:
		return ContractIndefinite
	}
}

// =============================================================================
// RISK CLASS
// =============================================================================

// RiskClass is the five-tier occupational hazard classification (I-V).
type RiskClass int

const (
	RiskClassI RiskClass = iota + 1
	RiskClassII
	RiskClassIII
	RiskClassIV
	RiskClassV
)

var riskNumerals = [...]string{"", "I", "II", "III", "IV", "V"}

func (r RiskClass) String() string {
	if r.Valid() {
		return riskNumerals[r]
	}
	return "unknown"
}

// Valid reports whether r is one of the five declared classes.
func (r RiskClass) Valid() bool { return r >= RiskClassI && r <= RiskClassV }

// ParseRiskClass accepts roman ("III") or arabic ("3") numerals.
// Unknown or missing values fall back to class I.
func ParseRiskClass(s string) RiskClass {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i := RiskClassI; i <= RiskClassV; i++ {
		if riskNumerals[i] == s {
			return i
		}
	}
	if n, err := strconv.Atoi(s); err == nil && RiskClass(n).Valid() {
		return RiskClass(n)
	}
	return RiskClassI
}

// =============================================================================
// OVERTIME CATEGORIES
// =============================================================================

type OvertimeCategory string

const (
	OvertimeDay          OvertimeCategory = "overtime_day"
	OvertimeNight        OvertimeCategory = "overtime_night"
	NightPremium         OvertimeCategory = "night_premium"
	HolidayWork          OvertimeCategory = "holiday"
	HolidayOvertimeDay   OvertimeCategory = "holiday_overtime_day"
	HolidayOvertimeNight OvertimeCategory = "holiday_overtime_night"
)

// OvertimeCategories lists every category in reporting order.
var OvertimeCategories = []OvertimeCategory{
	OvertimeDay,
	OvertimeNight,
	NightPremium,
	HolidayWork,
	HolidayOvertimeDay,
	HolidayOvertimeNight,
}

// =============================================================================
// CONTRACT INPUT - Raw, possibly incomplete
// =============================================================================

// Employee identity fields are opaque; the engine copies them to the result.
type Employee struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name,omitempty"`
	DocumentType   string `json:"document_type,omitempty"`
	DocumentNumber string `json:"document_number,omitempty"`
	Position       string `json:"position,omitempty"`
}

// DeductionParameters feed the withholding depuration.
type DeductionParameters struct {
	HousingInterest  *decimal.Decimal `json:"housing_interest,omitempty"`
	PrepaidMedicine  *decimal.Decimal `json:"prepaid_medicine,omitempty"`
	VoluntaryPension *decimal.Decimal `json:"voluntary_pension,omitempty"`
	AFCSavings       *decimal.Decimal `json:"afc_savings,omitempty"`
	HasDependents    bool             `json:"has_dependents,omitempty"`
}

// ContractInput is what a collaborator hands to the engine. Optional fields
// are pointers or nil maps; Normalize resolves every default exactly once.
type ContractInput struct {
	Employee     Employee     `json:"employee"`
	ContractType ContractType `json:"contract_type,omitempty"`

	// BaseSalary nil means the fiscal minimum wage.
	BaseSalary *decimal.Decimal `json:"base_salary,omitempty"`

	// RiskClass zero means class I.
	RiskClass RiskClass `json:"risk_class,omitempty"`

	IncludeTransportSubsidy bool `json:"include_transport_subsidy,omitempty"`
	PayrollTaxExempt        bool `json:"payroll_tax_exempt,omitempty"`
	EnableWithholding       bool `json:"enable_withholding,omitempty"`

	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`

	OvertimeHours map[OvertimeCategory]decimal.Decimal `json:"overtime_hours,omitempty"`

	Commissions      *decimal.Decimal `json:"commissions,omitempty"`
	SalaryBonuses    *decimal.Decimal `json:"salary_bonuses,omitempty"`
	NonSalaryBonuses *decimal.Decimal `json:"non_salary_bonuses,omitempty"`

	Loans           *decimal.Decimal `json:"loans,omitempty"`
	OtherDeductions *decimal.Decimal `json:"other_deductions,omitempty"`

	Deductions *DeductionParameters `json:"deductions,omitempty"`
}

// MarshalText renders the class as a roman numeral.
func (r RiskClass) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText accepts anything ParseRiskClass does.
func (r *RiskClass) UnmarshalText(b []byte) error {
	*r = ParseRiskClass(string(b))
	return nil
}

// UnmarshalJSON accepts a string or a bare number.
func (r *RiskClass) UnmarshalJSON(b []byte) error {
	*r = ParseRiskClass(strings.Trim(string(b), `"`))
	return nil
}
