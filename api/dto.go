/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Requests carry
  validation tags: the API is the collaborator that rejects raw input the
  engine would otherwise absorb with fallbacks (a negative salary, a
  malformed date).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Calculation:
    CalculationRequest, ContractRequest, DeductionsRequest,
    CalculationResponse, SummaryResponse, ViewDTO, DisplayDTO

  Fiscal parameters:
    FiscalDTO (wraps factory.FiscalJSON)

  Audit log:
    RunDTO

SEE ALSO:
  - handlers.go: Uses these types
  - validation.go: Validator setup and custom tags
  - factory/fiscal.go: FiscalJSON type
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// CALCULATION REQUESTS
// =============================================================================

// CalculationRequest is the body of every /api/payroll endpoint.
type CalculationRequest struct {
	// FiscalYear zero means the server's default year.
	FiscalYear int             `json:"fiscal_year" validate:"omitempty,gte=1900,lte=2200"`
	Contract   ContractRequest `json:"contract"`
}

// ContractRequest mirrors payroll.ContractInput with validation.
type ContractRequest struct {
	Employee     payroll.Employee  `json:"employee"`
	ContractType string            `json:"contract_type" validate:"omitempty,oneof=indefinite fixed_term project apprenticeship"`
	BaseSalary   *decimal.Decimal  `json:"base_salary" validate:"omitempty,gte=0"`
	RiskClass    payroll.RiskClass `json:"risk_class"`

	IncludeTransportSubsidy bool `json:"include_transport_subsidy"`
	PayrollTaxExempt        bool `json:"payroll_tax_exempt"`
	EnableWithholding       bool `json:"enable_withholding"`

	StartDate *string `json:"start_date" validate:"omitempty,contractdate"`
	EndDate   *string `json:"end_date" validate:"omitempty,contractdate"`

	OvertimeHours map[payroll.OvertimeCategory]decimal.Decimal `json:"overtime_hours" validate:"omitempty,dive,keys,oneof=overtime_day overtime_night night_premium holiday holiday_overtime_day holiday_overtime_night,endkeys,gte=0,lte=720"`

	Commissions      *decimal.Decimal `json:"commissions" validate:"omitempty,gte=0"`
	SalaryBonuses    *decimal.Decimal `json:"salary_bonuses" validate:"omitempty,gte=0"`
	NonSalaryBonuses *decimal.Decimal `json:"non_salary_bonuses" validate:"omitempty,gte=0"`
	Loans            *decimal.Decimal `json:"loans" validate:"omitempty,gte=0"`
	OtherDeductions  *decimal.Decimal `json:"other_deductions" validate:"omitempty,gte=0"`

	Deductions *DeductionsRequest `json:"deductions"`
}

// DeductionsRequest mirrors payroll.DeductionParameters.
type DeductionsRequest struct {
	HousingInterest  *decimal.Decimal `json:"housing_interest" validate:"omitempty,gte=0"`
	PrepaidMedicine  *decimal.Decimal `json:"prepaid_medicine" validate:"omitempty,gte=0"`
	VoluntaryPension *decimal.Decimal `json:"voluntary_pension" validate:"omitempty,gte=0"`
	AFCSavings       *decimal.Decimal `json:"afc_savings" validate:"omitempty,gte=0"`
	HasDependents    bool             `json:"has_dependents"`
}

func (c ContractRequest) toInput() payroll.ContractInput {
	in := payroll.ContractInput{
		Employee:                c.Employee,
		ContractType:            payroll.ParseContractType(c.ContractType),
		BaseSalary:              c.BaseSalary,
		RiskClass:               c.RiskClass,
		IncludeTransportSubsidy: c.IncludeTransportSubsidy,
		PayrollTaxExempt:        c.PayrollTaxExempt,
		EnableWithholding:       c.EnableWithholding,
		StartDate:               c.StartDate,
		EndDate:                 c.EndDate,
		OvertimeHours:           c.OvertimeHours,
		Commissions:             c.Commissions,
		SalaryBonuses:           c.SalaryBonuses,
		NonSalaryBonuses:        c.NonSalaryBonuses,
		Loans:                   c.Loans,
		OtherDeductions:         c.OtherDeductions,
	}
	if d := c.Deductions; d != nil {
		in.Deductions = &payroll.DeductionParameters{
			HousingInterest:  d.HousingInterest,
			PrepaidMedicine:  d.PrepaidMedicine,
			VoluntaryPension: d.VoluntaryPension,
			AFCSavings:       d.AFCSavings,
			HasDependents:    d.HasDependents,
		}
	}
	return in
}

// runInput is what the audit log records as a run's input. The full
// parameter table is included so a run can be reproduced after the table
// for its year is replaced.
type runInput struct {
	FiscalYear int                   `json:"fiscal_year"`
	Contract   payroll.ContractInput `json:"contract"`
	Parameters factory.FiscalJSON    `json:"parameters"`
}

// =============================================================================
// CALCULATION RESPONSES
// =============================================================================

// DisplayDTO holds the headline figures formatted for people.
type DisplayDTO struct {
	TotalAccrued      string `json:"total_accrued"`
	TotalDeductions   string `json:"total_deductions"`
	NetPay            string `json:"net_pay"`
	TotalEmployerCost string `json:"total_employer_cost"`
}

// ViewDTO is one engine view plus its display strings.
type ViewDTO struct {
	Result  payroll.PayrollFinancials `json:"result"`
	Display DisplayDTO                `json:"display"`
}

// CalculationResponse answers /monthly and /liquidation.
type CalculationResponse struct {
	RunID    string `json:"run_id"`
	Replayed bool   `json:"replayed"`
	ViewDTO
}

// SummaryResponse answers /summary.
type SummaryResponse struct {
	RunID       string  `json:"run_id"`
	Replayed    bool    `json:"replayed"`
	Monthly     ViewDTO `json:"monthly"`
	Liquidation ViewDTO `json:"liquidation"`
}

// DayCountDTO answers /daycount.
type DayCountDTO struct {
	Days     int  `json:"days"`
	Fallback bool `json:"fallback"`
}

// HealthDTO answers /health.
type HealthDTO struct {
	Status            string `json:"status"`
	FiscalYears       []int  `json:"fiscal_years"`
	DefaultFiscalYear int    `json:"default_fiscal_year"`
}

// =============================================================================
// FISCAL PARAMETERS
// =============================================================================

// FiscalDTO represents a fiscal table in API responses.
type FiscalDTO struct {
	Year    int                `json:"year"`
	Source  string             `json:"source"` // preset, stored
	Version int                `json:"version,omitempty"`
	Config  factory.FiscalJSON `json:"config"`
}

// =============================================================================
// AUDIT LOG
// =============================================================================

// RunDTO represents a recorded calculation.
type RunDTO struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	FiscalYear     int             `json:"fiscal_year"`
	NetPay         decimal.Decimal `json:"net_pay"`
	IdempotencyKey string          `json:"idempotency_key"`
	CreatedAt      string          `json:"created_at"`
	Input          json.RawMessage `json:"input,omitempty"`
	Result         json.RawMessage `json:"result,omitempty"`
}

func toRunDTO(run generic.Run, full bool) RunDTO {
	dto := RunDTO{
		ID:             string(run.ID),
		Kind:           string(run.Kind),
		FiscalYear:     run.FiscalYear,
		NetPay:         run.NetPay,
		IdempotencyKey: run.IdempotencyKey,
		CreatedAt:      run.CreatedAt.Format(time.RFC3339),
	}
	if full {
		dto.Input = run.Input
		dto.Result = run.Result
	}
	return dto
}

// ErrorResponse is returned for all errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
