/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization and input validation, delegates to the engine, and
  records every calculation in the audit log.

ENDPOINTS:
  Engine:
    GET    /api/daycount                  30/360 day count between two dates
    POST   /api/payroll/monthly           Monthly payroll view
    POST   /api/payroll/liquidation       Days-driven settlement view
    POST   /api/payroll/summary           Both views

  Fiscal parameters:
    GET    /api/fiscal-parameters         List loaded years
    GET    /api/fiscal-parameters/{year}  One year's table
    POST   /api/fiscal-parameters         Create or replace a year from JSON

  Audit log:
    GET    /api/calculations              Recent runs (?limit=n)
    GET    /api/calculations/{id}         One run with input and result

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Ledger: Idempotent run recording on top of Store
  - Registry: Fiscal tables in force, by year
  - FiscalFactory: JSON to FiscalParameters conversion
  - Formatter: Currency strings for display

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Resolve the fiscal table and call the engine
  4. Record the run
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown fiscal year or run
  - 409: Conflict (duplicate idempotency key)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/format"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

const (
	maxBodyBytes    = 1 << 20
	defaultRunLimit = 50
	maxRunLimit     = 500
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Options configures a Handler.
type Options struct {
	DefaultFiscalYear int
	Locale            string
	CurrencyCode      string
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         *sqlite.Store
	Ledger        *generic.Ledger
	Registry      *payroll.FiscalRegistry
	FiscalFactory *factory.FiscalFactory
	Formatter     *format.Formatter
	Log           *zap.Logger

	DefaultFiscalYear int
}

// NewHandler creates a handler serving the built-in fiscal presets.
func NewHandler(store *sqlite.Store, log *zap.Logger, opts Options) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	registry := payroll.DefaultRegistry()
	return &Handler{
		Store:             store,
		Ledger:            generic.NewLedger(store),
		Registry:          registry,
		FiscalFactory:     factory.NewFiscalFactory(registry),
		Formatter:         format.NewFormatter(opts.Locale, opts.CurrencyCode),
		Log:               log,
		DefaultFiscalYear: opts.DefaultFiscalYear,
	}
}

// LoadFiscal registers every stored fiscal table, replacing presets for
// the same year. Invalid tables are skipped with a warning.
func (h *Handler) LoadFiscal(ctx context.Context) error {
	records, err := h.Store.ListFiscal(ctx)
	if err != nil {
		return err
	}

	for _, rec := range records {
		params, err := h.FiscalFactory.ParseFiscal([]byte(rec.ConfigJSON))
		if err == nil {
			err = h.Registry.Register(params)
		}
		if err != nil {
			h.Log.Warn("skipping stored fiscal table", zap.Int("year", rec.Year), zap.Error(err))
			continue
		}
		h.Log.Info("fiscal table loaded", zap.Int("year", rec.Year), zap.Int("version", rec.Version))
	}
	return nil
}

// =============================================================================
// HEALTH & DAY COUNT
// =============================================================================

// Health reports liveness and the fiscal years available.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, HealthDTO{
		Status:            "ok",
		FiscalYears:       h.Registry.Years(),
		DefaultFiscalYear: h.DefaultFiscalYear,
	})
}

// DayCount returns the 30/360 day count for ?start=&end=.
func (h *Handler) DayCount(w http.ResponseWriter, r *http.Request) {
	start := optionalQuery(r, "start")
	end := optionalQuery(r, "end")

	_, ok := generic.ParsePeriod(start, end)
	writeJSON(w, http.StatusOK, DayCountDTO{
		Days:     payroll.ComputeDayCount(start, end),
		Fallback: !ok,
	})
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// Monthly computes the monthly payroll view.
func (h *Handler) Monthly(w http.ResponseWriter, r *http.Request) {
	h.calculate(w, r, generic.RunMonthly)
}

// Liquidation computes the days-driven settlement.
func (h *Handler) Liquidation(w http.ResponseWriter, r *http.Request) {
	h.calculate(w, r, generic.RunLiquidation)
}

// Summary computes both views from one pass.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	h.calculate(w, r, generic.RunSummary)
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request, kind generic.RunKind) {
	ctx := r.Context()
	started := time.Now()

	var req CalculationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contract", err)
		return
	}

	year := req.FiscalYear
	if year == 0 {
		year = h.DefaultFiscalYear
	}
	params, err := h.Registry.For(year)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	in := req.Contract.toInput()
	var (
		result any
		netPay decimal.Decimal
	)
	switch kind {
	case generic.RunMonthly:
		view := payroll.ComputeMonthlyPayroll(in, params)
		result, netPay = view, view.NetPay
	case generic.RunLiquidation:
		view := payroll.ComputeLiquidation(in, params)
		result, netPay = view, view.NetPay
	default:
		both := payroll.Compute(in, params)
		result, netPay = both, both.Monthly.NetPay
	}

	recorded := runInput{
		FiscalYear: year,
		Contract:   in,
		Parameters: h.FiscalFactory.ToJSON(params),
	}
	run, created, err := h.Ledger.Record(ctx, kind, year, recorded, result, netPay)
	if err != nil {
		h.writeDomainError(w, r, fmt.Errorf("failed to record %s run: %w", kind, err))
		return
	}

	h.Log.Info("calculation served",
		zap.String("kind", string(kind)),
		zap.Int("fiscal_year", year),
		zap.String("run_id", string(run.ID)),
		zap.Bool("replayed", !created),
		zap.Duration("duration", time.Since(started)),
		zap.String("request_id", middleware.GetReqID(ctx)),
	)

	switch v := result.(type) {
	case payroll.PayrollFinancials:
		writeJSON(w, http.StatusOK, CalculationResponse{
			RunID:    string(run.ID),
			Replayed: !created,
			ViewDTO:  h.view(v),
		})
	case payroll.Result:
		writeJSON(w, http.StatusOK, SummaryResponse{
			RunID:       string(run.ID),
			Replayed:    !created,
			Monthly:     h.view(v.Monthly),
			Liquidation: h.view(v.Liquidation),
		})
	}
}

func (h *Handler) view(f payroll.PayrollFinancials) ViewDTO {
	return ViewDTO{
		Result: f,
		Display: DisplayDTO{
			TotalAccrued:      h.Formatter.Currency(f.SalaryData.TotalAccrued),
			TotalDeductions:   h.Formatter.Currency(f.EmployeeDeductions.Total),
			NetPay:            h.Formatter.Currency(f.NetPay),
			TotalEmployerCost: h.Formatter.Currency(f.EmployerCosts.Total),
		},
	}
}

// =============================================================================
// FISCAL PARAMETER HANDLERS
// =============================================================================

// ListFiscal returns every fiscal table in force.
func (h *Handler) ListFiscal(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListFiscal(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list fiscal parameters", err)
		return
	}
	versions := make(map[int]int, len(records))
	for _, rec := range records {
		versions[rec.Year] = rec.Version
	}

	years := h.Registry.Years()
	dtos := make([]FiscalDTO, 0, len(years))
	for _, year := range years {
		params, err := h.Registry.For(year)
		if err != nil {
			continue
		}
		dtos = append(dtos, h.fiscalDTO(params, versions[year]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetFiscal returns one year's table.
func (h *Handler) GetFiscal(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	params, err := h.Registry.For(year)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	version := 0
	if rec, err := h.Store.GetFiscal(r.Context(), year); err == nil {
		version = rec.Version
	}
	writeJSON(w, http.StatusOK, h.fiscalDTO(params, version))
}

// CreateFiscal stores and activates a fiscal table. Posting an existing
// year replaces it and bumps its version.
func (h *Handler) CreateFiscal(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	params, err := h.FiscalFactory.ParseFiscal(data)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	canonical, err := json.Marshal(h.FiscalFactory.ToJSON(params))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode fiscal parameters", err)
		return
	}
	rec, err := h.Store.SaveFiscal(r.Context(), params.Year, string(canonical))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if err := h.Registry.Register(params); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	h.Log.Info("fiscal table saved", zap.Int("year", rec.Year), zap.Int("version", rec.Version))
	writeJSON(w, http.StatusCreated, h.fiscalDTO(params, rec.Version))
}

func (h *Handler) fiscalDTO(p *payroll.FiscalParameters, version int) FiscalDTO {
	source := "preset"
	if version > 0 {
		source = "stored"
	}
	return FiscalDTO{
		Year:    p.Year,
		Source:  source,
		Version: version,
		Config:  h.FiscalFactory.ToJSON(p),
	}
}

// =============================================================================
// AUDIT LOG HANDLERS
// =============================================================================

// ListCalculations returns recent runs without their payloads.
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := h.Ledger.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list calculations", err)
		return
	}

	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run, false)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCalculation returns one run with its input and result.
func (h *Handler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	run, err := h.Ledger.Get(r.Context(), generic.RunID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(*run, true))
}

// =============================================================================
// HELPERS
// =============================================================================

func optionalQuery(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine and store errors to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, generic.ErrDuplicateIdempotencyKey):
		writeError(w, http.StatusConflict, "Conflict", err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		h.Log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
