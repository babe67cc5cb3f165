/*
store.go - Persistence interface for calculation runs

PURPOSE:
  Defines the interface between the audit ledger and the database.
  Payroll figures must be reproducible for audit, so every calculation a
  collaborator performs can be recorded with its exact input and result.

APPEND-ONLY CONTRACT:
  - Append(): Single run write
  - NO Update() or Delete() methods exist
  A recalculation is a new run, never an edit of an old one.

IDEMPOTENCY:
  Every run carries an idempotency key derived from its input. The engine
  is deterministic, so the same key always maps to the same result and a
  second write is rejected with ErrDuplicateIdempotencyKey.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - ledger.go: Higher-level idempotent recording using Store
*/
package generic

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RUN - One recorded calculation
// =============================================================================

type RunID string

// RunKind names which engine operation produced a run.
type RunKind string

const (
	RunMonthly     RunKind = "monthly"
	RunLiquidation RunKind = "liquidation"
	RunSummary     RunKind = "summary"
)

type Run struct {
	ID             RunID
	Kind           RunKind
	FiscalYear     int
	IdempotencyKey string
	Input          json.RawMessage
	Result         json.RawMessage
	NetPay         decimal.Decimal
	CreatedAt      time.Time
}

// =============================================================================
// STORE - Interface for run persistence (append-only)
// =============================================================================

// Store handles persistence of calculation runs.
// IMPORTANT: Store is APPEND-ONLY. No Update, No Delete.
type Store interface {
	// Append persists a run. Returns ErrDuplicateIdempotencyKey if the key exists.
	Append(ctx context.Context, run Run) error

	// Get returns a run by id, or ErrRunNotFound.
	Get(ctx context.Context, id RunID) (*Run, error)

	// FindByKey returns the run recorded under an idempotency key, or nil.
	FindByKey(ctx context.Context, idempotencyKey string) (*Run, error)

	// List returns the most recent runs first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]Run, error)
}
