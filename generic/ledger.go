/*
ledger.go - Idempotent audit log of calculation runs

PURPOSE:
  The Ledger records which figures were produced for which input. Because
  the engine is deterministic, a run is identified by its input: recording
  the same calculation twice returns the first run instead of a duplicate.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: runs are never modified
  2. IDEMPOTENT: same kind + fiscal year + input = same run
  3. AUDITABLE: input and result are stored verbatim as JSON

SEE ALSO:
  - store.go: Low-level persistence interface
  - api/handlers.go: Records every calculation served over HTTP
*/
package generic

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER
// =============================================================================

type Ledger struct {
	Store Store

	// Now is injectable for tests.
	Now func() time.Time
}

func NewLedger(store Store) *Ledger {
	return &Ledger{Store: store, Now: time.Now}
}

// IdempotencyKey derives the run key from its identity.
func IdempotencyKey(kind RunKind, fiscalYear int, input []byte) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(fiscalYear)))
	h.Write([]byte{0})
	h.Write(input)
	return hex.EncodeToString(h.Sum(nil))
}

// Record stores a calculation run. If an identical run was already recorded
// it is returned with created=false.
func (l *Ledger) Record(ctx context.Context, kind RunKind, fiscalYear int, input, result any, netPay decimal.Decimal) (Run, bool, error) {
	in, err := json.Marshal(input)
	if err != nil {
		return Run{}, false, fmt.Errorf("failed to encode run input: %w", err)
	}
	key := IdempotencyKey(kind, fiscalYear, in)

	existing, err := l.Store.FindByKey(ctx, key)
	if err != nil {
		return Run{}, false, err
	}
	if existing != nil {
		return *existing, false, nil
	}

	out, err := json.Marshal(result)
	if err != nil {
		return Run{}, false, fmt.Errorf("failed to encode run result: %w", err)
	}

	run := Run{
		ID:             RunID(uuid.NewString()),
		Kind:           kind,
		FiscalYear:     fiscalYear,
		IdempotencyKey: key,
		Input:          in,
		Result:         out,
		NetPay:         netPay,
		CreatedAt:      l.Now().UTC(),
	}
	if err := l.Store.Append(ctx, run); err != nil {
		// Lost a race with an identical request.
		if errors.Is(err, ErrDuplicateIdempotencyKey) {
			if existing, ferr := l.Store.FindByKey(ctx, key); ferr == nil && existing != nil {
				return *existing, false, nil
			}
		}
		return Run{}, false, err
	}
	return run, true, nil
}

// Get returns a recorded run.
func (l *Ledger) Get(ctx context.Context, id RunID) (*Run, error) {
	return l.Store.Get(ctx, id)
}

// Recent returns up to limit runs, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Run, error) {
	return l.Store.List(ctx, limit)
}
