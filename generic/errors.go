/*
errors.go - Centralized error types for the engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Parameter errors - A fiscal table that breaks its own invariants.
     These are defects: the calculation cannot run on such a table.
  2. Lookup errors - Unknown fiscal year, unknown calculation run
  3. Ledger errors - Audit log persistence failures

  Business data never produces an error. Malformed dates, missing amounts
  and unknown risk classes are absorbed by documented fallbacks.

USAGE:
    if errors.Is(err, generic.ErrFiscalYearNotFound) {
        // 404
    }

SEE ALSO:
  - bracket.go: BracketTableError
  - payroll/fiscal.go: ParameterError wraps ErrInvalidParameters
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidParameters is returned when a fiscal parameter table breaks
	// one of its invariants (negative amount, missing rate).
	ErrInvalidParameters = errors.New("invalid fiscal parameters")

	// ErrInvalidBracketTable is returned when a bracket table is empty,
	// does not start at zero, or is not strictly increasing.
	ErrInvalidBracketTable = errors.New("invalid bracket table")

	// ErrEmptyBracketTable is the panic value of a lookup on an empty table.
	ErrEmptyBracketTable = errors.New("lookup on empty bracket table")

	// ErrFiscalYearNotFound is returned when no parameter table is registered
	// for the requested year.
	ErrFiscalYearNotFound = errors.New("fiscal year not found")

	// ErrRunNotFound is returned when a calculation run id is unknown.
	ErrRunNotFound = errors.New("calculation run not found")

	// ErrDuplicateIdempotencyKey is returned by a Store when a run with the
	// same idempotency key already exists.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

	// ErrInvalidInput is returned by collaborators that reject raw input
	// before it reaches the engine.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// BracketTableError points at the offending row of a bracket table.
// Index is -1 for table-level problems.
type BracketTableError struct {
	Table  string
	Index  int
	Reason string
}

func (e *BracketTableError) Error() string {
	name := e.Table
	if name == "" {
		name = "bracket table"
	}
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", name, e.Reason)
	}
	return fmt.Sprintf("%s row %d: %s", name, e.Index, e.Reason)
}

func (e *BracketTableError) Unwrap() error {
	return ErrInvalidBracketTable
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidParameters) ||
		errors.Is(err, ErrInvalidBracketTable)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFiscalYearNotFound) ||
		errors.Is(err, ErrRunNotFound)
}
