/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Persists the two things a payroll deployment must keep: the fiscal
  parameter tables in force for each year, and the audit log of every
  calculation served. The engine itself never touches this package.

INTERFACES IMPLEMENTED:
  generic.Store: Calculation run persistence (append-only)

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on calculation_runs
  - No DELETE statements on calculation_runs
  - A recalculation is a new run with its own id

KEY TABLES:
  fiscal_parameters: One JSON table per fiscal year (versioned on upsert)
  calculation_runs:  Immutable audit log of computed payrolls

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger := generic.NewLedger(store)

SEE ALSO:
  - generic/store.go: Store interface
  - generic/ledger.go: Idempotent recording on top of Store
  - factory/fiscal.go: The JSON kept in fiscal_parameters.config_json
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/warp/payroll-engine/generic"
)

// Store implements generic.Store and fiscal table persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Fiscal parameter tables, one per year
	CREATE TABLE IF NOT EXISTS fiscal_parameters (
		year INTEGER PRIMARY KEY,
		config_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Calculation runs (append-only audit log)
	CREATE TABLE IF NOT EXISTS calculation_runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		fiscal_year INTEGER NOT NULL,
		idempotency_key TEXT UNIQUE,
		input_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		net_pay TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at
		ON calculation_runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_year_kind
		ON calculation_runs(fiscal_year, kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CALCULATION RUNS (generic.Store)
// =============================================================================

const runColumns = "id, kind, fiscal_year, idempotency_key, input_json, result_json, net_pay, created_at"

// Append persists a run. Returns ErrDuplicateIdempotencyKey if the key exists.
func (s *Store) Append(ctx context.Context, run generic.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO calculation_runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.Kind,
		run.FiscalYear,
		nullString(run.IdempotencyKey),
		string(run.Input),
		string(run.Result),
		run.NetPay.String(),
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return generic.ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("failed to append run: %w", err)
	}
	return nil
}

// Get returns a run by id, or ErrRunNotFound.
func (s *Store) Get(ctx context.Context, id generic.RunID) (*generic.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM calculation_runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", generic.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// FindByKey returns the run recorded under an idempotency key, or nil.
func (s *Store) FindByKey(ctx context.Context, key string) (*generic.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM calculation_runs WHERE idempotency_key = ?", key)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns runs newest first. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]generic.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + runColumns + " FROM calculation_runs ORDER BY created_at DESC, rowid DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []generic.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (generic.Run, error) {
	var (
		run                   generic.Run
		key                   sql.NullString
		input, result, netPay string
		createdAt             string
	)
	err := row.Scan(&run.ID, &run.Kind, &run.FiscalYear, &key, &input, &result, &netPay, &createdAt)
	if err != nil {
		return generic.Run{}, err
	}

	run.IdempotencyKey = key.String
	run.Input = []byte(input)
	run.Result = []byte(result)
	run.NetPay = generic.MustParseDecimal(netPay)
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return run, nil
}

// =============================================================================
// FISCAL PARAMETERS
// =============================================================================

// FiscalRecord is a stored fiscal table with its JSON config.
type FiscalRecord struct {
	Year       int
	ConfigJSON string
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SaveFiscal creates or replaces the table for a year. Replacing bumps
// the version.
func (s *Store) SaveFiscal(ctx context.Context, year int, configJSON string) (*FiscalRecord, error) {
	s.mu.Lock()
	query := `
		INSERT INTO fiscal_parameters (year, config_json, version, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(year) DO UPDATE SET
			config_json = excluded.config_json,
			version = fiscal_parameters.version + 1,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query, year, configJSON, now, now)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to save fiscal parameters %d: %w", year, err)
	}
	return s.GetFiscal(ctx, year)
}

// GetFiscal retrieves the table for a year, or ErrFiscalYearNotFound.
func (s *Store) GetFiscal(ctx context.Context, year int) (*FiscalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r FiscalRecord
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT year, config_json, version, created_at, updated_at FROM fiscal_parameters WHERE year = ?",
		year,
	).Scan(&r.Year, &r.ConfigJSON, &r.Version, &createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", generic.ErrFiscalYearNotFound, year)
	}
	if err != nil {
		return nil, err
	}

	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &r, nil
}

// ListFiscal returns all stored tables by ascending year.
func (s *Store) ListFiscal(ctx context.Context) ([]FiscalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT year, config_json, version, created_at, updated_at FROM fiscal_parameters ORDER BY year",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []FiscalRecord
	for rows.Next() {
		var r FiscalRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&r.Year, &r.ConfigJSON, &r.Version, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ generic.Store = (*Store)(nil)
