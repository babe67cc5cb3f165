package sqlite_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func run(id, key string, at time.Time) generic.Run {
	return generic.Run{
		ID:             generic.RunID(id),
		Kind:           generic.RunMonthly,
		FiscalYear:     2025,
		IdempotencyKey: key,
		Input:          json.RawMessage(`{"base_salary":"1423500"}`),
		Result:         json.RawMessage(`{"net_pay":"1509620"}`),
		NetPay:         generic.Dec(1_509_620),
		CreatedAt:      at,
	}
}

// =============================================================================
// CALCULATION RUNS
// =============================================================================

func TestStore_AppendAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, run("run-1", "key-1", at)))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, generic.RunMonthly, got.Kind)
	assert.Equal(t, 2025, got.FiscalYear)
	assert.Equal(t, "key-1", got.IdempotencyKey)
	assert.Equal(t, "1509620", got.NetPay.String())
	assert.JSONEq(t, `{"net_pay":"1509620"}`, string(got.Result))
	assert.True(t, got.CreatedAt.Equal(at))
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")

	assert.ErrorIs(t, err, generic.ErrRunNotFound)
}

func TestStore_DuplicateKeyRejected(t *testing.T) {
	// GIVEN: A run already stored under a key
	// WHEN: Another run reuses the key
	// THEN: The append fails with ErrDuplicateIdempotencyKey

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Append(ctx, run("run-1", "key-1", now)))
	err := store.Append(ctx, run("run-2", "key-1", now))

	assert.ErrorIs(t, err, generic.ErrDuplicateIdempotencyKey)

	found, err := store.FindByKey(ctx, "key-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, generic.RunID("run-1"), found.ID)

	missing, err := store.FindByKey(ctx, "key-9")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Append(ctx, run(id, id, base.Add(time.Duration(i)*time.Hour))))
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, generic.RunID("c"), all[0].ID)

	two, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, generic.RunID("b"), two[1].ID)
}

func TestStore_WithLedger(t *testing.T) {
	// GIVEN: The ledger on top of SQLite
	// WHEN: The same payroll is recorded twice
	// THEN: Only one row exists and both calls return its id

	store := newTestStore(t)
	ledger := generic.NewLedger(store)
	ctx := context.Background()

	p := payroll.Parameters2025()
	in := payroll.ContractInput{IncludeTransportSubsidy: true}
	result := payroll.ComputeMonthlyPayroll(in, p)

	first, created, err := ledger.Record(ctx, generic.RunMonthly, p.Year, in, result, result.NetPay)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := ledger.Record(ctx, generic.RunMonthly, p.Year, in, result, result.NetPay)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	runs, err := ledger.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.Equal(t, "1509620", runs[0].NetPay.String())
}

// =============================================================================
// FISCAL PARAMETERS
// =============================================================================

func TestStore_SaveFiscalBumpsVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := factory.NewFiscalFactory(nil)

	data, err := json.Marshal(f.ToJSON(payroll.Parameters2025()))
	require.NoError(t, err)

	rec, err := store.SaveFiscal(ctx, 2025, string(data))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Version)

	rec, err = store.SaveFiscal(ctx, 2025, string(data))
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Version)

	got, err := store.GetFiscal(ctx, 2025)
	require.NoError(t, err)
	p, err := f.ParseFiscal([]byte(got.ConfigJSON))
	require.NoError(t, err)
	assert.Equal(t, "1423500", p.MinimumWage.String())
}

func TestStore_ListFiscal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.SaveFiscal(ctx, 2025, `{"year":2025}`)
	require.NoError(t, err)
	_, err = store.SaveFiscal(ctx, 2024, `{"year":2024}`)
	require.NoError(t, err)

	records, err := store.ListFiscal(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2024, records[0].Year)
	assert.Equal(t, 2025, records[1].Year)

	_, err = store.GetFiscal(ctx, 2030)
	assert.ErrorIs(t, err, generic.ErrFiscalYearNotFound)
}
