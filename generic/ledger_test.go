package generic_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/generic/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type calcInput struct {
	Employee string `json:"employee"`
	Salary   int64  `json:"salary"`
}

type calcResult struct {
	NetPay int64 `json:"net_pay"`
}

func newTestLedger(t *testing.T) *generic.Ledger {
	t.Helper()
	l := generic.NewLedger(store.NewMemory())
	l.Now = func() time.Time { return date(2025, time.March, 1) }
	return l
}

// =============================================================================
// IDEMPOTENCY
// =============================================================================

func TestLedger_RecordIsIdempotent(t *testing.T) {
	// GIVEN: A calculation already recorded
	// WHEN: The identical calculation is recorded again
	// THEN: The first run is returned and nothing new is stored

	ctx := context.Background()
	l := newTestLedger(t)
	in := calcInput{Employee: "emp-1", Salary: 1_423_500}

	first, created, err := l.Record(ctx, generic.RunMonthly, 2025, in, calcResult{NetPay: 1_509_620}, generic.Dec(1_509_620))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, first.ID)
	assert.Len(t, first.IdempotencyKey, 64)

	second, created, err := l.Record(ctx, generic.RunMonthly, 2025, in, calcResult{NetPay: 1_509_620}, generic.Dec(1_509_620))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	runs, err := l.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestLedger_KeyDependsOnKindAndYear(t *testing.T) {
	input := []byte(`{"employee":"emp-1"}`)

	monthly := generic.IdempotencyKey(generic.RunMonthly, 2025, input)

	assert.Equal(t, monthly, generic.IdempotencyKey(generic.RunMonthly, 2025, input))
	assert.NotEqual(t, monthly, generic.IdempotencyKey(generic.RunLiquidation, 2025, input))
	assert.NotEqual(t, monthly, generic.IdempotencyKey(generic.RunMonthly, 2024, input))
}

func TestLedger_GetAndRecent(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	var ids []generic.RunID
	for i := int64(1); i <= 3; i++ {
		run, _, err := l.Record(ctx, generic.RunLiquidation, 2025, calcInput{Salary: i}, calcResult{NetPay: i}, generic.Dec(i))
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}

	got, err := l.Get(ctx, ids[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"employee":"","salary":2}`, string(got.Input))
	assert.JSONEq(t, `{"net_pay":2}`, string(got.Result))
	assert.True(t, got.CreatedAt.Equal(date(2025, time.March, 1)))

	recent, err := l.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[2], recent[0].ID, "newest first")
	assert.Equal(t, ids[1], recent[1].ID)

	_, err = l.Get(ctx, "missing")
	assert.ErrorIs(t, err, generic.ErrRunNotFound)
}

func TestMemoryStore_RejectsDuplicateKey(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	require.NoError(t, m.Append(ctx, generic.Run{ID: "a", IdempotencyKey: "k"}))
	err := m.Append(ctx, generic.Run{ID: "b", IdempotencyKey: "k"})

	assert.ErrorIs(t, err, generic.ErrDuplicateIdempotencyKey)

	run, err := m.FindByKey(ctx, "unknown")
	assert.NoError(t, err)
	assert.Nil(t, run)
}
