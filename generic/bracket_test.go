package generic_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/generic"
)

func progressive() generic.BracketTable {
	return generic.BracketTable{
		{Lower: generic.Dec(0)},
		{Lower: generic.Dec(95), Rate: generic.Pct("19")},
		{Lower: generic.Dec(150), Rate: generic.Pct("28"), Fixed: generic.Dec(10)},
	}
}

func TestBracketTable_LookupHalfOpen(t *testing.T) {
	table := progressive()

	tests := []struct {
		v     int64
		lower int64
	}{
		{-5, 0},
		{0, 0},
		{94, 0},
		{95, 95},
		{149, 95},
		{150, 150},
		{1_000_000, 150},
	}
	for _, tt := range tests {
		got := table.Lookup(generic.Dec(tt.v))
		assert.True(t, got.Lower.Equal(generic.Dec(tt.lower)), "value %d landed in %s", tt.v, got.Lower)
	}
}

func TestBracketTable_LookupScaled(t *testing.T) {
	// GIVEN: Lower bounds written in multiples of 1,000
	// WHEN: Looking up a raw amount
	// THEN: Bounds are compared after scaling

	table := progressive()
	unit := generic.Dec(1000)

	assert.True(t, table.LookupScaled(generic.Dec(94_999), unit).Lower.IsZero())
	assert.True(t, table.LookupScaled(generic.Dec(95_000), unit).Lower.Equal(generic.Dec(95)))
}

func TestBracket_Apply(t *testing.T) {
	b := generic.Bracket{Lower: generic.Dec(150), Rate: generic.Pct("28"), Fixed: generic.Dec(10)}

	got := b.Apply(generic.Dec(250))

	assert.True(t, got.Equal(generic.Dec(38)), "got %s", got)
}

func TestBracketTable_Validate(t *testing.T) {
	require.NoError(t, progressive().Validate())

	err := generic.BracketTable{{Lower: generic.Dec(1)}}.Validate()
	var berr *generic.BracketTableError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, 0, berr.Index)
	assert.ErrorIs(t, err, generic.ErrInvalidBracketTable)

	err = generic.BracketTable{}.Validate()
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, -1, berr.Index)
	assert.Equal(t, "bracket table: table is empty", err.Error())
}

func TestBracketTable_LookupEmptyPanics(t *testing.T) {
	assert.PanicsWithValue(t, generic.ErrEmptyBracketTable, func() {
		generic.BracketTable{}.Lookup(decimal.Zero)
	})
}
