package generic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BRACKET TABLE - Ordered, data-driven step functions
// =============================================================================

// Bracket is one row of a progressive table. It covers [Lower, next.Lower).
// Applying a bracket to v yields (v - Lower) * Rate + Fixed.
type Bracket struct {
	Lower decimal.Decimal
	Rate  decimal.Decimal
	Fixed decimal.Decimal
}

// Apply evaluates the bracket formula for v.
func (b Bracket) Apply(v decimal.Decimal) decimal.Decimal {
	return v.Sub(b.Lower).Mul(b.Rate).Add(b.Fixed)
}

// BracketTable is ordered by strictly increasing Lower, starting at zero.
// The last bracket is open-ended upward.
type BracketTable []Bracket

// Validate checks the table covers [0, inf) with contiguous half-open rows.
func (t BracketTable) Validate() error {
	if len(t) == 0 {
		return &BracketTableError{Index: -1, Reason: "table is empty"}
	}
	if !t[0].Lower.IsZero() {
		return &BracketTableError{Index: 0, Reason: fmt.Sprintf("first lower bound must be 0, got %s", t[0].Lower)}
	}
	for i, b := range t {
		if b.Rate.IsNegative() || b.Fixed.IsNegative() {
			return &BracketTableError{Index: i, Reason: "negative rate or fixed amount"}
		}
		if i > 0 && !b.Lower.GreaterThan(t[i-1].Lower) {
			return &BracketTableError{Index: i, Reason: fmt.Sprintf("lower bound %s does not increase", b.Lower)}
		}
	}
	return nil
}

// Lookup returns the bracket whose half-open interval contains v.
// Values below zero fall in the first bracket. Panics on an empty table.
func (t BracketTable) Lookup(v decimal.Decimal) Bracket {
	return t.LookupScaled(v, decimal.NewFromInt(1))
}

// LookupScaled is Lookup with every lower bound multiplied by unit, so a
// table written in multiples (of a minimum wage, say) can be searched with a
// currency amount without dividing it.
func (t BracketTable) LookupScaled(v, unit decimal.Decimal) Bracket {
	if len(t) == 0 {
		panic(ErrEmptyBracketTable)
	}
	found := t[0]
	for _, b := range t[1:] {
		if v.LessThan(b.Lower.Mul(unit)) {
			break
		}
		found = b
	}
	return found
}
