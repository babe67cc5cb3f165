/*
Package generic provides the domain-agnostic numeric core of the payroll engine.

PURPOSE:
  This package contains the building blocks every payroll rule is written
  with: decimal money helpers, ordered bracket tables, the 30/360 day count,
  periods and the calculation audit ledger. Nothing here knows about a
  specific jurisdiction; rates and limits always arrive as data.

KEY CONCEPTS IN THIS FILE (types.go):
  - Currency amounts and rates are decimal.Decimal, never float64
  - Rates are fractions (0.04 = 4%), built from percent strings with Pct
  - Rounding to whole currency units happens once, when results are assembled

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal avoids floating-point drift in payroll figures
  2. Determinism: identical inputs always produce identical decimals
  3. Purity: helpers never mutate their arguments

USAGE:
  health := generic.RoundCurrency(ibc.Mul(generic.Pct("4")))
  ibc = generic.Clamp(ibc, floor, ceiling)

SEE ALSO:
  - bracket.go: Ordered rate tables (solidarity, withholding)
  - time.go: Date parsing and the 30/360 day count
  - ledger.go: Idempotent audit log of calculation runs
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

var hundred = decimal.NewFromInt(100)

// MustParseDecimal parses s, returning zero for malformed input.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Pct converts a percent string into a fraction: Pct("8.5") == 0.085.
func Pct(s string) decimal.Decimal {
	return MustParseDecimal(s).Div(hundred)
}

// Dec is shorthand for decimal.NewFromInt.
func Dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

// NonNegative floors v at zero.
func NonNegative(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// OrZero dereferences an optional amount, treating nil and negatives as zero.
func OrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return NonNegative(*v)
}

// RoundCurrency rounds to whole currency units, half away from zero.
func RoundCurrency(v decimal.Decimal) decimal.Decimal {
	return v.Round(0)
}

// SumOf adds any number of amounts; the empty sum is zero.
func SumOf(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
