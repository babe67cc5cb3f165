package generic

import "github.com/shopspring/decimal"

// =============================================================================
// ACCRUAL - How a periodic benefit builds up
// =============================================================================

// Two formulas build up a benefit:
//
//   - AccrueFixed: base * factor, the recurring monthly approximation
//     (severance at 8.33% of the month's pay)
//   - AccrueDays: base * days / divisor, exact proration over a worked
//     period (severance at days/360)

// AccrueFixed returns base * factor.
func AccrueFixed(base, factor decimal.Decimal) decimal.Decimal {
	return base.Mul(factor)
}

// AccrueDays returns base * days / divisor. A non-positive divisor yields zero.
func AccrueDays(base decimal.Decimal, days int, divisor int64) decimal.Decimal {
	if divisor <= 0 {
		return decimal.Zero
	}
	return base.Mul(decimal.NewFromInt(int64(days))).Div(decimal.NewFromInt(divisor))
}
