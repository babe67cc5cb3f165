package payroll

import "github.com/warp/payroll-engine/generic"

// FallbackDays is the day count used when the worked period is unknown.
const FallbackDays = 30

// ComputeDayCount returns the 30/360 inclusive day count between two date
// strings. It never fails: a missing or unparseable date yields FallbackDays.
// Labor law mandates the commercial convention here; calendar-day counting
// would change every liquidation figure.
func ComputeDayCount(startDate, endDate *string) int {
	period, ok := generic.ParsePeriod(startDate, endDate)
	if !ok {
		return FallbackDays
	}
	return period.Days360()
}
