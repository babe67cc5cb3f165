package generic

import "time"

// =============================================================================
// PERIOD - The worked interval a calculation covers
// =============================================================================

// Period is an inclusive date range [Start, End].
//
// Examples:
//   - A payroll month: Jan 1 - Jan 31
//   - A fixed-term contract: hire date - termination date
type Period struct {
	Start time.Time
	End   time.Time
}

// ParsePeriod builds a period from two date strings.
// ok is false when either date is missing or malformed.
func ParsePeriod(start, end *string) (Period, bool) {
	if start == nil || end == nil {
		return Period{}, false
	}
	s, ok := ParseDate(*start)
	if !ok {
		return Period{}, false
	}
	e, ok := ParseDate(*end)
	if !ok {
		return Period{}, false
	}
	return Period{Start: s, End: e}, true
}

// Days360 returns the 30/360 day count of the period.
func (p Period) Days360() int {
	return Days360(p.Start, p.End)
}

// IsZero reports whether the period was never set.
func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.Format("2006-01-02") + ", " + p.End.Format("2006-01-02") + "]"
}
