package generic

import (
	"strings"
	"time"
)

// =============================================================================
// DATE PARSING
// =============================================================================

// DateLayouts are tried in order when parsing contract dates.
var DateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	time.RFC3339,
}

// ParseDate parses s with the first matching layout. The result is truncated
// to a UTC calendar date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// =============================================================================
// 30/360 DAY COUNT
// =============================================================================

// Days360 counts days between start and end on a 360-day year of twelve
// 30-day months. Day 31 counts as day 30 on both ends. The count includes
// both boundary dates and is never negative.
//
//	2025-01-01 .. 2025-01-30 = 30
//	2025-01-01 .. 2025-12-31 = 360
func Days360(start, end time.Time) int {
	d1 := start.Day()
	if d1 > 30 {
		d1 = 30
	}
	d2 := end.Day()
	if d2 > 30 {
		d2 = 30
	}

	days := (end.Year()-start.Year())*360 +
		(int(end.Month())-int(start.Month()))*30 +
		(d2 - d1) + 1
	if days < 0 {
		return 0
	}
	return days
}
