package generic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/generic"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate_Layouts(t *testing.T) {
	want := date(2025, time.March, 4)

	for _, s := range []string{"2025-03-04", "2025/03/04", "04/03/2025", "2025-03-04T15:04:05-05:00", " 2025-03-04 "} {
		got, ok := generic.ParseDate(s)
		require.True(t, ok, s)
		assert.True(t, got.Equal(want), "%s parsed as %s", s, got)
	}

	for _, s := range []string{"", "2025-13-01", "not a date"} {
		_, ok := generic.ParseDate(s)
		assert.False(t, ok, s)
	}
}

func TestDays360(t *testing.T) {
	// GIVEN: The commercial 30/360 convention
	// THEN: Day 31 counts as day 30 and whole years are 360 days

	assert.Equal(t, 28, generic.Days360(date(2025, time.February, 1), date(2025, time.February, 28)))
	assert.Equal(t, 30, generic.Days360(date(2025, time.March, 1), date(2025, time.March, 31)))
	assert.Equal(t, 360, generic.Days360(date(2024, time.January, 1), date(2024, time.December, 31)))
	assert.Equal(t, 720, generic.Days360(date(2023, time.January, 1), date(2024, time.December, 31)))
	assert.Equal(t, 0, generic.Days360(date(2025, time.May, 1), date(2025, time.April, 1)))
}

func TestPeriod(t *testing.T) {
	start, end := "2025-01-01", "2025-06-30"

	p, ok := generic.ParsePeriod(&start, &end)
	require.True(t, ok)
	assert.Equal(t, 180, p.Days360())
	assert.Equal(t, "[2025-01-01, 2025-06-30]", p.String())

	_, ok = generic.ParsePeriod(&start, nil)
	assert.False(t, ok)
	assert.True(t, generic.Period{}.IsZero())
}
