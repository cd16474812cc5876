// Package datetime provides date and time utility functions.
package datetime

import (
	"strings"
	"time"

	"github.com/iwvelando/gibill-forecast/pkg/constants"
)

const (
	// DateLayout is the format expected for dates in scenario files.
	DateLayout = constants.DateLayout

	// MonthLayout is the output format for forecast months.
	MonthLayout = constants.MonthLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a scenario date. Both full dates (2025-01-15) and bare
// months (2025-01, meaning the first of the month) are accepted.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, trimmed); err == nil {
		return t, nil
	}
	return time.Parse(MonthLayout, trimmed)
}

// MonthStart returns the first day of the month containing t, in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DateOnly strips the clock from t, keeping its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextMonth returns the first day of the month following t.
func NextMonth(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, 0)
}

// MonthsInWindow lists the first day of every month that falls within
// [start, end], ascending. The month of start is always included when
// start <= end, regardless of start's day of month.
func MonthsInWindow(start, end time.Time) []time.Time {
	last := DateOnly(end)
	var months []time.Time
	for current := MonthStart(start); !current.After(last); current = NextMonth(current) {
		months = append(months, current)
	}
	return months
}

// CountMonths returns len(MonthsInWindow(start, end)) without building the list.
func CountMonths(start, end time.Time) int {
	if DateOnly(end).Before(MonthStart(start)) {
		return 0
	}
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
}

// DaysBetween returns the number of whole calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)).Hours() / 24)
}
