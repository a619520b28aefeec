// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"time"
)

// MonthLayout is the canonical text form of a Month, e.g. "2024-03".
const MonthLayout = "2006-01"

// Month is a calendar month. The zero value is not a valid month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses text in the exact form YYYY-MM.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q is not in YYYY-MM form", ErrInvalidDate, s)
	}
	return MonthOf(t), nil
}

// MustParseMonth is like ParseMonth but panics on error.
// Intended for constants and tests.
func MustParseMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Time returns midnight UTC on the first day of the month.
func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths returns the month n months after m (n may be negative).
func (m Month) AddMonths(n int) Month {
	return MonthOf(m.Time().AddDate(0, n, 0))
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	return m.AddMonths(1)
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// IsZero reports whether m is the zero Month.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// String renders the month as YYYY-MM.
func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return m.Time().Format(MonthLayout)
}

// Label renders the month for chart axes, e.g. "Mar 2024".
func (m Month) Label() string {
	return m.Time().Format("Jan 2006")
}

// MonthsFrom returns n consecutive months starting at start.
func MonthsFrom(start Month, n int) []Month {
	if n <= 0 {
		return nil
	}
	months := make([]Month, n)
	for i := range months {
		months[i] = start.AddMonths(i)
	}
	return months
}
