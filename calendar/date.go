/*
date.go - Calendar date value type

PURPOSE:
  Date is the canonical calendar date every other package works with: a
  year/month/day triple pinned to UTC midnight. Spreadsheet cells, form input
  and "today" all end up as a Date before any arithmetic happens.

SEMANTICS:
  - Always UTC. There is no wall-clock or timezone interpretation.
  - Arithmetic uses calendar-field rollover (time.Date normalization):
    Jan 31 + 1 month = Mar 3 (Mar 2 in leap years), not Feb 28.
  - Immutable: every operation returns a new Date.

FORMATS:
  String()  2006-01-02  (ISO, used by the API)
  Format()  02/01/2006  (DD/MM/YYYY, used in exported workbooks)

SEE ALSO:
  - cell.go: Parsing raw spreadsheet cells into a Date
  - period.go: Experience between two dates
*/
package calendar

import (
	"time"
)

// =============================================================================
// DATE - UTC calendar date
// =============================================================================

type Date struct {
	Time time.Time
}

const (
	isoLayout     = "2006-01-02"
	displayLayout = "02/01/2006"
)

// NewDate builds a date from calendar fields. Out-of-range fields roll over
// the way time.Date does; use NewDateStrict to reject them instead.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// NewDateStrict builds a date only if the fields name a real calendar day.
func NewDateStrict(year int, month time.Month, day int) (Date, bool) {
	d := NewDate(year, month, day)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return Date{}, false
	}
	return d, true
}

// DateOf returns the UTC calendar date of t, dropping the time of day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{Time: d.Time.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format(isoLayout) }

// Format renders the date as DD/MM/YYYY.
func (d Date) Format() string { return d.Time.Format(displayLayout) }

// MarshalText renders the ISO form so Date can sit directly in JSON DTOs.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// =============================================================================
// MONTH UTILITIES
// =============================================================================

// DaysIn returns the number of days in the given month. Month 0 is December
// of the previous year, matching time.Date normalization.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// =============================================================================
// CLOCK - Source of "today"
// =============================================================================

// Clock abstracts time.Now so that "today" can be fixed in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// Today returns the current UTC calendar date according to clock.
func Today(clock Clock) Date {
	if clock == nil {
		clock = SystemClock{}
	}
	return DateOf(clock.Now())
}
