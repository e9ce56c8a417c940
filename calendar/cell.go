/*
cell.go - Raw spreadsheet cell values and date parsing

PURPOSE:
  Spreadsheets disagree about what a "date" is. The same column can hold a
  native date cell, a numeric serial, and free text typed by hand. ParseCell
  centralizes that tolerance so the arithmetic only ever sees a Date.

CELL KINDS (checked in this order):
  CellEmpty   nothing in the cell            -> unparseable
  CellTime    native date/time value         -> its UTC calendar date
  CellNumber  spreadsheet serial (> 1)       -> epoch 1899-12-30 + value days
  CellText    "YYYY-M-D..." or "D/M/Y"       -> parsed literally

TEXT FORMATS:
  2021-03-15, 2021-3-5, 2021-03-15T10:00    year first, ISO-like prefix
  15/03/2021, 15.03.2021, 15-3-21           day first; separators . / -

  Two-digit years: > 50 is 19xx, <= 50 is 20xx.
  Impossible dates (month 13, Feb 30) are rejected, never wrapped.

FAILURE:
  ParseCell reports failure with ok=false. Batch callers substitute a
  placeholder for that row and keep going.

SEE ALSO:
  - date.go: Date type
  - sheet/reader.go: Produces Cells from workbook files
*/
package calendar

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// CELL - Tagged union over raw cell values
// =============================================================================

type CellKind int

const (
	CellEmpty CellKind = iota
	CellTime
	CellNumber
	CellText
)

func (k CellKind) String() string {
	switch k {
	case CellTime:
		return "time"
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	default:
		return "empty"
	}
}

// Cell is one raw value as read from a spreadsheet. Only the field matching
// Kind is meaningful.
type Cell struct {
	Kind   CellKind
	Time   time.Time
	Number float64
	Text   string
}

func EmptyCell() Cell           { return Cell{Kind: CellEmpty} }
func TimeCell(t time.Time) Cell { return Cell{Kind: CellTime, Time: t} }
func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }
func TextCell(s string) Cell    { return Cell{Kind: CellText, Text: s} }
func DateCell(d Date) Cell      { return TimeCell(d.Time) }
func (c Cell) IsEmpty() bool    { return c.Kind == CellEmpty }

// Value returns the cell's payload as a plain Go value, nil for empty cells.
// Used when copying original columns into an output workbook.
func (c Cell) Value() any {
	switch c.Kind {
	case CellTime:
		return c.Time
	case CellNumber:
		return c.Number
	case CellText:
		return c.Text
	default:
		return nil
	}
}

func (c Cell) String() string {
	switch c.Kind {
	case CellTime:
		return c.Time.Format(time.RFC3339)
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// =============================================================================
// SPREADSHEET SERIALS
// =============================================================================

const (
	// SerialUnixEpoch is the serial number of 1970-01-01 in the 1900 date
	// system (epoch 1899-12-30).
	SerialUnixEpoch = 25569

	// maxSerialDays bounds the day offset from the Unix epoch to the range a
	// date value can represent (+-100,000,000 days).
	maxSerialDays = 100_000_000
)

// FromSerial converts a spreadsheet serial to its UTC calendar date.
// Fractional parts are a time of day and are dropped.
func FromSerial(serial float64) (Date, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return Date{}, false
	}
	offset := math.Floor(serial - SerialUnixEpoch)
	if math.Abs(offset) > maxSerialDays {
		return Date{}, false
	}
	return NewDate(1970, time.January, 1+int(offset)), true
}

// SerialOf is the inverse of FromSerial for whole days.
func SerialOf(d Date) float64 {
	return float64(SerialUnixEpoch + DaysBetween(NewDate(1970, time.January, 1), d))
}

// =============================================================================
// PARSING
// =============================================================================

var (
	isoPrefix   = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}`)
	dayFirstFmt = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})[./-](\d{2,4})$`)
)

// ParseCell normalizes a raw cell into a calendar date. ok is false when the
// cell matches none of the recognized encodings.
func ParseCell(c Cell) (Date, bool) {
	switch c.Kind {
	case CellEmpty:
		return Date{}, false

	case CellTime:
		if c.Time.IsZero() {
			return Date{}, false
		}
		return DateOf(c.Time), true

	case CellNumber:
		if c.Number > 1 {
			if d, ok := FromSerial(c.Number); ok {
				return d, true
			}
		}
		return Date{}, false

	case CellText:
		return parseText(c.Text)
	}
	return Date{}, false
}

// ParseDate parses typed input such as a form field or a CLI argument.
func ParseDate(s string) (Date, error) {
	d, ok := ParseCell(TextCell(s))
	if !ok {
		return Date{}, &UnparseableDateError{Input: s}
	}
	return d, nil
}

func parseText(raw string) (Date, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Date{}, false
	}

	if isoPrefix.MatchString(s) {
		parts := strings.Split(s, "-")
		year, month, day := leadingInt(parts[0]), leadingInt(parts[1]), leadingInt(parts[2])
		if d, ok := NewDateStrict(year, time.Month(month), day); ok {
			return d, true
		}
	}

	if m := dayFirstFmt.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])

		if year < 100 {
			year = expandYear(year)
		}

		if day >= 1 && day <= 31 && month >= 1 && month <= 12 && year > 1000 {
			if d, ok := NewDateStrict(year, time.Month(month), day); ok {
				return d, true
			}
		}
	}

	return Date{}, false
}

// expandYear maps a two-digit year onto 1951-2050.
func expandYear(yy int) int {
	if yy > 50 {
		return 1900 + yy
	}
	return 2000 + yy
}

// leadingInt parses the run of digits at the start of s ("15T10:00" -> 15).
func leadingInt(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return -1
	}
	return n
}

// =============================================================================
// ERRORS
// =============================================================================

// UnparseableDateError carries the input that could not be read as a date.
type UnparseableDateError struct {
	Input string
}

func (e *UnparseableDateError) Error() string {
	return fmt.Sprintf("unparseable date %q", e.Input)
}

func (e *UnparseableDateError) Unwrap() error {
	return ErrUnparseableDate
}
