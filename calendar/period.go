package calendar

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PERIOD - Span between two calendar dates
// =============================================================================

// Period is the span used for tenure calculation.
// Examples:
//   - Hire date to today
//   - Seniority-in-grade date to the end of a contract
type Period struct {
	Start Date
	End   Date
}

// Inverted reports whether Start is strictly after End.
func (p Period) Inverted() bool {
	return p.Start.After(p.End)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// Experience returns the calendar-accurate years/months/days spanned by p.
func (p Period) Experience() ExperienceResult {
	return Experience(p.Start, p.End)
}

// =============================================================================
// EXPERIENCE - Years/months/days between two dates
// =============================================================================

// ExperienceResult is elapsed tenure expressed the way people say it:
// "3 years, 4 months and 26 days".
type ExperienceResult struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// Experience computes the span from start to end.
//
// An inverted range yields the zero result rather than a negative span.
// A negative day difference borrows the length of the month preceding end's
// month; a negative month difference borrows a year. The result always
// satisfies ApplyTo(start) == end.
func Experience(start, end Date) ExperienceResult {
	if start.After(end) {
		return ExperienceResult{}
	}

	years := end.Year() - start.Year()
	months := int(end.Month()) - int(start.Month())
	days := end.Day() - start.Day()

	if days < 0 {
		months--
		days += DaysIn(end.Year(), end.Month()-1)
	}

	if months < 0 {
		years--
		months += 12
	}

	// start's day-of-month is past the end of the borrowed month (Jan 31 ->
	// Mar 1). Step back one more month and count the days from there.
	if days < 0 {
		months--
		if months < 0 {
			years--
			months += 12
		}
		anchor := start.AddMonths(years*12 + months)
		days = DaysBetween(anchor, end)
	}

	return ExperienceResult{Years: years, Months: months, Days: days}
}

// DaysBetween counts whole days from one date to another. It works on Unix
// seconds because time.Duration saturates about 292 years out.
func DaysBetween(from, to Date) int {
	return int((to.Time.Unix() - from.Time.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// IsZero reports whether the result spans no time at all.
func (r ExperienceResult) IsZero() bool {
	return r.Years == 0 && r.Months == 0 && r.Days == 0
}

// TotalMonths folds years into months, ignoring days.
func (r ExperienceResult) TotalMonths() int {
	return r.Years*12 + r.Months
}

// DecimalYears expresses the whole months of the result as years, rounded to
// two places (3y 6m -> 3.50). Days are not counted.
func (r ExperienceResult) DecimalYears() decimal.Decimal {
	return decimal.NewFromInt(int64(r.TotalMonths())).
		Div(decimal.NewFromInt(12)).
		Round(2)
}

// ApplyTo adds the result to start: whole months first, then days.
// Years are folded into months so that a Feb 29 start does not roll into
// March before the months are added.
func (r ExperienceResult) ApplyTo(start Date) Date {
	return start.AddMonths(r.TotalMonths()).AddDays(r.Days)
}

func (r ExperienceResult) String() string {
	return fmt.Sprintf("%dy %dm %dd", r.Years, r.Months, r.Days)
}
