/*
tiers.go - Promotion eligibility tiers

PURPOSE:
  A civil-service grade promotion can happen after a minimum, standard or
  maximum time in grade. Each tier is a fixed month offset from the
  seniority-in-grade date.

DEFAULT SCHEDULE:
  minimum   30 months (2.5 years)   الترقية الدنيا
  standard  36 months (3 years)     الترقية المتوسطة
  maximum   42 months (3.5 years)   الترقية القصوى

  The labels double as the column headers appended to processed workbooks.

DATE ARITHMETIC:
  Tier dates use calendar.Date.AddMonths, which rolls over past month end:
  2020-08-31 + 30 months = 2023-03-03, not 2023-02-28.

SEE ALSO:
  - schedule.go: JSON schedule configuration
  - calendar/date.go: AddMonths semantics
*/
package promotion

import (
	"github.com/shopspring/decimal"
	"github.com/warp/seniority-engine/calendar"
)

// =============================================================================
// TIERS
// =============================================================================

type TierID string

const (
	TierMinimum  TierID = "minimum"
	TierStandard TierID = "standard"
	TierMaximum  TierID = "maximum"
)

// Durations in months.
const (
	MinDurationMonths = 30
	MidDurationMonths = 36
	MaxDurationMonths = 42
)

// Column labels for the default tiers.
const (
	MinPromotionLabel = "الترقية الدنيا"
	MidPromotionLabel = "الترقية المتوسطة"
	MaxPromotionLabel = "الترقية القصوى"
)

// Tier is one eligibility window.
type Tier struct {
	ID     TierID
	Label  string
	Months int
}

// Years expresses the tier duration in years (30 months -> 2.5).
func (t Tier) Years() decimal.Decimal {
	return decimal.NewFromInt(int64(t.Months)).Div(decimal.NewFromInt(12))
}

// DateFrom returns the date the tier is reached from a seniority date.
func (t Tier) DateFrom(seniority calendar.Date) calendar.Date {
	return seniority.AddMonths(t.Months)
}

// =============================================================================
// SCHEDULE
// =============================================================================

// Schedule is the ordered set of tiers applied to every seniority date.
type Schedule struct {
	Tiers []Tier
}

// DefaultSchedule returns the 30/36/42 month schedule.
func DefaultSchedule() Schedule {
	return Schedule{Tiers: []Tier{
		{ID: TierMinimum, Label: MinPromotionLabel, Months: MinDurationMonths},
		{ID: TierStandard, Label: MidPromotionLabel, Months: MidDurationMonths},
		{ID: TierMaximum, Label: MaxPromotionLabel, Months: MaxDurationMonths},
	}}
}

// Labels returns the tier labels in schedule order.
func (s Schedule) Labels() []string {
	labels := make([]string, len(s.Tiers))
	for i, t := range s.Tiers {
		labels[i] = t.Label
	}
	return labels
}

// Tier looks up a tier by ID.
func (s Schedule) Tier(id TierID) (Tier, bool) {
	for _, t := range s.Tiers {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

// TierDate is a tier paired with the date it is reached.
type TierDate struct {
	Tier Tier
	Date calendar.Date
}

// Eligibility computes every tier date for one seniority date.
func (s Schedule) Eligibility(seniority calendar.Date) []TierDate {
	out := make([]TierDate, len(s.Tiers))
	for i, t := range s.Tiers {
		out[i] = TierDate{Tier: t, Date: t.DateFrom(seniority)}
	}
	return out
}

// Reached reports whether the tier date is today or earlier.
func (td TierDate) Reached(today calendar.Date) bool {
	return td.Date.BeforeOrEqual(today)
}

// Next returns the first tier reached strictly after today, if any.
func (s Schedule) Next(seniority, today calendar.Date) (TierDate, bool) {
	for _, td := range s.Eligibility(seniority) {
		if !td.Reached(today) {
			return td, true
		}
	}
	return TierDate{}, false
}
