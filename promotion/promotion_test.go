package promotion_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/seniority-engine/calendar"
	"github.com/warp/seniority-engine/promotion"
)

func date(y int, m time.Month, d int) calendar.Date {
	return calendar.NewDate(y, m, d)
}

// =============================================================================
// DEFAULT SCHEDULE TESTS
// =============================================================================

func TestDefaultSchedule_Eligibility(t *testing.T) {
	// GIVEN: Seniority in grade since January 15, 2020
	s := promotion.DefaultSchedule()

	// WHEN: Computing tier dates
	got := s.Eligibility(date(2020, time.January, 15))

	// THEN: 30, 36 and 42 months later
	require.Len(t, got, 3)
	assert.Equal(t, promotion.TierMinimum, got[0].Tier.ID)
	assert.Equal(t, date(2022, time.July, 15), got[0].Date)
	assert.Equal(t, date(2023, time.January, 15), got[1].Date)
	assert.Equal(t, date(2023, time.July, 15), got[2].Date)
}

func TestEligibility_MonthEndRollsOver(t *testing.T) {
	got := promotion.DefaultSchedule().Eligibility(date(2020, time.August, 31))
	assert.Equal(t, date(2023, time.March, 3), got[0].Date, "Feb 31 rolls into March")
	assert.Equal(t, date(2023, time.August, 31), got[1].Date)
	assert.Equal(t, date(2024, time.March, 2), got[2].Date, "leap February rolls one day less")
}

func TestTier_Years(t *testing.T) {
	s := promotion.DefaultSchedule()
	want := []string{"2.5", "3", "3.5"}
	for i, tier := range s.Tiers {
		assert.True(t, tier.Years().Equal(decimal.RequireFromString(want[i])), "tier %s: %s", tier.ID, tier.Years())
	}
}

func TestSchedule_LabelsAndLookup(t *testing.T) {
	s := promotion.DefaultSchedule()
	assert.Equal(t, []string{
		promotion.MinPromotionLabel,
		promotion.MidPromotionLabel,
		promotion.MaxPromotionLabel,
	}, s.Labels())

	tier, ok := s.Tier(promotion.TierMaximum)
	require.True(t, ok)
	assert.Equal(t, 42, tier.Months)

	_, ok = s.Tier("exceptional")
	assert.False(t, ok)
}

func TestSchedule_Next(t *testing.T) {
	s := promotion.DefaultSchedule()
	seniority := date(2020, time.January, 15)

	next, ok := s.Next(seniority, date(2022, time.October, 1))
	require.True(t, ok)
	assert.Equal(t, promotion.TierStandard, next.Tier.ID)

	_, ok = s.Next(seniority, date(2024, time.January, 1))
	assert.False(t, ok, "all tiers already reached")
}

func TestTierDate_Reached(t *testing.T) {
	td := promotion.DefaultSchedule().Eligibility(date(2020, time.January, 15))[0]
	require.Equal(t, date(2022, time.July, 15), td.Date)

	assert.False(t, td.Reached(date(2022, time.July, 14)))
	assert.True(t, td.Reached(date(2022, time.July, 15)), "the tier date itself counts as reached")
	assert.True(t, td.Reached(date(2023, time.January, 1)))
}

// =============================================================================
// JSON SCHEDULE TESTS
// =============================================================================

func TestParseSchedule_Valid(t *testing.T) {
	s, err := promotion.ParseSchedule([]byte(`{
		"tiers": [
			{"id": "early", "label": "Early", "months": 24},
			{"id": "late", "label": "Late", "months": 48}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, s.Tiers, 2)
	assert.Equal(t, date(2022, time.January, 15), s.Eligibility(date(2020, time.January, 15))[0].Date)
}

func TestParseSchedule_Invalid(t *testing.T) {
	tests := map[string]string{
		"malformed":       `{"tiers": [`,
		"empty":           `{"tiers": []}`,
		"missing id":      `{"tiers": [{"label": "A", "months": 12}]}`,
		"missing label":   `{"tiers": [{"id": "a", "months": 12}]}`,
		"duplicate id":    `{"tiers": [{"id": "a", "label": "A", "months": 12}, {"id": "a", "label": "B", "months": 24}]}`,
		"duplicate label": `{"tiers": [{"id": "a", "label": "A", "months": 12}, {"id": "b", "label": "A", "months": 24}]}`,
		"zero months":     `{"tiers": [{"id": "a", "label": "A", "months": 0}]}`,
		"not increasing":  `{"tiers": [{"id": "a", "label": "A", "months": 36}, {"id": "b", "label": "B", "months": 30}]}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := promotion.ParseSchedule([]byte(body))
			assert.ErrorIs(t, err, promotion.ErrInvalidSchedule)
		})
	}
}

func TestLoadSchedule(t *testing.T) {
	s, err := promotion.LoadSchedule("")
	require.NoError(t, err)
	assert.Equal(t, promotion.DefaultSchedule(), s)

	path := filepath.Join(t.TempDir(), "schedule.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tiers": [{"id": "only", "label": "Only", "months": 6}]}`), 0o644))

	s, err = promotion.LoadSchedule(path)
	require.NoError(t, err)
	assert.Equal(t, 6, s.Tiers[0].Months)

	_, err = promotion.LoadSchedule(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSchedule_ToJSONRoundTrip(t *testing.T) {
	sj := promotion.DefaultSchedule().ToJSON()
	assert.Equal(t, "minimum", sj.Tiers[0].ID)
	assert.Equal(t, 42, sj.Tiers[2].Months)
}
