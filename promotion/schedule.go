/*
schedule.go - JSON tier schedule configuration

PURPOSE:
  Lets HR replace the 30/36/42 month defaults without a code change. The
  server and CLI load the file named by the schedule_file setting; with no
  file the default schedule is used.

JSON SCHEMA:
  {
    "tiers": [
      {"id": "minimum",  "label": "الترقية الدنيا",   "months": 30},
      {"id": "standard", "label": "الترقية المتوسطة", "months": 36},
      {"id": "maximum",  "label": "الترقية القصوى",   "months": 42}
    ]
  }

VALIDATION:
  - At least one tier
  - IDs and labels present and unique
  - Months positive and strictly increasing

SEE ALSO:
  - tiers.go: Tier and Schedule types
  - config/config.go: schedule_file setting
*/
package promotion

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScheduleJSON is the JSON representation of a schedule.
type ScheduleJSON struct {
	Tiers []TierJSON `json:"tiers"`
}

// TierJSON is the JSON representation of a tier.
type TierJSON struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Months int    `json:"months"`
}

// ErrInvalidSchedule is wrapped by every schedule validation failure.
var ErrInvalidSchedule = errors.New("invalid promotion schedule")

// =============================================================================
// PARSING
// =============================================================================

// ParseSchedule builds a validated Schedule from JSON.
func ParseSchedule(data []byte) (Schedule, error) {
	var sj ScheduleJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return Schedule{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	s := Schedule{Tiers: make([]Tier, len(sj.Tiers))}
	for i, t := range sj.Tiers {
		s.Tiers[i] = Tier{ID: TierID(t.ID), Label: t.Label, Months: t.Months}
	}

	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

// LoadSchedule reads a schedule file. An empty path yields the default schedule.
func LoadSchedule(path string) (Schedule, error) {
	if path == "" {
		return DefaultSchedule(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Schedule{}, fmt.Errorf("read schedule %s: %w", path, err)
	}
	return ParseSchedule(data)
}

// ToJSON converts the schedule back to its JSON form.
func (s Schedule) ToJSON() ScheduleJSON {
	sj := ScheduleJSON{Tiers: make([]TierJSON, len(s.Tiers))}
	for i, t := range s.Tiers {
		sj.Tiers[i] = TierJSON{ID: string(t.ID), Label: t.Label, Months: t.Months}
	}
	return sj
}

// Validate checks the schedule invariants.
func (s Schedule) Validate() error {
	if len(s.Tiers) == 0 {
		return fmt.Errorf("%w: no tiers", ErrInvalidSchedule)
	}

	ids := make(map[TierID]bool)
	labels := make(map[string]bool)
	prev := 0

	for i, t := range s.Tiers {
		switch {
		case t.ID == "":
			return fmt.Errorf("%w: tier %d has no id", ErrInvalidSchedule, i)
		case t.Label == "":
			return fmt.Errorf("%w: tier %q has no label", ErrInvalidSchedule, t.ID)
		case ids[t.ID]:
			return fmt.Errorf("%w: duplicate tier id %q", ErrInvalidSchedule, t.ID)
		case labels[t.Label]:
			return fmt.Errorf("%w: duplicate tier label %q", ErrInvalidSchedule, t.Label)
		case t.Months <= 0:
			return fmt.Errorf("%w: tier %q months must be positive", ErrInvalidSchedule, t.ID)
		case t.Months <= prev:
			return fmt.Errorf("%w: tier %q months must increase (%d after %d)", ErrInvalidSchedule, t.ID, t.Months, prev)
		}
		ids[t.ID] = true
		labels[t.Label] = true
		prev = t.Months
	}
	return nil
}
