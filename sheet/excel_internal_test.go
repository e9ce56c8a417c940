package sheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/seniority-engine/calendar"
)

func TestClassifyXLS(t *testing.T) {
	tests := []struct {
		in   string
		want calendar.Cell
	}{
		{"", calendar.EmptyCell()},
		{"  ", calendar.EmptyCell()},
		{"44927", calendar.NumberCell(44927)},
		{"2021.03.15", calendar.TimeCell(time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC))},
		{"2021-03-15T00:00:00Z", calendar.TimeCell(time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC))},
		{"15/03/2021", calendar.TextCell("15/03/2021")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := classifyXLS(tt.in)
			assert.Equal(t, tt.want.Kind, got.Kind)
			if tt.want.Kind == calendar.CellTime {
				assert.True(t, tt.want.Time.Equal(got.Time))
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTrimTrailingEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b"}, trimTrailingEmpty([]string{"a", "", "b", " ", ""}))
	assert.Empty(t, trimTrailingEmpty([]string{"", ""}))
}
