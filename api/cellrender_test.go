package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/seniority-engine/calendar"
)

func TestCellJSON(t *testing.T) {
	assert.Nil(t, cellJSON(calendar.EmptyCell()))
	assert.Equal(t, 3.0, cellJSON(calendar.NumberCell(3)))
	assert.Equal(t, "x", cellJSON(calendar.TextCell("x")))
	assert.Equal(t, "2021-03-15", cellJSON(calendar.TimeCell(time.Date(2021, time.March, 15, 9, 0, 0, 0, time.UTC))))
}
