package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/seniority-engine/batch"
	"github.com/warp/seniority-engine/store/memory"
)

func seedRuns(t *testing.T, runs batch.RunRecorder, now time.Time) {
	t.Helper()
	ctx := context.Background()
	for _, age := range []time.Duration{time.Hour, 10 * 24 * time.Hour, 40 * 24 * time.Hour, 90 * 24 * time.Hour} {
		require.NoError(t, runs.SaveRun(ctx, batch.Run{
			ID:        age.String(),
			Kind:      batch.KindPromotion,
			StartedAt: now.Add(-age),
		}))
	}
}

func TestRetentionScheduler_RunNow(t *testing.T) {
	// GIVEN: Runs aged 1h, 10d, 40d and 90d with a 30 day retention
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	runs := memory.NewMemory()
	seedRuns(t, runs, now)

	rs := NewRetentionScheduler(runs, 30*24*time.Hour)
	rs.now = func() time.Time { return now }

	// WHEN: Pruning
	n := rs.RunNow(context.Background())

	// THEN: The two oldest are gone
	assert.EqualValues(t, 2, n)
	assert.Equal(t, 2, runs.Len())

	// AND: A second prune is a no-op
	assert.Zero(t, rs.RunNow(context.Background()))
}

func TestRetentionScheduler_StartPrunesImmediately(t *testing.T) {
	now := time.Now()
	runs := memory.NewMemory()
	seedRuns(t, runs, now)

	rs := NewRetentionScheduler(runs, 30*24*time.Hour)
	rs.CheckInterval = time.Hour

	rs.Start()
	rs.Stop()

	assert.Equal(t, 2, runs.Len())
	assert.WithinDuration(t, now.Add(time.Hour), rs.GetNextRunTime(), time.Minute)
}

func TestRetentionScheduler_Disabled(t *testing.T) {
	runs := memory.NewMemory()
	seedRuns(t, runs, time.Now())

	rs := NewRetentionScheduler(runs, time.Hour)
	rs.Enabled = false
	rs.Start()
	rs.Stop()

	assert.Equal(t, 4, runs.Len())
}
