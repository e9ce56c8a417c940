package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/seniority-engine/batch"
	"github.com/warp/seniority-engine/store/memory"
)

func TestMemory_RunLog(t *testing.T) {
	ctx := context.Background()
	m := memory.NewMemory()
	base := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, m.SaveRun(ctx, batch.Run{ID: "a", Kind: batch.KindPromotion, StartedAt: base}))
	require.NoError(t, m.SaveRun(ctx, batch.Run{ID: "b", Kind: batch.KindExperience, StartedAt: base.Add(time.Hour)}))
	require.NoError(t, m.SaveRun(ctx, batch.Run{ID: "c", Kind: batch.KindPromotion, StartedAt: base.Add(2 * time.Hour)}))

	got, err := m.GetRun(ctx, "b")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, batch.KindExperience, got.Kind)

	missing, err := m.GetRun(ctx, "zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)

	promos, err := m.ListRuns(ctx, batch.RunFilter{Kind: batch.KindPromotion})
	require.NoError(t, err)
	require.Len(t, promos, 2)
	assert.Equal(t, "c", promos[0].ID)
	assert.Equal(t, "a", promos[1].ID)

	n, err := m.PruneRuns(ctx, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, 1, m.Len())
}
