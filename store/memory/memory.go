// Package memory provides an in-memory batch.RunStore (for tests and the CLI).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/seniority-engine/batch"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu   sync.RWMutex
	runs map[string]batch.Run
}

var _ batch.RunStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{runs: make(map[string]batch.Run)}
}

// SaveRun stores a run, replacing any run with the same ID.
func (m *Memory) SaveRun(_ context.Context, run batch.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = run
	return nil
}

func (m *Memory) GetRun(_ context.Context, id string) (*batch.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, nil
	}
	return &run, nil
}

func (m *Memory) ListRuns(_ context.Context, filter batch.RunFilter) ([]batch.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []batch.Run
	for _, run := range m.runs {
		if filter.Kind != "" && run.Kind != filter.Kind {
			continue
		}
		result = append(result, run)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].StartedAt.After(result[j].StartedAt)
		}
		return result[i].ID < result[j].ID
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *Memory) PruneRuns(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, run := range m.runs {
		if run.StartedAt.Before(before) {
			delete(m.runs, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored runs.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}
