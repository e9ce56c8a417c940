/*
scheduler.go - Run history retention scheduler

PURPOSE:
  Periodically deletes run log entries older than the retention window so
  the audit table does not grow without bound.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Prunes once immediately on start, then on every tick
  - Errors are logged; the next tick retries

CONFIGURATION:
  - Retention:     How long runs are kept (default: 30 days)
  - CheckInterval: How often to prune (default: 1 hour)
  - Enabled:       Whether scheduler is active (default: true)

USAGE:
  scheduler := NewRetentionScheduler(store, 720*time.Hour)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - store/sqlite: PruneRuns
  - config: runs.retention, runs.prune_interval
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/warp/seniority-engine/batch"
)

// RetentionScheduler prunes old runs from the run log.
type RetentionScheduler struct {
	Runs          batch.RunStore
	Retention     time.Duration
	CheckInterval time.Duration
	Enabled       bool

	// now is replaceable in tests.
	now func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewRetentionScheduler creates a new scheduler.
func NewRetentionScheduler(runs batch.RunStore, retention time.Duration) *RetentionScheduler {
	return &RetentionScheduler{
		Runs:          runs,
		Retention:     retention,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		now:           time.Now,
		logger:        log.With().Str("component", "scheduler").Logger(),
	}
}

// Start begins the scheduler.
func (rs *RetentionScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.logger.Info().Msg("Disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run(rs.ticker, rs.stop)

	rs.logger.Info().
		Dur("interval", rs.CheckInterval).
		Dur("retention", rs.Retention).
		Msg("Started")
}

// Stop stops the scheduler and waits for an in-flight prune to finish.
func (rs *RetentionScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.logger.Info().Msg("Stopped")
	}
}

func (rs *RetentionScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer rs.wg.Done()

	// Run immediately on start
	rs.RunNow(context.Background())

	for {
		select {
		case <-ticker.C:
			rs.RunNow(context.Background())
		case <-stop:
			return
		}
	}
}

// RunNow prunes immediately and returns the number of runs removed.
func (rs *RetentionScheduler) RunNow(ctx context.Context) int64 {
	cutoff := rs.now().Add(-rs.Retention)

	n, err := rs.Runs.PruneRuns(ctx, cutoff)
	if err != nil {
		rs.logger.Error().Err(err).Time("cutoff", cutoff).Msg("Prune failed")
		return 0
	}
	if n > 0 {
		rs.logger.Info().Int64("pruned", n).Time("cutoff", cutoff).Msg("Pruned run history")
	}
	return n
}

// GetNextRunTime returns when the next scheduled check will occur.
func (rs *RetentionScheduler) GetNextRunTime() time.Time {
	return rs.now().Add(rs.CheckInterval)
}
