package batch

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/warp/seniority-engine/calendar"
	"github.com/warp/seniority-engine/promotion"
	"github.com/warp/seniority-engine/sheet"
	"golang.org/x/sync/errgroup"
)

// Processor runs promotion and experience batches.
type Processor struct {
	Schedule promotion.Schedule
	Clock    calendar.Clock
	Workers  int
	Recorder RunRecorder
}

// NewProcessor creates a processor. A nil recorder disables the run log.
func NewProcessor(schedule promotion.Schedule, clock calendar.Clock, workers int, recorder RunRecorder) *Processor {
	return &Processor{
		Schedule: schedule,
		Clock:    clock,
		Workers:  workers,
		Recorder: recorder,
	}
}

func (p *Processor) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.NumCPU()
}

// eachRow calls fn for every row index on a bounded worker group and
// returns the number of rows fn reported as invalid.
func (p *Processor) eachRow(ctx context.Context, n int, fn func(i int) bool) (int, error) {
	var invalid atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())

	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if !fn(i) {
				invalid.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int(invalid.Load()), nil
}

func (p *Processor) newRun(kind Kind, fileName string) Run {
	return Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		FileName:  fileName,
		StartedAt: time.Now().UTC(),
	}
}

// finish stamps the run with its outcome and records it.
func (p *Processor) finish(ctx context.Context, run *Run, err error) {
	run.CompletedAt = time.Now().UTC()
	switch {
	case err == nil:
		run.Status = StatusCompleted
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		run.Status = StatusCancelled
		run.Error = err.Error()
	default:
		run.Status = StatusFailed
		run.Error = err.Error()
	}

	logger := log.With().
		Str("run_id", run.ID).
		Str("kind", string(run.Kind)).
		Str("file", run.FileName).
		Logger()

	if err != nil {
		logger.Warn().Err(err).Str("status", string(run.Status)).Msg("Batch run did not complete")
	} else {
		logger.Info().
			Int("rows", run.Rows).
			Int("invalid_rows", run.InvalidRows).
			Dur("duration", run.Duration()).
			Msg("Batch run completed")
	}

	if p.Recorder == nil {
		return
	}
	// The caller's context may already be cancelled; the record still matters.
	if rerr := p.Recorder.SaveRun(context.WithoutCancel(ctx), *run); rerr != nil {
		logger.Error().Err(rerr).Msg("Failed to record batch run")
	}
}

// outputRow copies the original row padded to width and appends the result
// cells. width must be in.Width() so results line up with outputHeader.
func outputRow(in *sheet.Table, i, width int, results []calendar.Cell) []calendar.Cell {
	row := in.PaddedRow(i, width)
	out := make([]calendar.Cell, 0, len(row)+len(results))
	out = append(out, row...)
	return append(out, results...)
}

// outputHeader copies the header padded to width and appends labels.
func outputHeader(in *sheet.Table, width int, labels ...string) []string {
	header := make([]string, width, width+len(labels))
	copy(header, in.Header)
	return append(header, labels...)
}

func placeholders(n int) []calendar.Cell {
	cells := make([]calendar.Cell, n)
	for i := range cells {
		cells[i] = calendar.TextCell(InvalidDatePlaceholder)
	}
	return cells
}
