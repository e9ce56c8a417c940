/*
Package batch applies the date engine to every row of an uploaded workbook.

PURPOSE:
  Two batch jobs mirror the two calculators:

    Promotion   seniority date column -> three tier date columns
    Experience  start (+ optional end) column -> years/months/days columns

  Both copy the original columns and append result columns. A row whose
  date cannot be parsed gets a placeholder in every result column; it never
  stops the batch.

CONCURRENCY:
  Rows are independent. They are fanned out to a bounded errgroup and each
  worker writes only its own output slot. Cancellation is checked between
  rows; a cancelled batch returns ctx.Err() and no output.

RUN LOG:
  Each batch is recorded through RunRecorder (counts and file names only,
  never row data). Recording failures are logged and do not fail the batch.

SEE ALSO:
  - calendar/: Parsing and arithmetic
  - sheet/: Table, column resolution
  - store/sqlite: RunRecorder implementation
*/
package batch

import (
	"context"
	"time"

	"github.com/warp/seniority-engine/sheet"
)

// =============================================================================
// OUTPUT LABELS
// =============================================================================

const (
	// InvalidDatePlaceholder fills every result column of an unparseable row.
	InvalidDatePlaceholder = "تاريخ غير صالح"

	YearsLabel  = "السنوات"
	MonthsLabel = "الأشهر"
	DaysLabel   = "الأيام"

	PromotionSheetName  = "البيانات المعالجة"
	ExperienceSheetName = "الخبرة المحسوبة"

	PromotionSuffix  = "_معالج"
	ExperienceSuffix = "_الخبرة"
)

// =============================================================================
// RUNS
// =============================================================================

type Kind string

const (
	KindPromotion  Kind = "promotion"
	KindExperience Kind = "experience"
)

// Valid reports whether k names a known batch kind.
func (k Kind) Valid() bool {
	return k == KindPromotion || k == KindExperience
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Run is the audit record of one batch.
type Run struct {
	ID          string
	Kind        Kind
	FileName    string
	OutputName  string
	Rows        int
	InvalidRows int
	Status      Status
	Error       string
	StartedAt   time.Time
	CompletedAt time.Time
}

// Duration is the wall time the batch took.
func (r Run) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// RunRecorder persists run records.
type RunRecorder interface {
	SaveRun(ctx context.Context, run Run) error
}

// RunFilter narrows ListRuns. Zero values mean no filter.
type RunFilter struct {
	Kind  Kind
	Limit int
}

// RunStore is the full run log: recording, lookup and retention.
type RunStore interface {
	RunRecorder
	// GetRun returns nil, nil when the run does not exist.
	GetRun(ctx context.Context, id string) (*Run, error)
	// ListRuns returns runs newest first.
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)
	// PruneRuns deletes runs started before the cutoff and returns the count.
	PruneRuns(ctx context.Context, before time.Time) (int64, error)
}

// =============================================================================
// RESULT
// =============================================================================

// Result is a processed workbook ready to be written.
type Result struct {
	Run   Run
	Table *sheet.Table
	// Columns lists the letters of the input columns the dates were read
	// from, in request order (promotion: date; experience: start[, end]).
	Columns []string
}
