/*
Package sqlite provides a SQLite-backed run log.

PURPOSE:
  Implements batch.RunStore. Only run metadata is stored: file names, row
  counts, status and timestamps. Workbook contents never reach the database.

KEY TABLES:
  runs: One row per batch, keyed by the run UUID

INDEXES:
  - idx_runs_started_at:      Newest-first listing and retention pruning
  - idx_runs_kind_started_at: Listing filtered by batch kind

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Batches record from worker
  goroutines while the API lists runs.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  the single writer.

USAGE:
  store, err := sqlite.New("./data/runs.db")
  if err != nil {
      log.Fatal().Err(err).Msg("open run log")
  }
  defer store.Close()

  proc := batch.NewProcessor(schedule, clock, workers, store)

TIMESTAMPS:
  Stored as RFC 3339 UTC text, so lexical order equals time order.

SEE ALSO:
  - batch/types.go: RunStore interface
  - store/memory: In-memory implementation for tests and the CLI
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/seniority-engine/batch"
)

// Store implements batch.RunStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ batch.RunStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		file_name TEXT NOT NULL,
		output_name TEXT,
		rows INTEGER NOT NULL DEFAULT 0,
		invalid_rows INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		error TEXT,
		started_at TEXT NOT NULL,
		completed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at
		ON runs(started_at DESC);

	CREATE INDEX IF NOT EXISTS idx_runs_kind_started_at
		ON runs(kind, started_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RUN STORE
// =============================================================================

// SaveRun inserts a run, or replaces the outcome of an existing one.
func (s *Store) SaveRun(ctx context.Context, run batch.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO runs (id, kind, file_name, output_name, rows, invalid_rows, status, error, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			output_name = excluded.output_name,
			rows = excluded.rows,
			invalid_rows = excluded.invalid_rows,
			status = excluded.status,
			error = excluded.error,
			completed_at = excluded.completed_at
	`

	_, err := s.db.ExecContext(ctx, query,
		run.ID, string(run.Kind), run.FileName, nullString(run.OutputName),
		run.Rows, run.InvalidRows, string(run.Status), nullString(run.Error),
		formatTime(run.StartedAt), formatTime(run.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

const selectRun = `SELECT id, kind, file_name, output_name, rows, invalid_rows, status, error, started_at, completed_at FROM runs`

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*batch.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, err := scanRun(s.db.QueryRowContext(ctx, selectRun+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns runs newest first.
func (s *Store) ListRuns(ctx context.Context, filter batch.RunFilter) ([]batch.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectRun
	var args []any
	if filter.Kind != "" {
		query += " WHERE kind = ?"
		args = append(args, string(filter.Kind))
	}
	query += " ORDER BY started_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []batch.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// PruneRuns deletes runs started before the cutoff.
func (s *Store) PruneRuns(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", formatTime(before))
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return res.RowsAffected()
}

// =============================================================================
// HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (batch.Run, error) {
	var run batch.Run
	var kind, status, startedAt, completedAt string
	var outputName, errText sql.NullString

	err := row.Scan(&run.ID, &kind, &run.FileName, &outputName, &run.Rows, &run.InvalidRows,
		&status, &errText, &startedAt, &completedAt)
	if err != nil {
		return batch.Run{}, err
	}

	run.Kind = batch.Kind(kind)
	run.Status = batch.Status(status)
	run.OutputName = outputName.String
	run.Error = errText.String
	run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	run.CompletedAt, _ = time.Parse(time.RFC3339Nano, completedAt)
	return run, nil
}

// formatTime uses a fixed-width layout so text comparison matches time order.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
