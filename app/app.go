/*
Package app wires configuration into a running HTTP service.

STARTUP SEQUENCE:
  1. Configure zerolog from config (console output outside production)
  2. Load the tier schedule (built-in or schedule_file)
  3. Open the SQLite run log
  4. Build the batch processor, handler, rate limiter and router
  5. Serve until the context is cancelled, then shut down gracefully

GRACEFUL SHUTDOWN:
  When the context passed to Serve is cancelled:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the retention scheduler and rate limiter cleanup

Close releases the database afterwards.

SEE ALSO:
  - cmd/server: Flag-driven entry point
  - cmd/hrcalc: "serve" subcommand
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/warp/seniority-engine/api"
	"github.com/warp/seniority-engine/batch"
	"github.com/warp/seniority-engine/calendar"
	"github.com/warp/seniority-engine/config"
	"github.com/warp/seniority-engine/promotion"
	"github.com/warp/seniority-engine/store/sqlite"
)

// ShutdownTimeout bounds how long in-flight requests may run after shutdown starts.
const ShutdownTimeout = 30 * time.Second

// App holds the assembled service.
type App struct {
	Config    *config.Config
	Store     *sqlite.Store
	Processor *batch.Processor
	Handler   *api.Handler
	Router    *chi.Mux
	Limiter   *api.RateLimiter
	Scheduler *api.RetentionScheduler
}

// SetupLogging configures the global zerolog logger.
func SetupLogging(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(cfg.Level())
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// New assembles the service. The caller must Close it.
func New(cfg *config.Config) (*App, error) {
	schedule, err := promotion.LoadSchedule(cfg.ScheduleFile)
	if err != nil {
		return nil, fmt.Errorf("load tier schedule: %w", err)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}

	proc := batch.NewProcessor(schedule, calendar.SystemClock{}, cfg.Batch.Workers, store)
	handler := api.NewHandler(proc, store, cfg.Upload.MaxBytes, cfg.Upload.MaxRows)
	limiter := api.NewRateLimiter(cfg.Upload.RatePerMinute, cfg.Upload.Burst)

	scheduler := api.NewRetentionScheduler(store, cfg.Runs.Retention)
	scheduler.CheckInterval = cfg.Runs.PruneInterval

	return &App{
		Config:    cfg,
		Store:     store,
		Processor: proc,
		Handler:   handler,
		Router: api.NewRouter(handler, api.RouterOptions{
			CORSOrigins: cfg.CORSOrigins,
			Limiter:     limiter,
		}),
		Limiter:   limiter,
		Scheduler: scheduler,
	}, nil
}

// Serve listens on the configured port until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:         ":" + a.Config.Port,
		Handler:      a.Router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	a.Scheduler.Start()
	defer a.Scheduler.Stop()
	defer a.Limiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", a.Config.Port).
			Str("env", a.Config.Env).
			Int("tiers", len(a.Processor.Schedule.Tiers)).
			Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}

// Close releases the run log.
func (a *App) Close() error {
	return a.Store.Close()
}
