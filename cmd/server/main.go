/*
main.go - Application entry point

PURPOSE:
  Starts the seniority engine HTTP server. Configuration comes from the
  environment (SENIORITY_*), an optional .env file and an optional config
  file; flags override the most common keys.

COMMAND-LINE FLAGS:
  -config  Config file (yaml, json or toml)
  -port    HTTP server port (overrides SENIORITY_PORT)
  -db      SQLite run log path (overrides SENIORITY_DB_PATH)
           Use ":memory:" for an in-memory run log

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file run log
  ./server -db="./data/runs.db"

  # Run on different port with a custom tier schedule
  SENIORITY_SCHEDULE_FILE=tiers.json ./server -port=3000

SEE ALSO:
  - app/app.go: Service assembly
  - api/server.go: Router configuration
  - config/config.go: Configuration keys
*/
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/warp/seniority-engine/app"
	"github.com/warp/seniority-engine/config"
)

func main() {
	// Flags
	configFile := flag.String("config", "", "Config file path")
	port := flag.String("port", "", "HTTP server port")
	dbPath := flag.String("db", "", "SQLite run log path")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	app.SetupLogging(cfg)

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer a.Close()

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("Server exited")
	}
}
