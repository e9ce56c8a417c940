package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/seniority-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, runtime.NumCPU(), cfg.Batch.Workers)
	assert.EqualValues(t, 20<<20, cfg.Upload.MaxBytes)
	assert.Equal(t, 30, cfg.Upload.RatePerMinute)
	assert.Equal(t, 5, cfg.Upload.Burst)
	assert.Equal(t, 720*time.Hour, cfg.Runs.Retention)
	assert.Equal(t, time.Hour, cfg.Runs.PruneInterval)
	assert.Empty(t, cfg.ScheduleFile)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoad_EnvOverrides(t *testing.T) {
	// GIVEN: Prefixed environment variables, including nested keys
	t.Setenv("SENIORITY_PORT", "9090")
	t.Setenv("SENIORITY_ENV", "production")
	t.Setenv("SENIORITY_CORS_ORIGINS", "https://hr.example.com, https://admin.example.com")
	t.Setenv("SENIORITY_BATCH_WORKERS", "3")
	t.Setenv("SENIORITY_RUNS_RETENTION", "24h")
	t.Setenv("SENIORITY_LOG_LEVEL", "DEBUG")

	// WHEN: Loading
	cfg, err := config.Load("")
	require.NoError(t, err)

	// THEN: Env values win over defaults
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://hr.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.Batch.Workers)
	assert.Equal(t, 24*time.Hour, cfg.Runs.Retention)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seniority.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
schedule_file: tiers.json
upload:
  max_rows: 500
runs:
  prune_interval: 10m
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "tiers.json", cfg.ScheduleFile)
	assert.Equal(t, 500, cfg.Upload.MaxRows)
	assert.Equal(t, 10*time.Minute, cfg.Runs.PruneInterval)
	assert.Equal(t, 5, cfg.Upload.Burst, "unset keys keep defaults")
}

func TestLoad_ConfigFileFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seniority.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port": "7100"}`), 0o644))
	t.Setenv("SENIORITY_CONFIG", path)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "7100", cfg.Port)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("SENIORITY_BATCH_WORKERS", "0")
	t.Setenv("SENIORITY_UPLOAD_BURST", "-1")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch.workers")
	assert.Contains(t, err.Error(), "upload.burst")

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLevel_Fallback(t *testing.T) {
	cfg := &config.Config{LogLevel: "chatty"}
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}
