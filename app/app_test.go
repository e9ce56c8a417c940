package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/seniority-engine/app"
	"github.com/warp/seniority-engine/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:        "0",
		Env:         "test",
		LogLevel:    "warn",
		DBPath:      ":memory:",
		CORSOrigins: []string{"http://localhost:3000"},
		Batch:       config.BatchConfig{Workers: 2},
		Upload:      config.UploadConfig{MaxBytes: 1 << 20, MaxRows: 100, RatePerMinute: 30, Burst: 5},
		Runs:        config.RunsConfig{Retention: time.Hour, PruneInterval: time.Hour},
	}
}

func TestNew_WiresRouter(t *testing.T) {
	cfg := testConfig()
	app.SetupLogging(cfg)

	a, err := app.New(cfg)
	require.NoError(t, err)
	defer a.Close()

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tiers", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, a.Processor.Schedule.Tiers, 3)
}

func TestNew_CustomSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tiers":[{"id":"only","label":"Only","months":24}]}`), 0o644))

	cfg := testConfig()
	cfg.ScheduleFile = path

	a, err := app.New(cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, 24, a.Processor.Schedule.Tiers[0].Months)
}

func TestNew_BadSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.ScheduleFile = filepath.Join(t.TempDir(), "missing.json")

	_, err := app.New(cfg)
	assert.Error(t, err)
}

func TestServe_StopsOnCancel(t *testing.T) {
	a, err := app.New(testConfig())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
