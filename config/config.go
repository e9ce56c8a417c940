/*
Package config loads runtime configuration for the server and CLI.

SOURCES (later wins):
  1. Built-in defaults
  2. Optional config file (yaml, json or toml; path from SENIORITY_CONFIG or --config)
  3. .env file in the working directory, if present
  4. Environment variables prefixed SENIORITY_ (nested keys use _ : SENIORITY_BATCH_WORKERS)

KEYS:
  port                   HTTP listen port             (8080)
  db_path                sqlite run log path          (:memory:)
  env                    development | production     (development)
  cors_origins           comma separated origins      (http://localhost:3000)
  log_level              zerolog level                (info)
  schedule_file          JSON tier schedule           (built-in 30/36/42)
  batch.workers          rows processed in parallel   (NumCPU)
  upload.max_bytes       upload size cap              (20 MiB)
  upload.max_rows        data rows read per upload    (100000)
  upload.rate_per_minute uploads per client           (30)
  upload.burst           burst above the rate         (5)
  runs.retention         run history kept for         (720h)
  runs.prune_interval    how often history is pruned  (1h)
*/
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const envPrefix = "SENIORITY"

// Config holds all configuration for the application.
type Config struct {
	// Server
	Port        string
	CORSOrigins []string
	Env         string
	LogLevel    string

	// Storage
	DBPath string

	// Domain
	ScheduleFile string

	Batch  BatchConfig
	Upload UploadConfig
	Runs   RunsConfig
}

// BatchConfig controls row processing.
type BatchConfig struct {
	Workers int
}

// UploadConfig limits what clients may upload.
type UploadConfig struct {
	MaxBytes      int64
	MaxRows       int
	RatePerMinute int
	Burst         int
}

// RunsConfig controls run history retention.
type RunsConfig struct {
	Retention     time.Duration
	PruneInterval time.Duration
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Load reads configuration. configFile may be empty; SENIORITY_CONFIG is
// consulted in that case.
func Load(configFile string) (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := newViper()
	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("db_path", ":memory:")
	v.SetDefault("env", "development")
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("schedule_file", "")
	v.SetDefault("batch.workers", runtime.NumCPU())
	v.SetDefault("upload.max_bytes", 20<<20)
	v.SetDefault("upload.max_rows", 100_000)
	v.SetDefault("upload.rate_per_minute", 30)
	v.SetDefault("upload.burst", 5)
	v.SetDefault("runs.retention", 720*time.Hour)
	v.SetDefault("runs.prune_interval", time.Hour)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("config")
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:         v.GetString("port"),
		CORSOrigins:  splitList(v.GetString("cors_origins")),
		Env:          v.GetString("env"),
		LogLevel:     v.GetString("log_level"),
		DBPath:       v.GetString("db_path"),
		ScheduleFile: v.GetString("schedule_file"),
		Batch: BatchConfig{
			Workers: v.GetInt("batch.workers"),
		},
		Upload: UploadConfig{
			MaxBytes:      v.GetInt64("upload.max_bytes"),
			MaxRows:       v.GetInt("upload.max_rows"),
			RatePerMinute: v.GetInt("upload.rate_per_minute"),
			Burst:         v.GetInt("upload.burst"),
		},
		Runs: RunsConfig{
			Retention:     v.GetDuration("runs.retention"),
			PruneInterval: v.GetDuration("runs.prune_interval"),
		},
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.Batch.Workers <= 0 {
		errs = append(errs, fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, fmt.Errorf("upload.max_bytes must be positive, got %d", c.Upload.MaxBytes))
	}
	if c.Upload.MaxRows <= 0 {
		errs = append(errs, fmt.Errorf("upload.max_rows must be positive, got %d", c.Upload.MaxRows))
	}
	if c.Upload.RatePerMinute <= 0 || c.Upload.Burst <= 0 {
		errs = append(errs, errors.New("upload.rate_per_minute and upload.burst must be positive"))
	}
	if c.Runs.Retention <= 0 || c.Runs.PruneInterval <= 0 {
		errs = append(errs, errors.New("runs.retention and runs.prune_interval must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
