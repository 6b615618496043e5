package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	Sync     SyncConfig
	Notify   NotifyConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// DatabaseConfig holds the embedded database settings
type DatabaseConfig struct {
	Path            string // SQLite file path, or :memory:
	BusyTimeout     int    // in milliseconds
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// SyncConfig holds sync scheduling configuration
type SyncConfig struct {
	Enabled           bool
	OrderInterval     time.Duration // gap between order ingestion passes
	TrackingInterval  time.Duration // gap between tracking poll passes
	InitialLookback   time.Duration // pull window for a platform with no sync history
	Overlap           time.Duration // window overlap to absorb clock skew between passes
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	StaleRunThreshold time.Duration // running runs older than this are treated as aborted
}

// NotifyConfig holds customer notification configuration
type NotifyConfig struct {
	Enabled  bool
	Cooldown time.Duration // minimum gap between repeats of the same notification
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SHIPSYNC_ prefix (e.g., SHIPSYNC_DATABASE_PATH)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SHIPSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Database: DatabaseConfig{
			Path:            v.GetString("database.path"),
			BusyTimeout:     v.GetInt("database.busy_timeout"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Sync: SyncConfig{
			Enabled:           v.GetBool("sync.enabled"),
			OrderInterval:     v.GetDuration("sync.order_interval"),
			TrackingInterval:  v.GetDuration("sync.tracking_interval"),
			InitialLookback:   v.GetDuration("sync.initial_lookback"),
			Overlap:           v.GetDuration("sync.overlap"),
			MaxConcurrentJobs: v.GetInt("sync.max_concurrent_jobs"),
			JobTimeout:        v.GetDuration("sync.job_timeout"),
			StaleRunThreshold: v.GetDuration("sync.stale_run_threshold"),
		},
		Notify: NotifyConfig{
			Enabled:  v.GetBool("notify.enabled"),
			Cooldown: v.GetDuration("notify.cooldown"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "shipsync-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "shipsync.db"
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = 5000
	}
	if cfg.Database.MaxOpenConns == 0 {
		// SQLite serializes writes; a small pool avoids lock contention
		cfg.Database.MaxOpenConns = 4
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Sync.OrderInterval == 0 {
		cfg.Sync.OrderInterval = 15 * time.Minute
	}
	if cfg.Sync.TrackingInterval == 0 {
		cfg.Sync.TrackingInterval = 30 * time.Minute
	}
	if cfg.Sync.InitialLookback == 0 {
		cfg.Sync.InitialLookback = 30 * 24 * time.Hour
	}
	if cfg.Sync.Overlap == 0 {
		cfg.Sync.Overlap = 5 * time.Minute
	}
	if cfg.Sync.MaxConcurrentJobs == 0 {
		cfg.Sync.MaxConcurrentJobs = 3
	}
	if cfg.Sync.JobTimeout == 0 {
		cfg.Sync.JobTimeout = 10 * time.Minute
	}
	if cfg.Sync.StaleRunThreshold == 0 {
		cfg.Sync.StaleRunThreshold = time.Hour
	}
	if cfg.Notify.Cooldown == 0 {
		cfg.Notify.Cooldown = 24 * time.Hour
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Sync.Overlap >= c.Sync.InitialLookback {
		return fmt.Errorf("sync.overlap (%s) cannot exceed sync.initial_lookback (%s)",
			c.Sync.Overlap, c.Sync.InitialLookback)
	}
	if c.Sync.JobTimeout >= c.Sync.StaleRunThreshold {
		return fmt.Errorf("sync.stale_run_threshold (%s) must exceed sync.job_timeout (%s)",
			c.Sync.StaleRunThreshold, c.Sync.JobTimeout)
	}
	return nil
}

// DSN returns the SQLite connection string. WAL keeps readers unblocked
// during the writer's sync passes; the busy timeout covers the rest.
func (d *DatabaseConfig) DSN() string {
	q := url.Values{}
	q.Set("_journal_mode", "WAL")
	q.Set("_busy_timeout", fmt.Sprintf("%d", d.BusyTimeout))
	q.Set("_foreign_keys", "on")
	return fmt.Sprintf("file:%s?%s", d.Path, q.Encode())
}
