package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// History backends.
const (
	HistorySQLite = "sqlite"
	HistoryMongo  = "mongo"
	HistoryNone   = "none"
)

// Config represents the process configuration read from the environment.
type Config struct {
	Server    ServerConfig
	History   HistoryConfig
	Backend   BackendConfig
	Reconcile ReconcileConfig
	// SettingsFile points at the dairy settings YAML; empty means defaults.
	SettingsFile string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port    string
	Env     string
	AppName string
}

// HistoryConfig selects where calculator history is kept.
type HistoryConfig struct {
	Backend     string
	DBPath      string
	MongoURI    string
	MongoDBName string
}

// BackendConfig points at the collection backend used for reconciliation.
type BackendConfig struct {
	BaseURL string
	Token   string
}

// ReconcileConfig holds scheduler-related settings.
type ReconcileConfig struct {
	CronSchedule string
	Pages        int
	Timezone     string
	// CacheTTL keeps fetched listing pages for repeated runs; zero disables it.
	CacheTTL time.Duration
}

// Enabled reports whether scheduled reconciliation should run.
func (r ReconcileConfig) Enabled() bool {
	return r.CronSchedule != ""
}

// LoadEnv reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func LoadEnv(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// A missing .env is fine; the environment may be set directly.
		_ = godotenv.Load()
	}

	pages, err := strconv.Atoi(getenvWithDefault("RECONCILE_PAGES", "1"))
	if err != nil {
		return nil, fmt.Errorf("RECONCILE_PAGES must be an integer: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getenvWithDefault("RECONCILE_CACHE_TTL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("RECONCILE_CACHE_TTL must be a duration: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:    getenvWithDefault("API_PORT", "8080"),
			Env:     getenvWithDefault("API_ENV", "development"),
			AppName: getenvWithDefault("APP_NAME", "dudhiya-collection"),
		},
		History: HistoryConfig{
			Backend:     getenvWithDefault("HISTORY_BACKEND", HistorySQLite),
			DBPath:      getenvWithDefault("HISTORY_DB_PATH", "data/history.db"),
			MongoURI:    os.Getenv("MONGODB_URI"),
			MongoDBName: getenvWithDefault("MONGODB_DB_NAME", "dudhiya"),
		},
		Backend: BackendConfig{
			BaseURL: os.Getenv("BACKEND_BASE_URL"),
			Token:   os.Getenv("BACKEND_TOKEN"),
		},
		Reconcile: ReconcileConfig{
			CronSchedule: os.Getenv("RECONCILE_CRON"),
			Pages:        pages,
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
			CacheTTL:     cacheTTL,
		},
		SettingsFile: os.Getenv("DAIRY_SETTINGS_FILE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("API_PORT must be provided")
	}

	switch c.History.Backend {
	case HistorySQLite:
		if c.History.DBPath == "" {
			return errors.New("HISTORY_DB_PATH must be provided for the sqlite history backend")
		}
	case HistoryMongo:
		if c.History.MongoURI == "" {
			return errors.New("MONGODB_URI must be provided for the mongo history backend")
		}
		if c.History.MongoDBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	case HistoryNone:
	default:
		return fmt.Errorf("HISTORY_BACKEND must be one of sqlite, mongo, none; got %q", c.History.Backend)
	}

	if c.Reconcile.Enabled() {
		if c.Backend.BaseURL == "" {
			return errors.New("BACKEND_BASE_URL must be provided when RECONCILE_CRON is set")
		}
		if c.Reconcile.Pages < 1 {
			return errors.New("RECONCILE_PAGES must be at least 1")
		}
		if c.Reconcile.Timezone == "" {
			return errors.New("TIMEZONE must be provided")
		}
		if c.Reconcile.CacheTTL < 0 {
			return errors.New("RECONCILE_CACHE_TTL must not be negative")
		}
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
