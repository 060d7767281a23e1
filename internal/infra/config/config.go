package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application. Notification
// provider credentials are not here: they live in the settings record and
// are editable at runtime.
type AppConfig struct {
	DatabaseURL     string
	DBMaxConns      int
	ListenAddr      string
	LogLevel        string
	Environment     string
	CronSpec        string // trigger cadence; hourly by default, extra runs are deduped
	SendTimeout     time.Duration
	DispatchWorkers int
}

// Load reads configuration from environment variables and a .env file (if
// present). godotenv does not override variables already set.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.ListenAddr = os.Getenv("LISTEN_ADDR")
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.CronSpec = os.Getenv("NOTIFY_CRON_SPEC")
	if cfg.CronSpec == "" {
		cfg.CronSpec = "0 * * * *" // top of every hour
	}

	sendTimeout := os.Getenv("SEND_TIMEOUT")
	if sendTimeout == "" {
		cfg.SendTimeout = 15 * time.Second
	} else {
		d, err := time.ParseDuration(sendTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid SEND_TIMEOUT: %w", err)
		}
		cfg.SendTimeout = d
	}

	workers := os.Getenv("DISPATCH_WORKERS")
	if workers == "" {
		cfg.DispatchWorkers = 4
	} else {
		n, err := strconv.Atoi(workers)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid DISPATCH_WORKERS: %q", workers)
		}
		cfg.DispatchWorkers = n
	}

	maxConns := os.Getenv("DB_MAX_CONNS")
	if maxConns == "" {
		cfg.DBMaxConns = 25
	} else {
		n, err := strconv.Atoi(maxConns)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid DB_MAX_CONNS: %q", maxConns)
		}
		cfg.DBMaxConns = n
	}

	return cfg, nil
}
