package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the client configuration loaded from the environment (and an
// optional .env file). Every field can be overridden by a CLI flag.
type Config struct {
	// API configuration
	ServerURL   string
	HTTPTimeout time.Duration

	// Local storage (auth token)
	StoragePath string

	LogLevel string

	// Optional live refresh and metrics
	NATSURL     string
	MetricsAddr string
}

// Load reads configuration from environment variables and validates it.
// With no envFiles, a .env in the working directory is loaded if present;
// explicitly named files must exist. Variables already set in the process win.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{}
	var errs []error

	cfg.ServerURL = strings.TrimRight(getEnvOrDefault("COMPTE_SERVER_URL", "http://localhost:8000"), "/")
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "error")
	cfg.NATSURL = os.Getenv("NATS_URL")
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	cfg.StoragePath = os.Getenv("COMPTE_STORAGE_PATH")
	if cfg.StoragePath == "" {
		path, err := defaultStoragePath()
		if err != nil {
			errs = append(errs, err)
		}
		cfg.StoragePath = path
	}

	timeout, err := parseDuration("COMPTE_HTTP_TIMEOUT", "30s")
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.HTTPTimeout = timeout
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.ServerURL == "" {
		errs = append(errs, fmt.Errorf("ServerURL is required"))
	} else if u, err := url.Parse(c.ServerURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("ServerURL must be an http(s) URL, got %q", c.ServerURL))
	}

	if c.StoragePath == "" {
		errs = append(errs, fmt.Errorf("StoragePath is required"))
	}

	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("HTTPTimeout must be positive"))
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if c.NATSURL != "" {
		if u, err := url.Parse(c.NATSURL); err != nil || u.Scheme == "" {
			errs = append(errs, fmt.Errorf("NATSURL must be a URL such as nats://localhost:4222, got %q", c.NATSURL))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}

	return nil
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", level)
}

// defaultStoragePath returns <user config dir>/compte/storage.db.
func defaultStoragePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory (set COMPTE_STORAGE_PATH): %w", err)
	}
	return filepath.Join(dir, "compte", "storage.db"), nil
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration from an environment variable or uses a default.
func parseDuration(key, defaultValue string) (time.Duration, error) {
	value := getEnvOrDefault(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return duration, nil
}
