// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath   string
	LogFile        string
	LogLevel       string
	DefaultHorizon int
	WatchDatabase  bool
	WatchDebounce  time.Duration

	// ForecastAlertAbove is only meaningful when AlertEnabled is true.
	ForecastAlertAbove float64
	AlertEnabled       bool
}

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	dbPath := getEnvString("DATABASE_PATH", getDefaultDatabasePath())

	cfg := &Config{
		DatabasePath:   dbPath,
		LogFile:        getEnvString("LOG_FILE", defaultLogFile(dbPath)),
		LogLevel:       strings.ToLower(getEnvString("LOG_LEVEL", defaultLogLevel)),
		DefaultHorizon: getEnvInt("FORECAST_HORIZON", defaultHorizon),
		WatchDatabase:  getEnvBool("WATCH_DATABASE", true),
		WatchDebounce:  getEnvDuration("WATCH_DEBOUNCE", defaultWatchDebounce),
	}

	if v, ok := getEnvFloat("FORECAST_ALERT_ABOVE"); ok {
		cfg.ForecastAlertAbove = v
		cfg.AlertEnabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH must not be empty")
	}
	if c.DefaultHorizon < 1 {
		return fmt.Errorf("FORECAST_HORIZON must be a positive integer, got %d", c.DefaultHorizon)
	}
	if !isLogLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}

// SetDatabasePath overrides the database location, moving the default log
// file along with it unless LOG_FILE was set explicitly.
func (c *Config) SetDatabasePath(path string) error {
	if path == "" {
		return nil
	}
	if os.Getenv("LOG_FILE") == "" {
		c.LogFile = defaultLogFile(path)
	}
	c.DatabasePath = path
	return ensureDir(filepath.Dir(path))
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", appDirName, ".env"),
			filepath.Join(home, "."+appDirName, ".env"),
		)
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDatabaseFile
	}
	return filepath.Join(home, ".config", appDirName, defaultDatabaseFile)
}

// defaultLogFile places the log next to the database.
func defaultLogFile(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), defaultLogFileName)
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
// Accepts anything strconv.ParseBool does, plus "yes"/"no".
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return defaultValue
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

// getEnvFloat reports the parsed value of a float environment variable and
// whether it was set to something parseable.
func getEnvFloat(key string) (float64, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as milliseconds if no unit specified
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
