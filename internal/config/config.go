// Package config loads client settings from the environment and flags.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// AppName is the application directory name.
	AppName = "pmt"

	// DBFile is the local settings database filename.
	DBFile = "pmt.db"

	// LogFile is the log filename. The terminal belongs to the UI.
	LogFile = "pmt.log"
)

// Config holds client settings.
type Config struct {
	// APIURL is the backend base URL, e.g. http://localhost:8000/api.
	APIURL string

	// DataDir holds the settings database and the log file.
	DataDir string

	LogLevel string

	// Timeout bounds every backend request.
	Timeout time.Duration

	// Theme names the color palette.
	Theme string

	// StartRoute overrides the restored route when non-empty.
	StartRoute string
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		APIURL:   envOrDefault("PMT_API_URL", "http://localhost:8000/api"),
		DataDir:  envOrDefault("PMT_DATA_DIR", DefaultDataDir()),
		LogLevel: envOrDefault("PMT_LOG_LEVEL", "info"),
		Timeout:  durationOrDefault("PMT_TIMEOUT", 10*time.Second),
		Theme:    envOrDefault("PMT_THEME", "tokyo-night"),
	}
}

// DefaultDataDir returns the default data directory.
// Uses XDG_DATA_HOME if set, otherwise $HOME/.local/share.
func DefaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return AppName
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, AppName)
}

func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid PMT_API_URL %q: %w", c.APIURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid PMT_API_URL %q: scheme must be http or https", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid PMT_API_URL %q: missing host", c.APIURL)
	}
	if c.DataDir == "" {
		return fmt.Errorf("PMT_DATA_DIR must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid PMT_TIMEOUT %s: must be positive", c.Timeout)
	}
	return nil
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DBPath returns the path of the settings database.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, DBFile)
}

// LogPath returns the path of the log file.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, LogFile)
}

// EnsureDir creates the data directory if it doesn't exist.
func (c Config) EnsureDir() error {
	return os.MkdirAll(c.DataDir, 0700)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func durationOrDefault(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// Validate reports non-positive values; unparsable ones fall back here.
		return defaultVal
	}
	return d
}
