// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/rendezvous/internal/clock"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RENDEZVOUS_"

// Config holds the application configuration.
type Config struct {
	Schedule    ScheduleConfig    `toml:"schedule"`
	Participant ParticipantConfig `toml:"participant"`
	Storage     StorageConfig     `toml:"storage"`
	UI          UIConfig          `toml:"ui"`
	Log         LogConfig         `toml:"log"`
}

// ScheduleConfig holds the defaults for newly created meetings.
type ScheduleConfig struct {
	MinTime      string  `toml:"min_time"`      // e.g., "09:00"
	MaxTime      string  `toml:"max_time"`      // e.g., "17:00", "24:00" allowed
	IntervalSize float64 `toml:"interval_size"` // hours, multiple of 0.5
	Days         int     `toml:"days"`          // default meeting length in days
}

// ParticipantConfig identifies the local user.
type ParticipantConfig struct {
	ID string `toml:"id"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds CLI and TUI settings.
type UIConfig struct {
	Theme      string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
	TwelveHour bool   `toml:"twelve_hour"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			MinTime:      "09:00",
			MaxTime:      "17:00",
			IntervalSize: 1,
			Days:         7,
		},
		Participant: ParticipantConfig{
			ID: defaultParticipant(),
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

func defaultParticipant() string {
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	return "me"
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "rendezvous.db"
	}
	return filepath.Join(home, ".local", "share", "rendezvous", "rendezvous.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "rendezvous", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
// A .env file in the working directory feeds the environment without overriding it.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Debug("ignoring .env file", "error", err)
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvPrefix + "MIN_TIME"); v != "" {
		cfg.Schedule.MinTime = v
	}
	if v := os.Getenv(EnvPrefix + "MAX_TIME"); v != "" {
		cfg.Schedule.MaxTime = v
	}
	if v := os.Getenv(EnvPrefix + "INTERVAL_SIZE"); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %sINTERVAL_SIZE: %w", EnvPrefix, err)
		}
		cfg.Schedule.IntervalSize = size
	}
	if v := os.Getenv(EnvPrefix + "DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %sDAYS: %w", EnvPrefix, err)
		}
		cfg.Schedule.Days = days
	}

	if v := os.Getenv(EnvPrefix + "PARTICIPANT"); v != "" {
		cfg.Participant.ID = v
	}

	if v := os.Getenv(EnvPrefix + "DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv(EnvPrefix + "UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv(EnvPrefix + "TWELVE_HOUR"); v != "" {
		twelve, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing %sTWELVE_HOUR: %w", EnvPrefix, err)
		}
		cfg.UI.TwelveHour = twelve
	}

	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	minTime, err := clock.Parse(c.Schedule.MinTime)
	if err != nil {
		return fmt.Errorf("min_time: %w", err)
	}
	maxTime, err := clock.Parse(c.Schedule.MaxTime)
	if err != nil {
		return fmt.Errorf("max_time: %w", err)
	}
	if !minTime.Before(maxTime) {
		return errors.New("min_time must be before max_time")
	}
	if err := clock.ValidateSize(c.Schedule.IntervalSize); err != nil {
		return fmt.Errorf("interval_size: %w", err)
	}
	if c.Schedule.Days < 1 {
		return errors.New("days must be at least 1")
	}
	if strings.TrimSpace(c.Participant.ID) == "" {
		return errors.New("participant id must be set")
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Window returns the configured daily window. The config must be valid.
func (c *Config) Window() (clock.Clock, clock.Clock) {
	return clock.MustParse(c.Schedule.MinTime), clock.MustParse(c.Schedule.MaxTime)
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
