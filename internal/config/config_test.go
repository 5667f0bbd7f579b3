package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Schedule.MinTime != "09:00" {
		t.Errorf("expected min_time 09:00, got %s", cfg.Schedule.MinTime)
	}
	if cfg.Schedule.MaxTime != "17:00" {
		t.Errorf("expected max_time 17:00, got %s", cfg.Schedule.MaxTime)
	}
	if cfg.Schedule.IntervalSize != 1 {
		t.Errorf("expected interval_size 1, got %v", cfg.Schedule.IntervalSize)
	}
	if cfg.Schedule.Days != 7 {
		t.Errorf("expected 7 days, got %d", cfg.Schedule.Days)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.MinTime != "09:00" {
		t.Errorf("expected default min_time, got %s", cfg.Schedule.MinTime)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[schedule]
min_time = "08:00"
max_time = "24:00"
interval_size = 0.5
days = 3

[participant]
id = "alice"

[storage]
db_path = "/tmp/test.db"

[ui]
theme = "latte"
twelve_hour = true

[log]
level = "debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.MinTime != "08:00" {
		t.Errorf("expected min_time 08:00, got %s", cfg.Schedule.MinTime)
	}
	if cfg.Schedule.MaxTime != "24:00" {
		t.Errorf("expected max_time 24:00, got %s", cfg.Schedule.MaxTime)
	}
	if cfg.Schedule.IntervalSize != 0.5 {
		t.Errorf("expected interval_size 0.5, got %v", cfg.Schedule.IntervalSize)
	}
	if cfg.Schedule.Days != 3 {
		t.Errorf("expected 3 days, got %d", cfg.Schedule.Days)
	}
	if cfg.Participant.ID != "alice" {
		t.Errorf("expected participant alice, got %s", cfg.Participant.ID)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.UI.Theme != "latte" || !cfg.UI.TwelveHour {
		t.Errorf("expected latte theme with twelve hour clock, got %+v", cfg.UI)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}

	minTime, maxTime := cfg.Window()
	if minTime.String() != "08:00" || maxTime.String() != "24:00" {
		t.Errorf("Window() = %s-%s", minTime, maxTime)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[schedule]
min_time = "08:00"
max_time = "16:00"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("RENDEZVOUS_MIN_TIME", "10:00")
	t.Setenv("RENDEZVOUS_INTERVAL_SIZE", "0.5")
	t.Setenv("RENDEZVOUS_PARTICIPANT", "bob")
	t.Setenv("RENDEZVOUS_TWELVE_HOUR", "true")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.Schedule.MinTime != "10:00" {
		t.Errorf("expected min_time 10:00 from env, got %s", cfg.Schedule.MinTime)
	}
	// File value should be kept when no env override
	if cfg.Schedule.MaxTime != "16:00" {
		t.Errorf("expected max_time 16:00 from file, got %s", cfg.Schedule.MaxTime)
	}
	// Env should override default
	if cfg.Schedule.IntervalSize != 0.5 {
		t.Errorf("expected interval_size 0.5 from env, got %v", cfg.Schedule.IntervalSize)
	}
	if cfg.Participant.ID != "bob" {
		t.Errorf("expected participant bob from env, got %s", cfg.Participant.ID)
	}
	if !cfg.UI.TwelveHour {
		t.Error("expected twelve_hour from env")
	}
}

func TestLoadFrom_BadEnvValue(t *testing.T) {
	t.Setenv("RENDEZVOUS_DAYS", "several")

	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected error for non numeric RENDEZVOUS_DAYS")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "default", modify: func(c *Config) {}},
		{name: "end of day", modify: func(c *Config) { c.Schedule.MaxTime = "24:00" }},
		{name: "half hour window", modify: func(c *Config) { c.Schedule.MinTime = "09:30"; c.Schedule.MaxTime = "10:00" }},
		{name: "missing leading zero", modify: func(c *Config) { c.Schedule.MinTime = "9:00" }, wantErr: true},
		{name: "off grid minutes", modify: func(c *Config) { c.Schedule.MinTime = "09:15" }, wantErr: true},
		{name: "min after max", modify: func(c *Config) { c.Schedule.MinTime = "18:00" }, wantErr: true},
		{name: "min equals max", modify: func(c *Config) { c.Schedule.MaxTime = "09:00" }, wantErr: true},
		{name: "bad interval size", modify: func(c *Config) { c.Schedule.IntervalSize = 0.25 }, wantErr: true},
		{name: "zero days", modify: func(c *Config) { c.Schedule.Days = 0 }, wantErr: true},
		{name: "blank participant", modify: func(c *Config) { c.Participant.ID = "  " }, wantErr: true},
		{name: "empty db path", modify: func(c *Config) { c.Storage.DBPath = "" }, wantErr: true},
		{name: "unknown log level", modify: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
		{name: "log level case", modify: func(c *Config) { c.Log.Level = "INFO" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Participant.ID = "alice"
			tc.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.Schedule.MinTime = "07:30"
	cfg.Schedule.MaxTime = "15:30"
	cfg.Schedule.IntervalSize = 0.5
	cfg.Participant.ID = "carol"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Schedule.MinTime != "07:30" {
		t.Errorf("expected min_time 07:30, got %s", loaded.Schedule.MinTime)
	}
	if loaded.Schedule.MaxTime != "15:30" {
		t.Errorf("expected max_time 15:30, got %s", loaded.Schedule.MaxTime)
	}
	if loaded.Schedule.IntervalSize != 0.5 {
		t.Errorf("expected interval_size 0.5, got %v", loaded.Schedule.IntervalSize)
	}
	if loaded.Participant.ID != "carol" {
		t.Errorf("expected participant carol, got %s", loaded.Participant.ID)
	}
}
