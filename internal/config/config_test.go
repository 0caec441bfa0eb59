package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/timeanalytics/internal/period"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Report.Granularity != "weekly" {
		t.Errorf("expected granularity weekly, got %s", cfg.Report.Granularity)
	}
	if cfg.WeekStart() != time.Monday {
		t.Errorf("expected week start monday, got %s", cfg.WeekStart())
	}
	if cfg.Report.PerPage != 25 {
		t.Errorf("expected per_page 25, got %d", cfg.Report.PerPage)
	}
	if len(cfg.Weekend()) != 2 {
		t.Errorf("expected 2 weekend days, got %v", cfg.Weekend())
	}
	if cfg.Holidays() != nil {
		t.Error("expected no built-in holidays by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Report.View != "entries" {
		t.Errorf("expected default view, got %s", cfg.Report.View)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[report]
granularity = "monthly"
week_start = "sunday"
view = "project"
chart = "pie"
per_page = 10

[report.umbrella]
label = "Client Work"
projects = ["Website", "Mobile"]

[calendar]
weekend = ["friday", "saturday"]
holidays = "lk"

[storage]
db_path = "/tmp/test.db"

[log]
level = "debug"
format = "json"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := cfg.Grouping()
	if g.Granularity != period.Monthly || g.WeekStart != time.Sunday {
		t.Errorf("unexpected grouping: %+v", g)
	}
	if cfg.Report.View != "project" || cfg.Report.Chart != "pie" || cfg.Report.PerPage != 10 {
		t.Errorf("unexpected report section: %+v", cfg.Report)
	}
	if cfg.Report.Umbrella.Label != "Client Work" || len(cfg.Report.Umbrella.Projects) != 2 {
		t.Errorf("unexpected umbrella: %+v", cfg.Report.Umbrella)
	}
	weekend := cfg.Weekend()
	if len(weekend) != 2 || weekend[0] != time.Friday || weekend[1] != time.Saturday {
		t.Errorf("unexpected weekend: %v", weekend)
	}
	if cfg.Holidays() == nil {
		t.Error("expected Sri Lanka holidays")
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if opts := cfg.LogOptions(); opts.Level != "debug" || opts.Format != "json" {
		t.Errorf("unexpected log options: %+v", opts)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[report\ngranularity = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFrom_InvalidGranularity(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[report]\ngranularity = \"hourly\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFrom(configPath)
	if !errors.Is(err, period.ErrUnknownGranularity) {
		t.Errorf("expected ErrUnknownGranularity, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TA_GRANULARITY", "daily")
	t.Setenv("TA_WEEK_START", "sun")
	t.Setenv("TA_WEEKEND", "")
	t.Setenv("TA_HOLIDAYS", "lk")
	t.Setenv("TA_DB_PATH", "/tmp/env.db")
	t.Setenv("TA_PER_PAGE", "5")
	t.Setenv("TA_LOG_LEVEL", "error")

	cfg, err := LoadFrom("/nonexistent/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Granularity() != period.Daily {
		t.Errorf("expected daily, got %s", cfg.Granularity())
	}
	if cfg.WeekStart() != time.Sunday {
		t.Errorf("expected sunday, got %s", cfg.WeekStart())
	}
	if w := cfg.Weekend(); w == nil || len(w) != 0 {
		t.Errorf("empty TA_WEEKEND should mean no weekend, got %v", w)
	}
	if cfg.Holidays() == nil {
		t.Error("expected holidays from env")
	}
	if cfg.Storage.DBPath != "/tmp/env.db" || cfg.Report.PerPage != 5 || cfg.Log.Level != "error" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/data/ta.db"); got != filepath.Join(home, "data", "ta.db") {
		t.Errorf("expandPath = %s", got)
	}
	if got := expandPath("/abs/ta.db"); got != "/abs/ta.db" {
		t.Errorf("absolute path changed: %s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad week start", func(c *Config) { c.Report.WeekStart = "someday" }},
		{"bad view", func(c *Config) { c.Report.View = "issues" }},
		{"bad chart", func(c *Config) { c.Report.Chart = "donut" }},
		{"bad preset", func(c *Config) { c.Report.Preset = "next_decade" }},
		{"zero per page", func(c *Config) { c.Report.PerPage = 0 }},
		{"umbrella without label", func(c *Config) {
			c.Report.Umbrella = UmbrellaConfig{Projects: []string{"Website"}}
		}},
		{"bad weekend", func(c *Config) { c.Calendar.Weekend = []string{"caturday"} }},
		{"unknown calendar", func(c *Config) { c.Calendar.Holidays = "mars" }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Report.Granularity = "yearly"
	cfg.Calendar.Holidays = "lk"
	cfg.Storage.DBPath = "/tmp/saved.db"
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.Granularity() != period.Yearly {
		t.Errorf("expected yearly, got %s", loaded.Granularity())
	}
	if loaded.Calendar.Holidays != "lk" || loaded.Storage.DBPath != "/tmp/saved.db" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
