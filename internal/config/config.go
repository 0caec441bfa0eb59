// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sadopc/timeanalytics/internal/calendar"
	"github.com/sadopc/timeanalytics/internal/chart"
	"github.com/sadopc/timeanalytics/internal/logging"
	"github.com/sadopc/timeanalytics/internal/period"
	"github.com/sadopc/timeanalytics/internal/store"
)

// Views lists the report views accepted in report.view.
var Views = []string{"entries", "activity", "project", "members"}

// Config holds the application configuration.
type Config struct {
	Report   ReportConfig   `toml:"report"`
	Calendar CalendarConfig `toml:"calendar"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
}

// ReportConfig holds the defaults used when a command does not say otherwise.
type ReportConfig struct {
	Granularity string         `toml:"granularity"` // daily, weekly, monthly, yearly
	WeekStart   string         `toml:"week_start"`  // e.g., "monday"
	View        string         `toml:"view"`        // entries, activity, project, members
	Chart       string         `toml:"chart"`       // bar, line, pie
	Preset      string         `toml:"preset"`      // e.g., "this_month"
	PerPage     int            `toml:"per_page"`
	Umbrella    UmbrellaConfig `toml:"umbrella"`
}

// UmbrellaConfig reports several projects under one label in project pivots.
type UmbrellaConfig struct {
	Label    string   `toml:"label"`
	Projects []string `toml:"projects"`
}

// CalendarConfig holds working-day settings.
type CalendarConfig struct {
	Weekend  []string `toml:"weekend"`  // e.g., ["saturday", "sunday"]
	Holidays string   `toml:"holidays"` // built-in calendar: "none" or "lk"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text, json
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			Granularity: string(period.Weekly),
			WeekStart:   "monday",
			View:        "entries",
			Chart:       string(chart.Bar),
			Preset:      "this_month",
			PerPage:     25,
			Umbrella:    UmbrellaConfig{Label: "Umbrella"},
		},
		Calendar: CalendarConfig{
			Weekend:  []string{"saturday", "sunday"},
			Holidays: "none",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

func defaultDBPath() string {
	path, err := store.DefaultDBPath()
	if err != nil {
		return "timeanalytics.db"
	}
	return path
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "timeanalytics", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

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

// applyEnvOverrides applies TA_* environment variables on top of the file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TA_GRANULARITY"); v != "" {
		cfg.Report.Granularity = v
	}
	if v := os.Getenv("TA_WEEK_START"); v != "" {
		cfg.Report.WeekStart = v
	}
	if v := os.Getenv("TA_VIEW"); v != "" {
		cfg.Report.View = v
	}
	if v := os.Getenv("TA_CHART"); v != "" {
		cfg.Report.Chart = v
	}
	if v := os.Getenv("TA_PRESET"); v != "" {
		cfg.Report.Preset = v
	}
	if v := os.Getenv("TA_PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Report.PerPage = n
		}
	}
	if v, ok := os.LookupEnv("TA_WEEKEND"); ok {
		cfg.Calendar.Weekend = splitList(v)
	}
	if v := os.Getenv("TA_HOLIDAYS"); v != "" {
		cfg.Calendar.Holidays = v
	}
	if v := os.Getenv("TA_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TA_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
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
	if _, err := period.ParseGranularity(c.Report.Granularity); err != nil {
		return err
	}
	if _, err := period.ParseWeekday(c.Report.WeekStart); err != nil {
		return fmt.Errorf("week_start: %w", err)
	}
	if !slices.Contains(Views, c.Report.View) {
		return fmt.Errorf("invalid view: %s", c.Report.View)
	}
	if _, err := chart.ParseKind(c.Report.Chart); err != nil {
		return err
	}
	if _, err := period.Preset(c.Report.Preset, time.Now(), time.Monday); err != nil {
		return err
	}
	if c.Report.PerPage <= 0 {
		return errors.New("per_page must be positive")
	}
	if len(c.Report.Umbrella.Projects) > 0 && c.Report.Umbrella.Label == "" {
		return errors.New("umbrella.label must be set when umbrella.projects is")
	}
	for _, day := range c.Calendar.Weekend {
		if _, err := period.ParseWeekday(day); err != nil {
			return fmt.Errorf("weekend: %w", err)
		}
	}
	if _, ok := calendar.Builtin(c.Calendar.Holidays); !ok {
		return fmt.Errorf("unknown holiday calendar: %s", c.Calendar.Holidays)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}
	return nil
}

// Granularity returns the validated report granularity.
func (c *Config) Granularity() period.Granularity {
	g, err := period.ParseGranularity(c.Report.Granularity)
	if err != nil {
		return period.Weekly
	}
	return g
}

// WeekStart returns the configured first day of the week.
func (c *Config) WeekStart() time.Weekday {
	wd, err := period.ParseWeekday(c.Report.WeekStart)
	if err != nil {
		return time.Monday
	}
	return wd
}

// Grouping combines Granularity and WeekStart.
func (c *Config) Grouping() period.Grouping {
	return period.Grouping{Granularity: c.Granularity(), WeekStart: c.WeekStart()}
}

// Weekend returns the configured weekend days. An explicitly empty list
// yields an empty, non-nil slice: every day is a working day.
func (c *Config) Weekend() []time.Weekday {
	if c.Calendar.Weekend == nil {
		return nil
	}
	days := make([]time.Weekday, 0, len(c.Calendar.Weekend))
	for _, name := range c.Calendar.Weekend {
		if wd, err := period.ParseWeekday(name); err == nil {
			days = append(days, wd)
		}
	}
	return days
}

// Holidays returns the built-in holiday calendar, or nil for none.
func (c *Config) Holidays() calendar.HolidaySource {
	src, _ := calendar.Builtin(c.Calendar.Holidays)
	return src
}

// LogOptions converts the [log] section for logging.New.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{Level: c.Log.Level, Format: c.Log.Format}
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
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
