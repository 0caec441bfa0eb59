// Package cli wires the timeanalytics commands onto cobra.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/timeanalytics/internal/config"
	"github.com/sadopc/timeanalytics/internal/logging"
	"github.com/sadopc/timeanalytics/internal/report"
	"github.com/sadopc/timeanalytics/internal/store"
	"github.com/sadopc/timeanalytics/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	root *cobra.Command

	configPath string
	dbPath     string
	logLevel   string

	cfg   *config.Config
	log   *slog.Logger
	store *store.Store
	now   func() time.Time
}

// NewApp creates the CLI application. Configuration and storage are opened
// lazily, after flags are parsed.
func NewApp() *App {
	a := &App{now: time.Now}

	a.root = &cobra.Command{
		Use:   "timeanalytics",
		Short: "Time tracking analytics for individuals and teams",
		Long: `timeanalytics groups logged time into daily, weekly, monthly or yearly
periods, pivots it by activity, project or member, and renders the result
as tables, chart payloads, CSV or JSON.

Run without a subcommand to open the interactive dashboard.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd)
		},
	}

	pf := a.root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultConfigPath(), "Path to the config file")
	pf.StringVar(&a.dbPath, "db", "", "Path to the SQLite database (overrides storage.db_path)")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log.level)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.reportCmd())
	a.root.AddCommand(a.pivotCmd())
	a.root.AddCommand(a.chartCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.workdaysCmd())
	a.root.AddCommand(a.holidayCmd())
	a.root.AddCommand(a.logCmd())
	a.root.AddCommand(a.projectCmd())
	a.root.AddCommand(a.userCmd())
	a.root.AddCommand(a.activityCmd())
	a.root.AddCommand(a.issueCmd())
	a.root.AddCommand(a.teamCmd())
	a.root.AddCommand(a.tuiCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "timeanalytics %s (commit: %s)\n", Version, Commit)
		},
	}
}

func (a *App) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd)
		},
	}
}

func (a *App) runTUI(_ *cobra.Command) error {
	s, err := a.db()
	if err != nil {
		return err
	}
	app := tui.NewApp(s, report.NewService(s, a.log), a.cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	defer a.Close()
	return a.root.Execute()
}

// SetArgs overrides os.Args[1:], for tests.
func (a *App) SetArgs(args []string) { a.root.SetArgs(args) }

// SetOutput redirects command output, for tests.
func (a *App) SetOutput(w io.Writer) {
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// Close releases the database, if it was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// loadConfig loads the configuration once, applying --db and --log-level.
func (a *App) loadConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.LoadFrom(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if a.dbPath != "" {
		cfg.Storage.DBPath = a.dbPath
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	a.cfg = cfg
	a.log = logging.New(cfg.LogOptions())
	return cfg, nil
}

// db opens the store once.
func (a *App) db() (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	s, err := store.New(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.log.Debug("database opened", "path", cfg.Storage.DBPath)
	a.store = s
	return s, nil
}

func (a *App) service() (*report.Service, error) {
	s, err := a.db()
	if err != nil {
		return nil, err
	}
	return report.NewService(s, a.log), nil
}
