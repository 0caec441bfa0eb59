package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/timeanalytics/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise the configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), a.configPath, cfg)
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", a.configPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Default().SaveTo(a.configPath); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.configPath)
		},
	}

	cmd.AddCommand(show, initCmd, path)
	return cmd
}

func printConfig(w io.Writer, path string, cfg *config.Config) {
	fmt.Fprintf(w, "Configuration (%s):\n", path)
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[report]")
	fmt.Fprintf(w, "  granularity = %s\n", cfg.Report.Granularity)
	fmt.Fprintf(w, "  week_start  = %s\n", cfg.Report.WeekStart)
	fmt.Fprintf(w, "  view        = %s\n", cfg.Report.View)
	fmt.Fprintf(w, "  chart       = %s\n", cfg.Report.Chart)
	fmt.Fprintf(w, "  preset      = %s\n", cfg.Report.Preset)
	fmt.Fprintf(w, "  per_page    = %d\n", cfg.Report.PerPage)
	if len(cfg.Report.Umbrella.Projects) > 0 {
		fmt.Fprintln(w, "\n[report.umbrella]")
		fmt.Fprintf(w, "  label       = %s\n", cfg.Report.Umbrella.Label)
		fmt.Fprintf(w, "  projects    = %s\n", strings.Join(cfg.Report.Umbrella.Projects, ", "))
	}
	fmt.Fprintln(w, "\n[calendar]")
	fmt.Fprintf(w, "  weekend     = %s\n", strings.Join(cfg.Calendar.Weekend, ", "))
	fmt.Fprintf(w, "  holidays    = %s\n", cfg.Calendar.Holidays)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path     = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  level       = %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "  format      = %s\n", cfg.Log.Format)
}
