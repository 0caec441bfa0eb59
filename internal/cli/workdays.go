package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) workdaysCmd() *cobra.Command {
	var from, to, preset string
	cmd := &cobra.Command{
		Use:   "workdays",
		Short: "Count working days in a date range",
		Long: `Count the working days in a date range, excluding the configured weekend,
the built-in holiday calendar and any active custom holidays.`,
		Example: `  timeanalytics workdays --preset last_month
  timeanalytics workdays --from 2025-02-01 --to 2025-02-28`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			r, err := a.dateRange(from, to, preset, cfg.Grouping())
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			oracle, err := svc.Calendar(r, cfg.Weekend(), cfg.Holidays())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, formatHeader(r.String()))
			fmt.Fprintf(w, "%s of %d days\n", formatStats(fmt.Sprintf("%d working days", oracle.WorkingDays(r))), r.Days())
			for _, h := range oracle.Holidays(r) {
				fmt.Fprintf(w, "  %s  %s\n", formatInsight(h.Date.Format(time.DateOnly)), h.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&preset, "preset", "", "Named range, e.g. this_week, last_month")
	return cmd
}
