package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/timeanalytics/internal/period"
)

func (a *App) holidayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holiday",
		Short: "Manage custom holidays",
		Long: `Custom holidays are inclusive date ranges, such as a company shutdown,
that are excluded from working-day counts while they are active.`,
	}

	var from, to, description string
	add := &cobra.Command{
		Use:     "add NAME",
		Short:   "Create a custom holiday",
		Args:    cobra.ExactArgs(1),
		Example: `  timeanalytics holiday add Shutdown --from 2024-12-23 --to 2025-01-03`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" {
				to = from
			}
			r, err := period.ParseRange(from, to)
			if err != nil {
				return err
			}
			s, err := a.db()
			if err != nil {
				return err
			}
			h, err := s.CreateHoliday(args[0], r.From, r.To, description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created holiday %s (id %d): %s..%s\n",
				h.Name, h.ID, h.StartDate.Format(time.DateOnly), h.EndDate.Format(time.DateOnly))
			return nil
		},
	}
	add.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD)")
	add.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD, default --from)")
	add.Flags().StringVarP(&description, "description", "d", "", "Description")
	_ = add.MarkFlagRequired("from")

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List custom holidays",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.db()
			if err != nil {
				return err
			}
			holidays, err := s.ListHolidays(all)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(holidays) == 0 {
				fmt.Fprintln(w, "No custom holidays.")
				return nil
			}
			for _, h := range holidays {
				line := fmt.Sprintf("%4d  %s..%s  %s", h.ID,
					h.StartDate.Format(time.DateOnly), h.EndDate.Format(time.DateOnly), h.Name)
				if h.Description != "" {
					line += "  " + formatMuted(h.Description)
				}
				if !h.Active {
					line += formatMuted(" (inactive)")
				}
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}
	list.Flags().BoolVar(&all, "all", false, "Include inactive holidays")

	toggle := func(use, short string, active bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " ID",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				s, err := a.db()
				if err != nil {
					return err
				}
				if err := s.SetHolidayActive(id, active); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Holiday %d %sd\n", id, use)
				return nil
			},
		}
	}

	cmd.AddCommand(add, list,
		toggle("enable", "Count a holiday again", true),
		toggle("disable", "Stop counting a holiday without deleting it", false),
	)
	return cmd
}
