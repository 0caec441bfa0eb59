package cli

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sadopc/timeanalytics/internal/period"
	"github.com/sadopc/timeanalytics/internal/store"
)

func (a *App) logCmd() *cobra.Command {
	var (
		user, project, date string
		hours, activity     string
		issue               int64
		comment             string
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log time spent on a project",
		Example: `  timeanalytics log -u ann -p Website --hours 2.5 --activity Development
  timeanalytics log -u bob -p Mobile --hours 1 --date 2025-02-04 --issue 12 -m "review"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := decimal.NewFromString(hours)
			if err != nil {
				return fmt.Errorf("invalid hours %q", hours)
			}
			spentOn := period.Day(a.now())
			if date != "" {
				if spentOn, err = period.ParseDate(date); err != nil {
					return err
				}
			}

			s, err := a.db()
			if err != nil {
				return err
			}
			u, err := s.GetUserByLogin(user)
			if err != nil {
				return fmt.Errorf("unknown user %q: %w", user, err)
			}
			p, err := s.GetProjectByName(project)
			if err != nil {
				return fmt.Errorf("unknown project %q: %w", project, err)
			}
			e := store.NewEntry{
				UserID:    u.ID,
				ProjectID: p.ID,
				SpentOn:   spentOn,
				Hours:     h,
				Comments:  comment,
			}
			if activity != "" {
				act, err := s.GetActivityByName(activity)
				if err != nil {
					return fmt.Errorf("unknown activity %q: %w", activity, err)
				}
				e.ActivityID = &act.ID
			}
			if issue != 0 {
				e.IssueID = &issue
			}

			entry, err := s.LogEntry(e)
			if err != nil {
				return err
			}
			a.log.Debug("entry logged", "id", entry.ID, "user", u.Login, "project", p.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %sh for %s on %s (%s)\n",
				entry.Hours.StringFixed(2), u.Name, p.Name, entry.SpentOn.Format(time.DateOnly))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&user, "user", "u", "", "User login")
	f.StringVarP(&project, "project", "p", "", "Project name")
	f.StringVar(&hours, "hours", "", "Hours spent, e.g. 1.5")
	f.StringVarP(&date, "date", "d", "", "Day spent (YYYY-MM-DD, default today)")
	f.StringVarP(&activity, "activity", "a", "", "Activity name")
	f.Int64Var(&issue, "issue", 0, "Issue id")
	f.StringVarP(&comment, "comment", "m", "", "Comment")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("hours")
	return cmd
}
