package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/timeanalytics/internal/period"
	"github.com/sadopc/timeanalytics/internal/store"
)

func (a *App) teamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams, memberships and team projects",
		Long: `A team report covers the members active in the date range, limited to
the projects assigned to the team in that range and minus excluded users.`,
	}
	cmd.AddCommand(
		a.teamAddCmd(),
		a.teamMemberCmd(),
		a.teamLeaveCmd(),
		a.teamProjectCmd(),
		a.teamExcludeCmd(),
		a.teamListCmd(),
		a.teamShowCmd(),
	)
	return cmd
}

func (a *App) teamAddCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.db()
			if err != nil {
				return err
			}
			t, err := s.CreateTeam(args[0], description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created team %s (id %d)\n", t.Name, t.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	return cmd
}

// interval parses --from and an optional --to. An empty --from means today.
func (a *App) interval(from, to string) (time.Time, *time.Time, error) {
	start := period.Day(a.now())
	if from != "" {
		var err error
		if start, err = period.ParseDate(from); err != nil {
			return time.Time{}, nil, err
		}
	}
	if to == "" {
		return start, nil, nil
	}
	end, err := period.ParseDate(to)
	if err != nil {
		return time.Time{}, nil, err
	}
	if end.Before(start) {
		return time.Time{}, nil, fmt.Errorf("--to %s is before --from %s", to, start.Format(time.DateOnly))
	}
	return start, &end, nil
}

func (a *App) teamAndUser(s *store.Store, team, login string) (*store.Team, *store.User, error) {
	t, err := s.GetTeamByName(team)
	if err != nil {
		return nil, nil, fmt.Errorf("unknown team %q: %w", team, err)
	}
	u, err := s.GetUserByLogin(login)
	if err != nil {
		return nil, nil, fmt.Errorf("unknown user %q: %w", login, err)
	}
	return t, u, nil
}

func (a *App) teamMemberCmd() *cobra.Command {
	var role, from, to string
	cmd := &cobra.Command{
		Use:     "member TEAM LOGIN",
		Short:   "Add a user to a team",
		Args:    cobra.ExactArgs(2),
		Example: `  timeanalytics team member Platform ann --role lead --from 2025-01-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := a.interval(from, to)
			if err != nil {
				return err
			}
			s, err := a.db()
			if err != nil {
				return err
			}
			t, u, err := a.teamAndUser(s, args[0], args[1])
			if err != nil {
				return err
			}
			m, err := s.AddMember(t.ID, u.ID, role, start, end)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s as %s from %s\n",
				u.Login, t.Name, m.Role, m.StartDate.Format(time.DateOnly))
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", store.RoleMember, "Role: lead or member")
	cmd.Flags().StringVar(&from, "from", "", "First day of membership (default today)")
	cmd.Flags().StringVar(&to, "to", "", "Last day of membership (default open)")
	return cmd
}

func (a *App) teamLeaveCmd() *cobra.Command {
	var on string
	cmd := &cobra.Command{
		Use:   "leave TEAM LOGIN",
		Short: "End a user's open membership",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			end := period.Day(a.now())
			if on != "" {
				var err error
				if end, err = period.ParseDate(on); err != nil {
					return err
				}
			}
			s, err := a.db()
			if err != nil {
				return err
			}
			t, u, err := a.teamAndUser(s, args[0], args[1])
			if err != nil {
				return err
			}
			members, err := s.ListMemberships(t.ID)
			if err != nil {
				return err
			}
			for _, m := range members {
				if m.UserID == u.ID && m.EndDate == nil {
					if err := s.EndMembership(m.ID, end); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s left %s on %s\n", u.Login, t.Name, end.Format(time.DateOnly))
					return nil
				}
			}
			return fmt.Errorf("%s has no open membership in %s", u.Login, t.Name)
		},
	}
	cmd.Flags().StringVar(&on, "on", "", "Last day of membership (default today)")
	return cmd
}

func (a *App) teamProjectCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "project TEAM PROJECT",
		Short: "Assign a project to a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := a.interval(from, to)
			if err != nil {
				return err
			}
			s, err := a.db()
			if err != nil {
				return err
			}
			t, err := s.GetTeamByName(args[0])
			if err != nil {
				return fmt.Errorf("unknown team %q: %w", args[0], err)
			}
			p, err := s.GetProjectByName(args[1])
			if err != nil {
				return fmt.Errorf("unknown project %q: %w", args[1], err)
			}
			if _, err := s.AssignProject(t.ID, p.ID, start, end); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s from %s\n", p.Name, t.Name, start.Format(time.DateOnly))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "First day of assignment (default today)")
	cmd.Flags().StringVar(&to, "to", "", "Last day of assignment (default open)")
	return cmd
}

func (a *App) teamExcludeCmd() *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "exclude TEAM LOGIN",
		Short: "Keep a user out of a team's reports",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.db()
			if err != nil {
				return err
			}
			t, u, err := a.teamAndUser(s, args[0], args[1])
			if err != nil {
				return err
			}
			if undo {
				if err := s.IncludeUser(t.ID, u.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is included in %s reports\n", u.Login, t.Name)
				return nil
			}
			if err := s.ExcludeUser(t.ID, u.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is excluded from %s reports\n", u.Login, t.Name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Include the user again")
	return cmd
}

func (a *App) teamListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List teams",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.db()
			if err != nil {
				return err
			}
			teams, err := s.ListTeams()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(teams) == 0 {
				fmt.Fprintln(w, "No teams yet.")
				return nil
			}
			for _, t := range teams {
				fmt.Fprintf(w, "%4d  %s  %s\n", t.ID, t.Name, formatMuted(t.Description))
			}
			return nil
		},
	}
}

func (a *App) teamShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show TEAM",
		Short: "Show a team's members, projects and exclusions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.db()
			if err != nil {
				return err
			}
			t, err := s.GetTeamByName(args[0])
			if err != nil {
				return fmt.Errorf("unknown team %q: %w", args[0], err)
			}
			names, err := s.Names()
			if err != nil {
				return err
			}
			members, err := s.ListMemberships(t.ID)
			if err != nil {
				return err
			}
			projects, err := s.ListTeamProjects(t.ID)
			if err != nil {
				return err
			}
			excluded, err := s.ExcludedUsers(t.ID)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, formatHeader(t.Name))
			fmt.Fprintln(w, "Members:")
			for _, m := range members {
				fmt.Fprintf(w, "  %-20s %-6s %s\n", names.Users[m.UserID], m.Role, span(m.StartDate, m.EndDate))
			}
			fmt.Fprintln(w, "Projects:")
			for _, p := range projects {
				fmt.Fprintf(w, "  %-20s %s\n", names.Projects[p.ProjectID], span(p.StartDate, p.EndDate))
			}
			if len(excluded) > 0 {
				printExcluded(w, excluded, names)
			}
			return nil
		},
	}
}

func printExcluded(w io.Writer, ids []int64, names *store.Names) {
	fmt.Fprintln(w, "Excluded:")
	for _, id := range ids {
		fmt.Fprintf(w, "  %s\n", formatMuted(names.Users[id]))
	}
}

func span(start time.Time, end *time.Time) string {
	if end == nil {
		return start.Format(time.DateOnly) + ".."
	}
	return start.Format(time.DateOnly) + ".." + end.Format(time.DateOnly)
}
