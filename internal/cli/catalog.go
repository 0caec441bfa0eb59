package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (a *App) projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	var color string
	add := &cobra.Command{
		Use:     "add NAME",
		Short:   "Create a project",
		Args:    cobra.ExactArgs(1),
		Example: `  timeanalytics project add Website --color "#FF6384"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.db()
			if err != nil {
				return err
			}
			p, err := s.CreateProject(args[0], color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (id %d)\n", p.Name, p.ID)
			return nil
		},
	}
	add.Flags().StringVar(&color, "color", "", "Display color (default #36A2EB)")

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.db()
			if err != nil {
				return err
			}
			projects, err := s.ListProjects(all)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(w, "No projects yet.")
				return nil
			}
			for _, p := range projects {
				status := ""
				if p.Archived {
					status = formatMuted(" (archived)")
				}
				fmt.Fprintf(w, "%4d  %s  %s%s\n", p.ID, formatMuted(p.Color), p.Name, status)
			}
			return nil
		},
	}
	list.Flags().BoolVar(&all, "all", false, "Include archived projects")

	archive := &cobra.Command{
		Use:   "archive NAME",
		Short: "Archive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.db()
			if err != nil {
				return err
			}
			p, err := s.GetProjectByName(args[0])
			if err != nil {
				return fmt.Errorf("unknown project %q: %w", args[0], err)
			}
			if err := s.ArchiveProject(p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived project %s\n", p.Name)
			return nil
		},
	}

	cmd.AddCommand(add, list, archive)
	return cmd
}

func (a *App) userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	add := &cobra.Command{
		Use:     "add LOGIN NAME",
		Short:   "Create a user",
		Args:    cobra.ExactArgs(2),
		Example: `  timeanalytics user add ann "Ann Perera"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.db()
			if err != nil {
				return err
			}
			u, err := s.CreateUser(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", u.Login, u.ID)
			return nil
		},
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.db()
			if err != nil {
				return err
			}
			users, err := s.ListUsers()
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  %-12s %s\n", u.ID, u.Login, u.Name)
			}
			return nil
		},
	}
	cmd.AddCommand(add, list)
	return cmd
}

func (a *App) activityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Manage activities",
	}
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.db()
			if err != nil {
				return err
			}
			act, err := s.CreateActivity(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created activity %s (id %d)\n", act.Name, act.ID)
			return nil
		},
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List activities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.db()
			if err != nil {
				return err
			}
			acts, err := s.ListActivities()
			if err != nil {
				return err
			}
			for _, act := range acts {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", act.ID, act.Name)
			}
			return nil
		},
	}
	cmd.AddCommand(add, list)
	return cmd
}

func (a *App) issueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Manage issues",
	}
	var project string
	add := &cobra.Command{
		Use:     "add SUBJECT",
		Short:   "Create an issue on a project",
		Args:    cobra.ExactArgs(1),
		Example: `  timeanalytics issue add "Fix login redirect" --project Website`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.db()
			if err != nil {
				return err
			}
			p, err := s.GetProjectByName(project)
			if err != nil {
				return fmt.Errorf("unknown project %q: %w", project, err)
			}
			issue, err := s.CreateIssue(p.ID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created issue #%d: %s\n", issue.ID, issue.Subject)
			return nil
		},
	}
	add.Flags().StringVarP(&project, "project", "p", "", "Project name")
	_ = add.MarkFlagRequired("project")
	cmd.AddCommand(add)
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
