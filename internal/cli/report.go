package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sadopc/timeanalytics/internal/analytics"
	"github.com/sadopc/timeanalytics/internal/chart"
	"github.com/sadopc/timeanalytics/internal/export"
	"github.com/sadopc/timeanalytics/internal/period"
	"github.com/sadopc/timeanalytics/internal/report"
)

// reportFlags are shared by report, pivot, chart and export.
type reportFlags struct {
	from, to    string
	preset      string
	granularity string
	weekStart   string
	view        string
	state       string
	chart       string
	order       string
	search      string
	users       []string
	projects    []string
	team        string
	entries     bool
	page        int
	perPage     int
}

func (f *reportFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.from, "from", "", "Start date (YYYY-MM-DD)")
	fs.StringVar(&f.to, "to", "", "End date (YYYY-MM-DD)")
	fs.StringVar(&f.preset, "preset", "", "Date range preset: "+strings.Join(period.Presets, ", "))
	fs.StringVarP(&f.granularity, "granularity", "g", "", "daily, weekly, monthly or yearly")
	fs.StringVar(&f.weekStart, "week-start", "", "First day of the week")
	fs.StringVar(&f.state, "state", "", "Pivot rendering: detailed or summary")
	fs.StringVar(&f.order, "order", "asc", "Period order: asc or desc")
	fs.StringVarP(&f.search, "search", "s", "", "Keep entries matching project, issue, comment or member")
	fs.StringSliceVarP(&f.users, "user", "u", nil, "Limit to user logins (repeatable)")
	fs.StringSliceVarP(&f.projects, "project", "p", nil, "Limit to project names (repeatable)")
	fs.StringVarP(&f.team, "team", "t", "", "Report on a team instead of users")
}

func (f *reportFlags) registerPaging(fs *pflag.FlagSet) {
	fs.BoolVar(&f.entries, "entries", false, "List individual time entries")
	fs.IntVar(&f.page, "page", 1, "Page of entries to show")
	fs.IntVar(&f.perPage, "per-page", 0, "Entries per page (default report.per_page)")
}

// request resolves flags against the config and the database.
func (a *App) request(f *reportFlags) (report.Request, error) {
	var req report.Request
	cfg, err := a.loadConfig()
	if err != nil {
		return req, err
	}
	s, err := a.db()
	if err != nil {
		return req, err
	}

	g := cfg.Grouping()
	if f.granularity != "" {
		if g.Granularity, err = period.ParseGranularity(f.granularity); err != nil {
			return req, err
		}
	}
	if f.weekStart != "" {
		if g.WeekStart, err = period.ParseWeekday(f.weekStart); err != nil {
			return req, err
		}
	}
	req.Grouping = g

	if req.Range, err = a.dateRange(f.from, f.to, f.preset, g); err != nil {
		return req, err
	}

	view := f.view
	if view == "" {
		view = cfg.Report.View
	}
	if req.View, err = report.ParseView(view); err != nil {
		return req, err
	}
	if req.State, err = report.ParseState(f.state); err != nil {
		return req, err
	}
	if f.chart != "" {
		if req.Chart, err = chart.ParseKind(f.chart); err != nil {
			return req, err
		}
	}
	switch strings.ToLower(f.order) {
	case "", "asc":
		req.Order = analytics.Ascending
	case "desc":
		req.Order = analytics.Descending
	default:
		return req, fmt.Errorf("order must be asc or desc: %q", f.order)
	}
	req.Search = f.search

	for _, login := range f.users {
		u, err := s.GetUserByLogin(login)
		if err != nil {
			return req, fmt.Errorf("unknown user %q: %w", login, err)
		}
		req.UserIDs = append(req.UserIDs, u.ID)
	}
	for _, name := range f.projects {
		p, err := s.GetProjectByName(name)
		if err != nil {
			return req, fmt.Errorf("unknown project %q: %w", name, err)
		}
		req.ProjectIDs = append(req.ProjectIDs, p.ID)
	}
	if f.team != "" {
		team, err := s.GetTeamByName(f.team)
		if err != nil {
			return req, fmt.Errorf("unknown team %q: %w", f.team, err)
		}
		req.TeamID = team.ID
	}

	req.Weekend = cfg.Weekend()
	req.Holidays = cfg.Holidays()
	if u := cfg.Report.Umbrella; len(u.Projects) > 0 {
		req.Umbrella = &report.Umbrella{Label: u.Label, Projects: u.Projects}
	}
	return req, nil
}

// dateRange resolves --from/--to, falling back to a preset. A lone --from
// or --to is a single day.
func (a *App) dateRange(from, to, preset string, g period.Grouping) (period.Range, error) {
	switch {
	case from != "" && to != "":
		return period.ParseRange(from, to)
	case from != "":
		return period.ParseRange(from, from)
	case to != "":
		return period.ParseRange(to, to)
	}
	if preset == "" {
		preset = a.cfg.Report.Preset
	}
	return period.Preset(preset, a.now(), g.WeekStart)
}

func (a *App) build(f *reportFlags) (*report.Report, error) {
	req, err := a.request(f)
	if err != nil {
		return nil, err
	}
	svc, err := a.service()
	if err != nil {
		return nil, err
	}
	return svc.Build(req)
}

func (a *App) reportCmd() *cobra.Command {
	f := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show logged time grouped by period",
		Long: `Show logged time for a date range grouped into periods, with totals,
averages and working days.

Without --from/--to the configured preset (report.preset) is used.`,
		Example: `  timeanalytics report
  timeanalytics report --preset last_month -g daily --user ann
  timeanalytics report --team Backend --from 2025-01-01 --to 2025-03-31 -g monthly
  timeanalytics report --entries --page 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := a.build(f)
			if err != nil {
				return err
			}
			a.printReport(cmd.OutOrStdout(), rep, f)
			return nil
		},
	}
	f.register(cmd.Flags())
	f.registerPaging(cmd.Flags())
	cmd.Flags().StringVar(&f.view, "view", "", "entries, activity, project or members (default report.view)")
	return cmd
}

func (a *App) pivotCmd() *cobra.Command {
	f := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "pivot",
		Short: "Tabulate logged time by period and dimension",
		Example: `  timeanalytics pivot --by activity
  timeanalytics pivot --by members --team Backend --state summary`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.view == string(report.Entries) {
				return fmt.Errorf("pivot needs a dimension: %w", report.ErrUnknownView)
			}
			rep, err := a.build(f)
			if err != nil {
				return err
			}
			a.printReport(cmd.OutOrStdout(), rep, f)
			return nil
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().StringVar(&f.view, "by", string(report.Project), "Dimension: activity, project or members")
	return cmd
}

func (a *App) chartCmd() *cobra.Command {
	f := &reportFlags{}
	var out string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print the chart payload of a report as JSON",
		Example: `  timeanalytics chart --type line -g daily
  timeanalytics chart --view activity --type pie --out activity.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := a.build(f)
			if err != nil {
				return err
			}
			data, err := rep.Chart.JSON()
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("writing chart: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().StringVar(&f.view, "view", "", "entries, activity, project or members (default report.view)")
	cmd.Flags().StringVar(&f.chart, "type", "", "bar, line or pie (default pie for pivots, bar otherwise)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	return cmd
}

func (a *App) exportCmd() *cobra.Command {
	f := &reportFlags{}
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a report as CSV or JSON",
		Long: `Export a report. CSV exports the report table (periods, pivot or
summary); with --entries it exports individual time entries. JSON always
exports entries.`,
		Example: `  timeanalytics export --entries --preset last_month
  timeanalytics export --view activity --state summary -o activity.csv
  timeanalytics export --format json --team Backend`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := a.build(f)
			if err != nil {
				return err
			}
			format = strings.ToLower(format)
			if out == "" {
				out = rep.Filename(f.entries || format == "json", format)
			}

			switch format {
			case "csv":
				table := rep.Table()
				if f.entries {
					table = rep.EntryTable()
				}
				err = export.ToCSV(table, out)
			case "json":
				r := rep.Request.Range
				err = export.ToJSON(rep.Records, rep.Directory, r.From.Format("2006-01-02"), r.To.Format("2006-01-02"), out)
			default:
				return fmt.Errorf("format must be csv or json: %q", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(rep.Records), out)
			return nil
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().BoolVar(&f.entries, "entries", false, "Export individual time entries")
	cmd.Flags().StringVar(&f.view, "view", "", "entries, activity, project or members (default report.view)")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default derived from the report)")
	return cmd
}

func (a *App) printReport(w io.Writer, rep *report.Report, f *reportFlags) {
	req := rep.Request
	fmt.Fprintf(w, "%s  %s  %s\n",
		formatHeader(strings.ToUpper(rep.Scope()[:1])+rep.Scope()[1:]),
		req.Range.String(),
		formatMuted(fmt.Sprintf("%s, %s", req.Grouping.Granularity, req.View)),
	)

	st := rep.Stats
	fmt.Fprintf(w, "Total %s  Average %s  Min %s  Max %s  Working days %d\n",
		formatStats(st.Sum.StringFixed(2)+"h"),
		formatStats(st.Average.StringFixed(2)+"h"),
		st.Min.StringFixed(2), st.Max.StringFixed(2), rep.WorkingDays,
	)
	if ts := rep.TeamStats; ts != nil {
		fmt.Fprintf(w, "Team size %d  Active %d  Per member %s\n",
			ts.Size, ts.ActiveMembers, formatStats(ts.AveragePerMember.StringFixed(2)+"h"))
	}
	for _, h := range rep.Holidays {
		fmt.Fprintln(w, formatInsight(fmt.Sprintf("  %s  %s", h.Date.Format("Mon Jan 02"), h.Name)))
	}
	fmt.Fprintln(w)

	if len(rep.Records) == 0 {
		fmt.Fprintln(w, "No time logged in the specified date range.")
		return
	}
	if !f.entries {
		printTable(w, rep.Table())
		return
	}

	perPage := f.perPage
	if perPage <= 0 {
		perPage = a.cfg.Report.PerPage
	}
	records, info := analytics.Page(rep.Records, f.page, perPage)
	page := *rep
	page.Records = records
	printTable(w, page.EntryTable())
	fmt.Fprintln(w, formatMuted(fmt.Sprintf("Page %d of %d (%d entries)", info.Page, info.Pages, info.Total)))
}
