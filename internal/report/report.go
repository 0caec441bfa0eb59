// Package report fetches time entries from storage and runs them through the
// period, calendar, analytics and chart packages to produce a single report.
package report

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/sadopc/timeanalytics/internal/analytics"
	"github.com/sadopc/timeanalytics/internal/calendar"
	"github.com/sadopc/timeanalytics/internal/chart"
	"github.com/sadopc/timeanalytics/internal/export"
	"github.com/sadopc/timeanalytics/internal/logging"
	"github.com/sadopc/timeanalytics/internal/period"
	"github.com/sadopc/timeanalytics/internal/store"
)

var (
	ErrUnknownView  = errors.New("view must be one of entries, activity, project, members")
	ErrUnknownState = errors.New("state must be detailed or summary")
)

// View selects what a report is about.
type View string

const (
	Entries  View = "entries"
	Activity View = "activity"
	Project  View = "project"
	Members  View = "members"
)

// ParseView validates a user supplied view name.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case Entries, Activity, Project, Members:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// IsPivot reports whether the view is a period x dimension table.
func (v View) IsPivot() bool { return v != Entries }

// State selects the pivot rendering.
type State string

const (
	Detailed State = "detailed"
	Summary  State = "summary"
)

// ParseState validates a user supplied state; "" means detailed.
func ParseState(s string) (State, error) {
	switch st := State(strings.ToLower(strings.TrimSpace(s))); st {
	case "", Detailed:
		return Detailed, nil
	case Summary:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownState, s)
}

// Source is the storage the service reads from. *store.Store satisfies it.
type Source interface {
	ListEntries(f store.EntryFilter) ([]store.TimeEntry, error)
	Names() (*store.Names, error)
	ActiveHolidays(from, to time.Time) ([]store.CustomHoliday, error)
	GetTeam(id int64) (*store.Team, error)
	ListMemberships(teamID int64) ([]store.TeamMembership, error)
	ListTeamProjects(teamID int64) ([]store.TeamProject, error)
	ExcludedUsers(teamID int64) ([]int64, error)
}

// Umbrella groups several projects under one label in project pivots.
type Umbrella struct {
	Label    string
	Projects []string
}

// Request describes one report. The zero value of every optional field is a
// usable default.
type Request struct {
	Range    period.Range
	Grouping period.Grouping
	View     View
	State    State
	Chart    chart.Kind // empty: pie for pivots, bar for entries
	Order    analytics.Order
	Search   string

	// Individual scope. Empty slices mean no restriction.
	UserIDs    []int64
	ProjectIDs []int64

	// TeamID switches to team scope and overrides UserIDs and ProjectIDs.
	TeamID int64

	Weekend  []time.Weekday
	Holidays calendar.HolidaySource
	Umbrella *Umbrella
}

// Report is the result of Service.Build.
type Report struct {
	Request   Request
	Team      *store.Team
	Records   []analytics.Record // newest first
	Directory analytics.Directory

	WorkingDays int
	Holidays    []calendar.Holiday

	Buckets analytics.Buckets // periods with time, in Request.Order
	Filled  analytics.Buckets // one bucket per period of the range, ascending
	Stats   analytics.Stats

	Pivot     *analytics.Pivot // nil for the entries view
	TeamStats *analytics.TeamStats
	Chart     chart.Payload
}

// Service builds reports from a Source.
type Service struct {
	src Source
	log *slog.Logger
}

// NewService returns a Service. A nil logger discards output.
func NewService(src Source, log *slog.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{src: src, log: log}
}

// Build runs one report.
func (s *Service) Build(req Request) (*Report, error) {
	if req.View == "" {
		req.View = Entries
	}
	if _, err := ParseView(string(req.View)); err != nil {
		return nil, err
	}
	state, err := ParseState(string(req.State))
	if err != nil {
		return nil, err
	}
	req.State = state
	if req.Grouping.Granularity == "" {
		req.Grouping.Granularity = period.Weekly
	}
	g, err := period.ParseGranularity(string(req.Grouping.Granularity))
	if err != nil {
		return nil, err
	}
	req.Grouping.Granularity = g
	if req.Chart == "" {
		req.Chart = chart.Bar
		if req.View.IsPivot() {
			req.Chart = chart.Pie
		}
	}

	names, err := s.src.Names()
	if err != nil {
		return nil, fmt.Errorf("load names: %w", err)
	}
	rep := &Report{Request: req, Directory: directory(names)}

	records, teamSize, err := s.records(req, rep)
	if err != nil {
		return nil, err
	}
	if q := strings.TrimSpace(req.Search); q != "" {
		before := len(records)
		records = analytics.Search(records, rep.Directory, q)
		s.log.Debug("search filter applied", "query", q, "before", before, "after", len(records))
	}
	rep.Records = newestFirst(records)

	oracle, err := s.Calendar(req.Range, req.Weekend, req.Holidays)
	if err != nil {
		return nil, err
	}
	rep.WorkingDays = oracle.WorkingDays(req.Range)
	rep.Holidays = oracle.Holidays(req.Range)

	buckets := analytics.Aggregate(records, req.Grouping)
	rep.Buckets = buckets.Sorted(req.Order)
	rep.Filled = analytics.FillGaps(buckets, req.Range, req.Grouping)
	rep.Stats = analytics.Summarize(buckets, req.Grouping.Granularity, rep.WorkingDays)

	if rep.Team != nil {
		ts := analytics.SummarizeTeam(records, teamSize)
		rep.TeamStats = &ts
	}

	if req.View.IsPivot() {
		rep.Pivot = analytics.BuildPivot(records, req.Grouping, s.dimension(req, rep.Directory, names))
	}
	rep.Chart = rep.chart()

	s.log.Info("report computed",
		"scope", rep.Scope(),
		"range", req.Range.String(),
		"granularity", string(req.Grouping.Granularity),
		"view", string(req.View),
		"records", len(records),
	)
	return rep, nil
}

// records fetches the entries in scope, converted to analytics records. For
// team scope it also sets rep.Team and returns the team size.
func (s *Service) records(req Request, rep *Report) ([]analytics.Record, int, error) {
	if req.Range.Empty() {
		s.log.Debug("empty range, skipping query", "range", req.Range.String())
		if req.TeamID != 0 {
			team, err := s.src.GetTeam(req.TeamID)
			if err != nil {
				return nil, 0, fmt.Errorf("load team: %w", err)
			}
			rep.Team = team
		}
		return nil, 0, nil
	}

	from, to := req.Range.From, req.Range.To
	filter := store.EntryFilter{UserIDs: req.UserIDs, ProjectIDs: req.ProjectIDs, From: &from, To: &to}

	size := 0
	if req.TeamID != 0 {
		team, members, projects, err := s.teamScope(req.TeamID, req.Range)
		if err != nil {
			return nil, 0, err
		}
		rep.Team = team
		size = len(members)
		if len(members) == 0 || len(projects) == 0 {
			s.log.Debug("team has no active members or projects in range",
				"team", team.Name, "members", len(members), "projects", len(projects))
			return nil, size, nil
		}
		filter.UserIDs, filter.ProjectIDs = members, projects
	}

	entries, err := s.src.ListEntries(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	return toRecords(entries), size, nil
}

// teamScope resolves the members and projects of a team active during r,
// minus the team's excluded users.
func (s *Service) teamScope(teamID int64, r period.Range) (*store.Team, []int64, []int64, error) {
	team, err := s.src.GetTeam(teamID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load team: %w", err)
	}
	memberships, err := s.src.ListMemberships(teamID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load memberships: %w", err)
	}
	assignments, err := s.src.ListTeamProjects(teamID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load team projects: %w", err)
	}
	excluded, err := s.src.ExcludedUsers(teamID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load exclusions: %w", err)
	}

	var memberIvs, projectIvs []analytics.Interval
	for _, m := range memberships {
		memberIvs = append(memberIvs, analytics.Interval{ID: m.UserID, Start: m.StartDate, End: m.EndDate})
	}
	for _, p := range assignments {
		projectIvs = append(projectIvs, analytics.Interval{ID: p.ProjectID, Start: p.StartDate, End: p.EndDate})
	}
	members := analytics.ActiveIDs(memberIvs, r, excluded...)
	projects := analytics.ActiveIDs(projectIvs, r)

	s.log.Debug("team scope resolved",
		"team", team.Name,
		"memberships", len(memberships),
		"active_members", len(members),
		"excluded", len(excluded),
		"projects", len(projects),
	)
	return team, members, projects, nil
}

// Calendar combines weekend and built-in holidays with the active custom
// holidays overlapping r.
func (s *Service) Calendar(r period.Range, weekend []time.Weekday, holidays calendar.HolidaySource) (*calendar.Oracle, error) {
	var spans calendar.Spans
	if !r.Empty() {
		custom, err := s.src.ActiveHolidays(r.From, r.To)
		if err != nil {
			return nil, fmt.Errorf("load holidays: %w", err)
		}
		for _, h := range custom {
			spans = append(spans, calendar.Span{Name: h.Name, Start: h.StartDate, End: h.EndDate})
		}
		spans = spans.Clip(r)
	}
	if len(spans) == 0 {
		return calendar.NewOracle(weekend, holidays), nil
	}
	return calendar.NewOracle(weekend, calendar.AnyOf(holidays, spans)), nil
}

func (s *Service) dimension(req Request, dir analytics.Directory, names *store.Names) analytics.Dimension {
	switch req.View {
	case Activity:
		return analytics.ByActivity(dir)
	case Members:
		return analytics.ByMember(dir)
	}
	dim := analytics.ByProject(dir)
	if u := req.Umbrella; u != nil && u.Label != "" && len(u.Projects) > 0 {
		var ids []int64
		for id, name := range names.Projects {
			if slices.Contains(u.Projects, name) {
				ids = append(ids, id)
			}
		}
		s.log.Debug("umbrella grouping", "label", u.Label, "projects", len(ids))
		if len(ids) > 0 {
			dim = dim.Collapse(u.Label, analytics.InProjects(ids...))
		}
	}
	return dim
}

func (r *Report) chart() chart.Payload {
	kind := r.Request.Chart
	if len(r.Records) == 0 {
		return chart.Placeholder(kind)
	}
	if r.Pivot == nil {
		return chart.Build(kind, chart.FromBuckets("Hours", r.Filled, r.Request.Range))
	}
	if r.Request.State == Summary {
		return chart.Build(kind, chart.FromRows(r.Pivot.Dimension, r.Pivot.Summary()))
	}
	return chart.BuildStacked(kind, chart.FromPivot(r.Pivot.FillGaps(r.Request.Range), r.Request.Range))
}

// Scope describes who the report covers, for logs and headings.
func (r *Report) Scope() string {
	if r.Team != nil {
		return "team " + r.Team.Name
	}
	if len(r.Request.UserIDs) == 1 {
		if name := r.Directory.ActorName(r.Request.UserIDs[0]); name != "" {
			return name
		}
	}
	if len(r.Request.UserIDs) > 0 {
		return fmt.Sprintf("%d users", len(r.Request.UserIDs))
	}
	return "everyone"
}

// Filename derives an export file name from the report scope, e.g.
// "team_analytics_backend_2025-01-01_2025-01-31.csv". Entry exports omit the
// view and state.
func (r *Report) Filename(entries bool, ext string) string {
	kind := "time_analytics"
	if r.Team != nil {
		kind = "team_analytics"
	}
	parts := []string{kind}
	if r.Team != nil {
		parts = append(parts, r.Team.Name)
	}
	if !entries {
		parts = append(parts, string(r.Request.View))
		if r.Pivot != nil {
			parts = append(parts, string(r.Request.State))
		}
	}
	rg := r.Request.Range
	parts = append(parts, rg.From.Format(time.DateOnly), rg.To.Format(time.DateOnly))
	return export.Filename(ext, parts...)
}

// Table renders the report's main table: buckets for the entries view, the
// pivot matrix or its summary otherwise.
func (r *Report) Table() export.Table {
	switch {
	case r.Pivot == nil:
		return export.BucketRows(r.Buckets)
	case r.Request.State == Summary:
		return export.SummaryRows(r.Pivot.Dimension, r.Pivot.Summary())
	default:
		return export.PivotRows(r.Pivot)
	}
}

// EntryTable renders the individual time entries, in team layout for team
// reports.
func (r *Report) EntryTable() export.Table {
	if r.Team != nil {
		return export.TeamEntryRows(r.Team.Name, r.Records, r.Directory)
	}
	return export.EntryRows(r.Records, r.Directory)
}

func directory(n *store.Names) analytics.Directory {
	return analytics.Directory{
		Actors:     n.Users,
		Projects:   n.Projects,
		Activities: n.Activities,
		Issues:     n.Issues,
	}
}

func toRecords(entries []store.TimeEntry) []analytics.Record {
	out := make([]analytics.Record, len(entries))
	for i, e := range entries {
		out[i] = analytics.Record{
			Date:       period.Day(e.SpentOn),
			Hours:      e.Hours,
			ActorID:    e.UserID,
			ProjectID:  e.ProjectID,
			ActivityID: e.ActivityID,
			IssueID:    e.IssueID,
			Comment:    e.Comments,
		}
	}
	return out
}

// newestFirst orders records by date descending, keeping storage order for
// records on the same day.
func newestFirst(records []analytics.Record) []analytics.Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b analytics.Record) int {
		return b.Date.Compare(a.Date)
	})
	return out
}
