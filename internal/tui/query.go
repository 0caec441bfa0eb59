package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sadopc/timeanalytics/internal/chart"
	"github.com/sadopc/timeanalytics/internal/config"
	"github.com/sadopc/timeanalytics/internal/period"
	"github.com/sadopc/timeanalytics/internal/report"
	"github.com/sadopc/timeanalytics/internal/store"
)

// query is the report the dashboard is looking at. offset moves the preset
// window back (negative) or forward by whole preset lengths.
type query struct {
	preset   string
	offset   int
	grouping period.Grouping
	view     report.View
	state    report.State
	chart    chart.Kind
}

// newQuery starts from the config and applies stored preferences. Stored
// values that no longer parse are ignored.
func newQuery(cfg *config.Config, prefs map[string]string) query {
	q := query{
		preset:   cfg.Report.Preset,
		grouping: cfg.Grouping(),
		view:     report.View(cfg.Report.View),
		state:    report.Detailed,
	}
	if k, err := chart.ParseKind(cfg.Report.Chart); err == nil {
		q.chart = k
	}
	return q.apply(prefs)
}

func (q query) apply(prefs map[string]string) query {
	if v, ok := prefs[store.SettingGranularity]; ok {
		if g, err := period.ParseGranularity(v); err == nil {
			q.grouping.Granularity = g
		}
	}
	if v, ok := prefs[store.SettingWeekStart]; ok {
		if d, err := period.ParseWeekday(v); err == nil {
			q.grouping.WeekStart = d
		}
	}
	if v, ok := prefs[store.SettingView]; ok {
		if view, err := report.ParseView(v); err == nil {
			q.view = view
		}
	}
	if v, ok := prefs[store.SettingChart]; ok {
		if k, err := chart.ParseKind(v); err == nil {
			q.chart = k
		}
	}
	if v, ok := prefs[store.SettingPreset]; ok && slices.Contains(period.Presets, v) {
		if v != q.preset {
			q.offset = 0
		}
		q.preset = v
	}
	return q
}

// anchor shifts now by offset preset lengths. Month based presets move from
// the first of the month so that short months are not skipped.
func (q query) anchor(now time.Time) time.Time {
	today := period.Day(now)
	if q.offset == 0 {
		return today
	}
	first := period.Date(today.Year(), today.Month(), 1)
	switch q.preset {
	case "today":
		return today.AddDate(0, 0, q.offset)
	case "this_week", "last_week", "last_7_days":
		return today.AddDate(0, 0, 7*q.offset)
	case "last_14_days":
		return today.AddDate(0, 0, 14*q.offset)
	case "this_month", "last_month":
		return first.AddDate(0, q.offset, 0)
	case "last_3_months":
		return first.AddDate(0, 3*q.offset, 0)
	case "this_year":
		return period.Date(today.Year()+q.offset, time.January, 1)
	}
	return today
}

func (q query) dateRange(now time.Time) (period.Range, error) {
	return period.Preset(q.preset, q.anchor(now), q.grouping.WeekStart)
}

// request builds the report request, taking calendar and umbrella settings
// from cfg.
func (q query) request(cfg *config.Config, now time.Time) (report.Request, error) {
	r, err := q.dateRange(now)
	if err != nil {
		return report.Request{}, err
	}
	req := report.Request{
		Range:    r,
		Grouping: q.grouping,
		View:     q.view,
		State:    q.state,
		Chart:    q.chart,
		Weekend:  cfg.Weekend(),
		Holidays: cfg.Holidays(),
	}
	if u := cfg.Report.Umbrella; len(u.Projects) > 0 {
		req.Umbrella = &report.Umbrella{Label: u.Label, Projects: u.Projects}
	}
	return req, nil
}

// pivotViews are cycled through by the dimension key.
var pivotViews = []report.View{report.Activity, report.Project, report.Members}

func (q query) nextDimension() query {
	next := pivotViews[0]
	for i, v := range pivotViews {
		if v == q.view {
			next = pivotViews[(i+1)%len(pivotViews)]
			break
		}
	}
	q.view = next
	return q
}

func (q query) toggleState() query {
	if q.state == report.Summary {
		q.state = report.Detailed
	} else {
		q.state = report.Summary
	}
	return q
}

// describe is the one-line heading shared by the report views.
func (q query) describe(now time.Time) string {
	r, err := q.dateRange(now)
	if err != nil {
		return err.Error()
	}
	label := strings.ReplaceAll(q.preset, "_", " ")
	if q.offset != 0 {
		label += fmt.Sprintf(" %+d", q.offset)
	}
	return fmt.Sprintf("%s  %s  %s", label, r.String(), q.grouping.Granularity)
}
