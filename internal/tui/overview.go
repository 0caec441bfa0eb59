package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timeanalytics/internal/analytics"
	"github.com/sadopc/timeanalytics/internal/export"
	"github.com/sadopc/timeanalytics/internal/report"
)

// overviewModel shows the period totals of the current report, or a page of
// its entries.
type overviewModel struct {
	width  int
	height int

	report  *report.Report
	err     error
	entries bool
	page    int
	perPage int
}

func newOverviewModel(perPage int) overviewModel {
	return overviewModel{page: 1, perPage: perPage}
}

func (o *overviewModel) setSize(w, h int) {
	o.width = w
	o.height = h
}

func (o overviewModel) update(msg tea.Msg) (overviewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportMsg:
		o.report, o.err = msg.report, msg.err
		o.page = 1
		return o, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Entries):
			o.entries = !o.entries
			o.page = 1
		case key.Matches(msg, keys.Down):
			if o.entries {
				o.page = clamp(o.page+1, 1, o.pages())
			}
		case key.Matches(msg, keys.Up):
			if o.entries {
				o.page = clamp(o.page-1, 1, o.pages())
			}
		}
	}
	return o, nil
}

func (o overviewModel) pages() int {
	if o.report == nil {
		return 1
	}
	_, info := analytics.Page(o.report.Records, o.page, o.perPage)
	return info.Pages
}

func (o overviewModel) view() string {
	if o.width < 20 {
		return "Terminal too small"
	}
	w := o.width - 4

	if o.err != nil {
		return panelStyle.Width(w).Render(errorStyle.Render("Error: " + o.err.Error()))
	}
	if o.report == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading report..."))
	}

	stats := o.renderStatsPanel(w)
	var body string
	switch {
	case len(o.report.Records) == 0:
		body = panelStyle.Width(w).Render(mutedStyle.Render("No time logged in the specified date range."))
	case o.entries:
		body = o.renderEntriesPanel(w)
	default:
		body = panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("Periods"),
				renderTable(export.BucketRows(o.report.Buckets), 0),
			),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, stats, body)
}

func (o overviewModel) renderStatsPanel(w int) string {
	rep := o.report
	scope := rep.Scope()
	title := titleStyle.Render(strings.ToUpper(scope[:1]) + scope[1:])
	total := totalStyle.Render(formatHours(rep.Stats.Sum))

	rows := []string{
		fmt.Sprintf("%s  %s", title, total),
		fmt.Sprintf("Average %s  Min %s  Max %s  Working days %s",
			highlightStyle.Render(formatHours(rep.Stats.Average)),
			formatHours(rep.Stats.Min),
			formatHours(rep.Stats.Max),
			highlightStyle.Render(fmt.Sprint(rep.WorkingDays)),
		),
	}
	if ts := rep.TeamStats; ts != nil {
		rows = append(rows, fmt.Sprintf("Team size %d  Active %d  Per member %s",
			ts.Size, ts.ActiveMembers, highlightStyle.Render(formatHours(ts.AveragePerMember))))
	}
	for _, h := range rep.Holidays {
		rows = append(rows, warningStyle.Render(fmt.Sprintf("  %s  %s", h.Date.Format("Mon Jan 02"), h.Name)))
	}
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (o overviewModel) renderEntriesPanel(w int) string {
	records, info := analytics.Page(o.report.Records, o.page, o.perPage)
	page := *o.report
	page.Records = records

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Entries"),
			renderTable(page.EntryTable(), 0),
			mutedStyle.Render(fmt.Sprintf("  Page %d of %d (%d entries)  ↑/↓: page  E: periods", info.Page, info.Pages, info.Total)),
		),
	)
}
