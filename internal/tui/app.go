// Package tui is the interactive dashboard: period totals, pivots, charts,
// custom holidays and stored preferences over one shared report query.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timeanalytics/internal/config"
	"github.com/sadopc/timeanalytics/internal/export"
	"github.com/sadopc/timeanalytics/internal/report"
	"github.com/sadopc/timeanalytics/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store *store.Store
	svc   *report.Service
	cfg   *config.Config
	now   func() time.Time

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	query    query
	overview overviewModel
	pivot    pivotModel
	chart    chartModel
	holidays holidaysModel
	settings settingsModel

	help   help.Model
	status string
}

// NewApp builds the dashboard. A nil cfg means the defaults.
func NewApp(s *store.Store, svc *report.Service, cfg *config.Config) App {
	if cfg == nil {
		cfg = config.Default()
	}
	h := help.New()
	h.ShowAll = false

	prefs, _ := s.Preferences()
	settings := newSettingsModel(s)
	settings.prefs = prefs

	return App{
		store:      s,
		svc:        svc,
		cfg:        cfg,
		now:        time.Now,
		activeView: viewOverview,
		query:      newQuery(cfg, prefs),
		overview:   newOverviewModel(cfg.Report.PerPage),
		chart:      newChartModel(),
		holidays:   newHolidaysModel(s),
		settings:   settings,
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loadReport(),
		a.holidays.refresh(),
	)
}

// loadReport builds the report for the current query off the update loop.
func (a App) loadReport() tea.Cmd {
	q, cfg, svc, now := a.query, a.cfg, a.svc, a.now()
	return func() tea.Msg {
		req, err := q.request(cfg, now)
		if err != nil {
			return reportMsg{query: q, err: err}
		}
		rep, err := svc.Build(req)
		return reportMsg{query: q, report: rep, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.overview.setSize(a.width, contentHeight)
		a.pivot.setSize(a.width, contentHeight)
		a.chart.setSize(a.width, contentHeight)
		a.holidays.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A child view capturing input (e.g. a form) gets keys first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewOverview)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewPivot)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewChart)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewHolidays)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

		if a.showsReport() {
			if q, ok := a.queryKey(msg); ok {
				return a.setQuery(q)
			}
		}

	case reportMsg:
		if msg.query != a.query {
			return a, nil
		}
		if msg.err != nil {
			a.status = "Error: " + msg.err.Error()
		}
		a.overview, _ = a.overview.update(msg)
		a.pivot, _ = a.pivot.update(msg)
		a.chart, _ = a.chart.update(msg)
		return a, nil

	case holidaysDataMsg:
		a.holidays, _ = a.holidays.update(msg)
		if msg.changed {
			a.status = "Holidays updated"
			return a, a.loadReport()
		}
		return a, nil

	case preferencesMsg:
		a.settings, _ = a.settings.update(msg)
		if q := a.query.apply(msg.prefs); q != a.query {
			a.status = "Settings saved"
			return a.setQuery(q)
		}
		return a, nil

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// queryKey maps navigation keys onto the shared query.
func (a App) queryKey(msg tea.KeyMsg) (query, bool) {
	q := a.query
	switch {
	case key.Matches(msg, keys.Prev):
		q.offset--
	case key.Matches(msg, keys.Next):
		q.offset++
	case key.Matches(msg, keys.Current):
		q.offset = 0
	case key.Matches(msg, keys.State) && a.activeView != viewOverview:
		q = q.toggleState()
	case key.Matches(msg, keys.Dimension) && a.activeView != viewOverview:
		q = q.nextDimension()
	default:
		return q, false
	}
	return q, true
}

func (a App) setQuery(q query) (tea.Model, tea.Cmd) {
	if q == a.query {
		return a, nil
	}
	a.query = q
	return a, a.loadReport()
}

// switchTo activates v. The pivot view needs a dimension, so an entries
// query moves to the first one.
func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	switch v {
	case viewPivot:
		if !a.query.view.IsPivot() {
			return a.setQuery(a.query.nextDimension())
		}
	case viewHolidays:
		return a, a.holidays.refresh()
	case viewSettings:
		return a, a.settings.refresh()
	}
	return a, nil
}

func (a App) showsReport() bool {
	switch a.activeView {
	case viewOverview, viewPivot, viewChart:
		return true
	}
	return false
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewOverview:
		a.overview, cmd = a.overview.update(msg)
	case viewPivot:
		a.pivot, cmd = a.pivot.update(msg)
	case viewChart:
		a.chart, cmd = a.chart.update(msg)
	case viewHolidays:
		a.holidays, cmd = a.holidays.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewHolidays:
		return a.holidays.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewOverview:
		content = a.overview.view()
	case viewPivot:
		content = a.pivot.view()
	case viewChart:
		content = a.chart.view()
	case viewHolidays:
		content = a.holidays.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("timeanalytics")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}
	period := accentStyle.Render(" " + a.query.describe(a.now()))

	left := footerStyle.Render(helpView)
	right := period + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the current report to the home directory. CSV exports the
// table on screen; JSON always exports entries.
func (a App) doExport(format int) tea.Cmd {
	rep := a.overview.report
	entries := format == 1 || (a.activeView == viewOverview && a.overview.entries)
	return func() tea.Msg {
		if rep == nil {
			return statusMsg{text: "Nothing to export yet", isError: true}
		}
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}

		if format == 0 {
			path := filepath.Join(home, rep.Filename(entries, "csv"))
			table := rep.Table()
			if entries {
				table = rep.EntryTable()
			}
			if err := export.ToCSV(table, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
			return exportDoneMsg{path: path}
		}

		path := filepath.Join(home, rep.Filename(true, "json"))
		r := rep.Request.Range
		if err := export.ToJSON(rep.Records, rep.Directory, r.From.Format(time.DateOnly), r.To.Format(time.DateOnly), path); err != nil {
			return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
