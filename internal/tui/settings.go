package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timeanalytics/internal/config"
	"github.com/sadopc/timeanalytics/internal/period"
	"github.com/sadopc/timeanalytics/internal/store"
)

// settingKeys is the display order of the stored preferences.
var settingKeys = []string{
	store.SettingGranularity,
	store.SettingWeekStart,
	store.SettingView,
	store.SettingChart,
	store.SettingPreset,
}

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	prefs      map[string]string
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	granularity *string
	weekStart   *string
	viewSetting *string
	chart       *string
	preset      *string
}

func newSettingsModel(s *store.Store) settingsModel {
	g, ws, v, c, p := "", "", "", "", ""
	return settingsModel{
		store:       s,
		granularity: &g,
		weekStart:   &ws,
		viewSetting: &v,
		chart:       &c,
		preset:      &p,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		prefs, err := s.store.Preferences()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return preferencesMsg{prefs: prefs}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case preferencesMsg:
		s.prefs = msg.prefs
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func options(values []string) []huh.Option[string] {
	opts := make([]huh.Option[string], len(values))
	for i, v := range values {
		opts[i] = huh.NewOption(formatSettingValue(v), v)
	}
	return opts
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.granularity = s.getVal(store.SettingGranularity, string(period.Weekly))
	*s.weekStart = s.getVal(store.SettingWeekStart, "monday")
	*s.viewSetting = s.getVal(store.SettingView, "entries")
	*s.chart = s.getVal(store.SettingChart, "bar")
	*s.preset = s.getVal(store.SettingPreset, "this_month")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Group by").
				Options(options([]string{"daily", "weekly", "monthly", "yearly"})...).
				Value(s.granularity),
			huh.NewSelect[string]().Title("Week starts on").
				Options(options([]string{"monday", "sunday", "saturday"})...).
				Value(s.weekStart),
			huh.NewSelect[string]().Title("Date range").
				Options(options(period.Presets)...).
				Value(s.preset),
		).Title("Periods"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("View").
				Options(options(config.Views)...).
				Value(s.viewSetting),
			huh.NewSelect[string]().Title("Chart").
				Options(options([]string{"bar", "line", "pie"})...).
				Value(s.chart),
		).Title("Display"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.saveSettings()
	}

	return s, cmd
}

// saveSettings persists the form and reports the stored preferences back.
func (s settingsModel) saveSettings() tea.Cmd {
	values := map[string]string{
		store.SettingGranularity: *s.granularity,
		store.SettingWeekStart:   *s.weekStart,
		store.SettingView:        *s.viewSetting,
		store.SettingChart:       *s.chart,
		store.SettingPreset:      *s.preset,
	}
	return func() tea.Msg {
		for _, k := range settingKeys {
			if err := s.store.SetSetting(k, values[k]); err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
		}
		prefs, err := s.store.Preferences()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return preferencesMsg{prefs: prefs}
	}
}

func (s settingsModel) getVal(k, fallback string) string {
	if v, ok := s.prefs[k]; ok {
		return v
	}
	v, err := s.store.SettingOr(k, fallback)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	rows := []string{titleStyle.Render("Settings"), ""}
	for _, k := range settingKeys {
		label := lipgloss.NewStyle().Width(16).Render(formatSettingValue(k))
		value := highlightStyle.Render(formatSettingValue(s.prefs[k]))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}
	rows = append(rows, "", subtitleStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// formatSettingValue turns stored identifiers such as "last_7_days" into
// "Last 7 days".
func formatSettingValue(v string) string {
	v = strings.ReplaceAll(v, "_", " ")
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}
