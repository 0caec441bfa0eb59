package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/sadopc/timeanalytics/internal/report"
	"github.com/sadopc/timeanalytics/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewOverview viewState = iota
	viewPivot
	viewChart
	viewHolidays
	viewSettings
)

var viewNames = []string{"Overview", "Pivot", "Chart", "Holidays", "Settings"}

// --- Messages ---

// reportMsg carries a freshly built report to every view that shows one.
// query identifies the request, so that results of a superseded query are
// dropped.
type reportMsg struct {
	query  query
	report *report.Report
	err    error
}

// holidaysDataMsg carries the holiday list; changed is set after an edit,
// when reports must be rebuilt.
type holidaysDataMsg struct {
	holidays []store.CustomHoliday
	changed  bool
}

// preferencesMsg reports saved settings so the app can rebuild its query.
type preferencesMsg struct {
	prefs map[string]string
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatHours(d decimal.Decimal) string {
	return d.StringFixed(2) + "h"
}

// ansiFallback colours series past the hex palette, whose CSS hsl() values
// the terminal cannot draw.
var ansiFallback = []string{"1", "2", "3", "4", "5", "6", "9", "10", "11", "12", "13", "14"}

// swatch converts a chart colour to a terminal colour.
func swatch(color string, i int) lipgloss.Color {
	if strings.HasPrefix(color, "#") {
		return lipgloss.Color(color)
	}
	return lipgloss.Color(ansiFallback[i%len(ansiFallback)])
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
