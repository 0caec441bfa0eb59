package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timeanalytics/internal/report"
)

// pivotModel tabulates the current report by period and dimension value.
type pivotModel struct {
	width  int
	height int

	report *report.Report
	err    error
}

func (p *pivotModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pivotModel) update(msg tea.Msg) (pivotModel, tea.Cmd) {
	if msg, ok := msg.(reportMsg); ok {
		p.report, p.err = msg.report, msg.err
	}
	return p, nil
}

func (p pivotModel) view() string {
	w := p.width - 4
	if p.err != nil {
		return panelStyle.Width(w).Render(errorStyle.Render("Error: " + p.err.Error()))
	}
	if p.report == nil || p.report.Pivot == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading pivot..."))
	}

	req := p.report.Request
	title := titleStyle.Render(fmt.Sprintf("By %s", req.View))
	state := mutedStyle.Render(fmt.Sprintf("(%s)", req.State))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, title, " ", state)

	body := mutedStyle.Render("No time logged in the specified date range.")
	if len(p.report.Records) > 0 {
		body = renderTable(p.report.Table(), 0)
	}

	nav := mutedStyle.Render("  v: next dimension  s: summary/detailed  ←/→: period")
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", nav),
	)
}
