package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timeanalytics/internal/chart"
	"github.com/sadopc/timeanalytics/internal/report"
)

// chartModel draws the report's chart payload in the terminal. Every kind
// is drawn as bars; the payload kind only changes colouring and the legend.
type chartModel struct {
	width  int
	height int

	report *report.Report
	err    error
	chart  barchart.Model
}

func newChartModel() chartModel {
	return chartModel{chart: barchart.New(60, 12)}
}

func (c *chartModel) setSize(w, h int) {
	c.width = w
	c.height = h
	c.buildChart()
}

func (c chartModel) update(msg tea.Msg) (chartModel, tea.Cmd) {
	if msg, ok := msg.(reportMsg); ok {
		c.report, c.err = msg.report, msg.err
		c.buildChart()
	}
	return c, nil
}

// barColor picks the colour of dataset d at point i. Single series bar and
// pie payloads colour every point; stacked and line payloads colour whole
// series.
func barColor(p chart.Payload, d, i int) lipgloss.Color {
	ds := p.Datasets[d]
	switch {
	case p.Type == chart.Line && len(ds.BorderColor) > 0:
		return swatch(ds.BorderColor[0], d)
	case len(ds.BackgroundColor) > i && len(p.Datasets) == 1:
		return swatch(ds.BackgroundColor[i], i)
	case len(ds.BackgroundColor) > 0:
		return swatch(ds.BackgroundColor[0], d)
	}
	return colorPrimary
}

func (c *chartModel) buildChart() {
	chartWidth := max(c.width-8, 20)
	chartHeight := 12
	if c.height > 30 {
		chartHeight = 16
	}
	c.chart = barchart.New(chartWidth, chartHeight)

	if c.report == nil || c.report.Chart.Empty {
		return
	}
	p := c.report.Chart

	var bars []barchart.BarData
	for i, label := range p.Labels {
		var values []barchart.BarValue
		for d, ds := range p.Datasets {
			if i >= len(ds.Data) {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  ds.Label,
				Value: ds.Data[i],
				Style: lipgloss.NewStyle().Foreground(barColor(p, d, i)),
			})
		}
		bars = append(bars, barchart.BarData{Label: shortLabel(label), Values: values})
	}

	c.chart.PushAll(bars)
	c.chart.Draw()
}

// shortLabel keeps bar captions narrow; pie labels lose their proportions,
// which the legend shows in full.
func shortLabel(s string) string {
	if i := strings.Index(s, " ("); i > 0 {
		s = s[:i]
	}
	r := []rune(s)
	if len(r) > 8 {
		return string(r[:7]) + "…"
	}
	return s
}

func (c chartModel) view() string {
	w := c.width - 4
	if c.err != nil {
		return panelStyle.Width(w).Render(errorStyle.Render("Error: " + c.err.Error()))
	}
	if c.report == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading chart..."))
	}

	p := c.report.Chart
	req := c.report.Request
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render(fmt.Sprintf("%s chart", strings.ToUpper(string(p.Type[:1]))+string(p.Type[1:]))),
		"  ",
		mutedStyle.Render(fmt.Sprintf("%s, %s  total %.2fh", req.View, req.State, p.TotalHours)),
	)

	if p.Empty {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", mutedStyle.Render("  "+chart.NoData)),
		)
	}

	nav := mutedStyle.Render("  v: next dimension  s: summary/detailed  ←/→: period")
	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", c.chart.View(), "", c.renderLegend(), "", nav,
		),
	)
}

func (c chartModel) renderLegend() string {
	p := c.report.Chart
	var items []string
	if len(p.Datasets) == 1 && p.Type != chart.Line {
		for i, label := range p.Labels {
			items = append(items, lipgloss.NewStyle().Foreground(barColor(p, 0, i)).Render("●")+" "+label)
		}
	} else {
		for d, ds := range p.Datasets {
			items = append(items, lipgloss.NewStyle().Foreground(barColor(p, d, 0)).Render("●")+" "+ds.Label)
		}
	}
	return "  " + strings.Join(items, "  ")
}
