package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sadopc/timeanalytics/internal/export"
)

// renderTable draws an export table. Blank separator rows are dropped and
// the TOTAL row is highlighted.
func renderTable(t export.Table, width int) string {
	var rows [][]string
	for _, row := range t.Rows {
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorSubtle)).
		Headers(t.Header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if col > 0 {
				s = s.Align(lipgloss.Right)
			}
			switch {
			case row == table.HeaderRow:
				return s.Bold(true).Foreground(colorHighlight)
			case row >= 0 && row < len(rows) && rows[row][0] == export.TotalLabel:
				return s.Bold(true).Foreground(colorSuccess)
			}
			return s.Foreground(colorFg)
		})
	if width > 0 {
		tbl = tbl.Width(width)
	}
	return tbl.Render()
}
