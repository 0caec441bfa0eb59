package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/sadopc/timeanalytics/internal/export"
)

// Color definitions for consistent styling across the CLI.
var (
	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Totals and averages: green
	colorStats = color.New(color.FgGreen)

	// Holidays and warnings: yellow
	colorInsight = color.New(color.FgYellow)

	// Secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

func formatHeader(s string) string  { return colorHeader.Sprint(s) }
func formatStats(s string) string   { return colorStats.Sprint(s) }
func formatInsight(s string) string { return colorInsight.Sprint(s) }
func formatMuted(s string) string   { return colorMuted.Sprint(s) }

// printTable writes t as aligned columns. Columns after the first are right
// aligned, blank rows become a rule and lines are cut at the terminal width.
func printTable(w io.Writer, t export.Table) {
	widths := make([]int, len(t.Header))
	measure := func(row []string) {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}
	measure(t.Header)
	for _, row := range t.Rows {
		measure(row)
	}

	limit := termWidth()
	line := func(row []string) string {
		var b strings.Builder
		for i, width := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i > 0 {
				b.WriteString("  ")
			}
			pad := strings.Repeat(" ", width-utf8.RuneCountInString(cell))
			if i == 0 {
				b.WriteString(cell + pad)
			} else {
				b.WriteString(pad + cell)
			}
		}
		return truncate(strings.TrimRight(b.String(), " "), limit)
	}

	total := 0
	for _, width := range widths {
		total += width + 2
	}
	rule := strings.Repeat("─", min(max(total-2, 0), limit))

	fmt.Fprintln(w, formatHeader(line(t.Header)))
	fmt.Fprintln(w, formatMuted(rule))
	for _, row := range t.Rows {
		switch {
		case len(row) == 0:
			fmt.Fprintln(w, formatMuted(rule))
		case row[0] == export.TotalLabel:
			fmt.Fprintln(w, formatStats(line(row)))
		default:
			fmt.Fprintln(w, line(row))
		}
	}
}

func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}
