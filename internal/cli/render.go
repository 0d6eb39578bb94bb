// Package cli renders cost breakdowns for terminal output.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Simplici0/amelie/internal/costmodel"
	"github.com/Simplici0/amelie/internal/report"
)

// Terminal palette: Flexoki dark accents on the default background.
var (
	frame    = lipgloss.NewStyle().Foreground(lipgloss.Color("#575653"))
	heading  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3AA99F"))
	cellText = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFCF0"))
	totalRow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#879A39"))
	failure  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D14D41"))
)

// Table is a bordered text table. Rows equal to {"---"} draw a separator.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a centered title bar in a rounded box.
func RenderTitle(title string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(frame.GetForeground()).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return box.Render(cellText.Bold(true).Render(title))
}

// RenderError formats err for stderr.
func RenderError(err error) string {
	return failure.Render("error: " + err.Error())
}

// RenderTable renders t with the first column left aligned and the others
// right aligned.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + heading.Render(t.Title) + "\n")
	}

	b.WriteString(rule("╭", "┬", "╮", widths))
	if len(t.Headers) > 0 {
		b.WriteString(line(t.Headers, widths, heading))
		b.WriteString(rule("├", "┼", "┤", widths))
	}
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(rule("├", "┼", "┤", widths))
			continue
		}
		style := cellText
		if len(row) > 0 && row[0] == report.TotalLabel {
			style = totalRow
		}
		b.WriteString(line(row, widths, style))
	}
	b.WriteString(rule("╰", "┴", "╯", widths))

	return b.String()
}

// BreakdownTable turns a mapping into a Category / Cost table closed by a
// separator and the Total row.
func BreakdownTable(title string, m costmodel.CostMapping) Table {
	t := Table{Title: title, Headers: []string{report.HeaderCategory, report.HeaderCost}}
	for _, r := range report.Table(m) {
		if r.Total {
			t.Rows = append(t.Rows, []string{"---"})
		}
		t.Rows = append(t.Rows, []string{r.Category, r.Formatted()})
	}
	return t
}

// TotalsTable summarises both totals.
func TotalsTable(totals costmodel.Totals) Table {
	return Table{
		Title:   "Results",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total CapEx", report.FormatEUR(totals.CapEx)},
			{"Total OpEx", report.FormatEUR(totals.OpEx) + "/batch"},
		},
	}
}

func rule(left, mid, right string, widths []int) string {
	var b strings.Builder
	b.WriteString(frame.Render(left))
	for i, w := range widths {
		b.WriteString(frame.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(frame.Render(mid))
		}
	}
	b.WriteString(frame.Render(right))
	b.WriteString("\n")
	return b.String()
}

func line(cells []string, widths []int, style lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(frame.Render("│"))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", w-lipgloss.Width(cell))
		if i == 0 {
			b.WriteString(style.Render(fmt.Sprintf(" %s%s ", cell, pad)))
		} else {
			b.WriteString(style.Render(fmt.Sprintf(" %s%s ", pad, cell)))
		}
		if i < len(widths)-1 {
			b.WriteString(frame.Render("│"))
		}
	}
	b.WriteString(frame.Render("│"))
	b.WriteString("\n")
	return b.String()
}
