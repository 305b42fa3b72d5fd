package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/QuestWing/internal/utils"
)

// Table is a fixed-width terminal table. Widths are measured in display
// cells, so emoji and accented quest names line up.
type Table struct {
	Headers  []string
	Rows     [][]string
	MaxWidth int // per column, 0 = no limit
	// Right marks numeric columns that align to the right edge.
	Right map[int]bool
	// RowStyle, when set, colours a whole row (e.g. by quest status).
	RowStyle func(row int) lipgloss.Style
}

// ColumnWidths returns the width of each column: the widest header or cell,
// clamped to MaxWidth.
func (t *Table) ColumnWidths() []int {
	widths := make([]int, len(t.Headers))
	grow := func(i int, s string) {
		if w := lipgloss.Width(s); i < len(widths) && w > widths[i] {
			widths[i] = w
		}
	}
	for i, h := range t.Headers {
		grow(i, h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			grow(i, cell)
		}
	}
	for i := range widths {
		if t.MaxWidth > 0 && widths[i] > t.MaxWidth {
			widths[i] = t.MaxWidth
		}
	}
	return widths
}

// Render returns the header, a rule and one line per row.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}
	widths := t.ColumnWidths()

	var sb strings.Builder
	writeLine := func(cells []string, style lipgloss.Style, sep string) {
		out := make([]string, len(widths))
		for i, w := range widths {
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			if lipgloss.Width(val) > w {
				val = utils.Truncate(val, w)
			}
			out[i] = style.Render(t.pad(i, val, w))
		}
		sb.WriteString(" " + strings.Join(out, sep) + "\n")
	}

	writeLine(t.Headers, lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary), "  ")
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	writeLine(rule, StyleSubtle, "──")

	cell := lipgloss.NewStyle().Foreground(ColorText)
	for n, row := range t.Rows {
		style := cell
		if t.RowStyle != nil {
			style = t.RowStyle(n)
		}
		writeLine(row, style, "  ")
	}
	return sb.String()
}

func (t *Table) pad(col int, s string, width int) string {
	gap := width - lipgloss.Width(s)
	switch {
	case gap <= 0:
		return s
	case t.Right[col]:
		return strings.Repeat(" ", gap) + s
	default:
		return s + strings.Repeat(" ", gap)
	}
}
