package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTable_ColumnWidths(t *testing.T) {
	table := &Table{
		Headers: []string{"ID", "Name", "Status"},
		Rows: [][]string{
			{"slay-dragon", "Slay the Dragon", "active"},
			{"brew", "Brew a potion of endless focus", "in-progress"},
		},
	}

	widths := table.ColumnWidths()

	assert.Equal(t, 11, widths[0])
	assert.Equal(t, 30, widths[1])
	assert.Equal(t, 11, widths[2])
}

func TestTable_ColumnWidths_DisplayCells(t *testing.T) {
	table := &Table{Headers: []string{"Name"}, Rows: [][]string{{"Café"}}}
	assert.Equal(t, 4, table.ColumnWidths()[0])
}

func TestTable_ColumnWidths_MaxWidth(t *testing.T) {
	table := &Table{
		Headers:  []string{"ID", "Description"},
		Rows:     [][]string{{"a", "This is a very long description that should be truncated"}},
		MaxWidth: 20,
	}

	widths := table.ColumnWidths()

	assert.Equal(t, 2, widths[0])
	assert.Equal(t, 20, widths[1])
}

func TestTable_Render(t *testing.T) {
	table := &Table{
		Headers: []string{"Quest", "XP"},
		Rows: [][]string{
			{"Slay", "115"},
			{"Brew", "8"},
		},
		Right: map[int]bool{1: true},
	}

	output := table.Render()

	assert.Contains(t, output, "Quest")
	assert.Contains(t, output, "Slay")
	assert.Contains(t, output, "─")
	assert.Contains(t, output, "  8")
}

func TestTable_Render_Empty(t *testing.T) {
	table := &Table{}
	assert.Empty(t, table.Render())
}

func TestTable_Render_Truncation(t *testing.T) {
	table := &Table{
		Headers:  []string{"Text"},
		Rows:     [][]string{{"This is way too long"}},
		MaxWidth: 10,
	}

	output := table.Render()

	assert.Contains(t, output, "This is...")
	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 11)
	}
}

func TestTable_Render_RowsHaveFewerColumns(t *testing.T) {
	table := &Table{
		Headers: []string{"ID", "Name", "Status"},
		Rows:    [][]string{{"1", "Alice"}},
	}

	output := table.Render()

	assert.Contains(t, output, "Alice")
	lines := strings.Split(strings.TrimSpace(output), "\n")
	assert.Equal(t, 3, len(lines))
}

func TestTable_Render_RowStyle(t *testing.T) {
	var styled []int
	table := &Table{
		Headers: []string{"Quest"},
		Rows:    [][]string{{"Slay"}, {"Brew"}},
		RowStyle: func(row int) lipgloss.Style {
			styled = append(styled, row)
			return lipgloss.NewStyle()
		},
	}

	output := table.Render()

	assert.Equal(t, []int{0, 1}, styled)
	assert.Contains(t, output, "Brew")
}
