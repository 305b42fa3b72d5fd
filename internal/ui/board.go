package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/QuestWing/internal/quest"
	"github.com/josephgoksu/QuestWing/internal/tasks"
	"github.com/josephgoksu/QuestWing/internal/util"
	"github.com/josephgoksu/QuestWing/internal/utils"
	"github.com/josephgoksu/QuestWing/models"
)

// BoardItem is a quest plus the completion of its linked task files.
type BoardItem struct {
	Quest      *models.Quest     `json:"quest"`
	Completion *tasks.Completion `json:"completion,omitempty"`
}

// BoardItems snapshots the cache in board order.
func BoardItems(cache *quest.Cache) []BoardItem {
	qs := cache.All()
	quest.SortBoard(qs)
	items := make([]BoardItem, 0, len(qs))
	for _, q := range qs {
		item := BoardItem{Quest: q}
		if secs, ok := cache.Sections(q.QuestID); ok {
			c := tasks.Complete(tasks.Flatten(secs))
			item.Completion = &c
		}
		items = append(items, item)
	}
	return items
}

// ProgressBar draws a fixed-width bar for percent.
func ProgressBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	return StyleSuccess.Render(strings.Repeat("█", filled)) +
		StyleSubtle.Render(strings.Repeat("░", width-filled))
}

func completionLabel(c *tasks.Completion) string {
	if c == nil || c.Total == 0 {
		return ""
	}
	return fmt.Sprintf("%s %d/%d", ProgressBar(c.Percent, 10), c.Completed, c.Total)
}

// RenderBoard lays the quests out in one column per status. colWidth <= 0
// picks a default.
func RenderBoard(items []BoardItem, colWidth int) string {
	return renderBoard(items, colWidth, "")
}

func renderBoard(items []BoardItem, colWidth int, selected string) string {
	if colWidth <= 0 {
		colWidth = 28
	}
	byStatus := make(map[models.QuestStatus][]BoardItem, len(models.Statuses))
	for _, it := range items {
		byStatus[it.Quest.Status] = append(byStatus[it.Quest.Status], it)
	}

	cols := make([]string, 0, len(models.Statuses))
	for _, status := range models.Statuses {
		list := byStatus[status]
		title := lipgloss.NewStyle().Bold(true).Foreground(StatusColor(status)).
			Render(fmt.Sprintf("%s (%d)", utils.ToTitle(string(status)), len(list)))

		lines := []string{title, ""}
		if len(list) == 0 {
			lines = append(lines, StyleSubtle.Render("no quests"))
		}
		for _, it := range list {
			lines = append(lines, renderCard(it, colWidth, it.Quest.QuestID == selected)...)
		}
		col := StyleColumn.BorderForeground(StatusColor(status)).Width(colWidth).
			Render(strings.Join(lines, "\n"))
		cols = append(cols, col)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func renderCard(it BoardItem, width int, selected bool) []string {
	q := it.Quest
	title := StyleTitle.Render(utils.Truncate(q.QuestName, width))
	if selected {
		title = StyleGold.Render("▸ " + utils.Truncate(q.QuestName, width-2))
	}
	lines := []string{title}
	meta := PriorityStyle(q.Priority).Render(string(q.Priority))
	if q.Category != "" {
		meta += StyleSubtle.Render(" · " + q.Category)
	}
	lines = append(lines, meta)
	if label := completionLabel(it.Completion); label != "" {
		lines = append(lines, label)
	}
	return append(lines, "")
}

// RenderQuestTable renders quests as a table for non-interactive output.
func RenderQuestTable(items []BoardItem) string {
	table := &Table{
		Headers:  []string{"ID", "Name", "Status", "Priority", "Category", "Tasks"},
		MaxWidth: 40,
		Right:    map[int]bool{5: true},
		RowStyle: func(row int) lipgloss.Style {
			return lipgloss.NewStyle().Foreground(StatusColor(items[row].Quest.Status))
		},
	}
	for _, it := range items {
		q := it.Quest
		done := "-"
		if it.Completion != nil && it.Completion.Total > 0 {
			done = fmt.Sprintf("%d/%d", it.Completion.Completed, it.Completion.Total)
		}
		table.Rows = append(table.Rows, []string{
			util.ShortID(q.QuestID, 0), q.QuestName, string(q.Status), string(q.Priority), q.Category, done,
		})
	}
	return table.Render()
}

// RenderQuest shows one quest with its visible tasks, or every task when
// showAll is set.
func RenderQuest(q *models.Quest, sections []tasks.Section, showAll bool) string {
	var sb strings.Builder
	sb.WriteString(StyleHeader.Render(q.QuestName) + "\n")
	field := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&sb, " %s %s\n", StyleSubtle.Render(fmt.Sprintf("%-10s", k)), v)
		}
	}
	field("ID", q.QuestID)
	field("Type", string(q.QuestType))
	field("Status", lipgloss.NewStyle().Foreground(StatusColor(q.Status)).Render(string(q.Status)))
	field("Priority", PriorityStyle(q.Priority).Render(string(q.Priority)))
	field("Category", q.Category)
	if len(q.Tags) > 0 {
		field("Tags", strings.Join(q.Tags, ", "))
	}
	if q.CompletedDate != nil {
		field("Completed", q.CompletedDate.Format("2006-01-02 15:04"))
	}

	switch {
	case q.IsManual():
		field("Tasks", q.Manual.LinkedTaskFile)
		field("XP", fmt.Sprintf("%d/task + %d bonus", q.Manual.XPPerTask, q.Manual.CompletionBonus))
		visible := q.Manual.VisibleTasks
		if showAll {
			visible = -1
		}
		renderSections(&sb, sections, visible)
	case q.IsGenerated():
		g := q.Generated
		field("Goal", g.Goal)
		field("Difficulty", g.Difficulty)
		field("XP", fmt.Sprintf("%d", g.XPTotal))
		if g.Description != "" {
			sb.WriteString("\n" + WrapText(g.Description, 72) + "\n")
		}
		if len(g.Milestones) > 0 {
			sb.WriteString("\n" + StyleSectionTitle.Render("Milestones") + "\n")
			for _, m := range g.Milestones {
				sb.WriteString(" " + checkMark(m.Completed) + " " + m.Title + "\n")
			}
		}
	}
	return sb.String()
}

func renderSections(sb *strings.Builder, sections []tasks.Section, visible int) {
	all := tasks.Flatten(sections)
	if len(all) == 0 {
		return
	}
	// Line numbers repeat across linked files, so visibility is keyed by
	// position in the flattened list.
	ordinal := make([]tasks.Task, len(all))
	for i, t := range all {
		t.Line = i
		ordinal[i] = t
	}
	shown := make(map[int]bool)
	for _, t := range tasks.Visible(ordinal, visible) {
		shown[t.Line] = true
	}
	c := tasks.Complete(all)
	fmt.Fprintf(sb, "\n %s\n", completionLabel(&c))
	pos := -1
	for _, sec := range sections {
		header := false
		for _, t := range sec.Tasks {
			pos++
			if !shown[pos] {
				continue
			}
			if !header && sec.Title != "" {
				sb.WriteString(StyleSectionTitle.Render(sec.Title) + "\n")
				header = true
			}
			indent := strings.Repeat("  ", t.Indent)
			fmt.Fprintf(sb, " %s%s %s %s\n", indent, checkMark(t.Completed), t.Text, StyleSubtle.Render(fmt.Sprintf("L%d", t.Line)))
		}
	}
	if hidden := len(all) - len(shown); hidden > 0 {
		sb.WriteString(StyleSubtle.Render(fmt.Sprintf(" … %d more", hidden)) + "\n")
	}
}

func checkMark(done bool) string {
	if done {
		return StyleSuccess.Render("[x]")
	}
	return StyleSubtle.Render("[ ]")
}
