package tasks

import (
	"regexp"
	"strings"
)

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)

// Section groups the tasks that follow a markdown heading. Tasks before the
// first heading land in a section with an empty title.
type Section struct {
	Title      string     `json:"title"`
	Level      int        `json:"level"`
	Line       int        `json:"line"`
	Tasks      []Task     `json:"tasks"`
	Completion Completion `json:"completion"`
}

// Sections splits text by headings and attaches each task to the closest
// heading above it. Sections without tasks are dropped.
func Sections(text string) []Section {
	tasks := Parse(text)
	byLine := make(map[int]Task, len(tasks))
	for _, t := range tasks {
		byLine[t.Line] = t
	}

	var out []Section
	current := Section{}
	flush := func() {
		if len(current.Tasks) > 0 {
			current.Completion = Complete(current.Tasks)
			out = append(out, current)
		}
	}
	for i, raw := range splitLines(text) {
		lineNo := i + 1
		if t, ok := byLine[lineNo]; ok {
			current.Tasks = append(current.Tasks, t)
			continue
		}
		m := headingPattern.FindStringSubmatch(strings.TrimRight(raw, "\r"))
		if m == nil {
			continue
		}
		flush()
		current = Section{Title: m[2], Level: len(m[1]), Line: lineNo}
	}
	flush()
	return out
}

// Flatten concatenates the tasks of every section in order.
func Flatten(sections []Section) []Task {
	var out []Task
	for _, s := range sections {
		out = append(out, s.Tasks...)
	}
	return out
}
