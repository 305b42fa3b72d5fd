// Package tasks reads and edits markdown checklists. Tasks are never stored;
// they are re-derived from file text on every read, and their identity is
// the 1-indexed line number they were found on.
package tasks

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

var (
	// ErrNotTaskLine is returned when a toggle targets a line without a checkbox.
	ErrNotTaskLine = errors.New("line is not a task")
	// ErrLineOutOfRange is returned when a toggle targets a line past the end of the file.
	ErrLineOutOfRange = errors.New("line out of range")
)

// IndentWidth is the number of leading spaces per nesting level. Tabs count
// as one level each.
const IndentWidth = 2

// checkboxPattern matches "- [ ] text", "* [x] text" and "1. [X] text".
// Group 1 is the leading whitespace, group 2 the mark, group 3 the text.
var checkboxPattern = regexp.MustCompile(`^(\s*)(?:[-*+]|\d+[.)])\s+\[([ xX])\](?:\s+(.*))?$`)

// Task is one checkbox line.
type Task struct {
	Line      int    `json:"line"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Indent    int    `json:"indent"`
}

// Completion aggregates a task list.
type Completion struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

func indentLevel(ws string) int {
	spaces, tabs := 0, 0
	for _, r := range ws {
		switch r {
		case '\t':
			tabs++
		case ' ':
			spaces++
		}
	}
	return tabs + spaces/IndentWidth
}

// Parse returns every checkbox line in text, in file order.
func Parse(text string) []Task {
	var out []Task
	for i, raw := range splitLines(text) {
		line := strings.TrimRight(raw, "\r")
		m := checkboxPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, Task{
			Line:      i + 1,
			Text:      strings.TrimSpace(m[3]),
			Completed: m[2] != " ",
			Indent:    indentLevel(m[1]),
		})
	}
	return out
}

// Toggle flips the checkbox on the given 1-indexed line and returns the new
// text. Only the mark character changes; every other byte is preserved.
func Toggle(text string, line int) (string, error) {
	lines := splitLines(text)
	if line < 1 || line > len(lines) {
		return "", fmt.Errorf("toggle line %d of %d: %w", line, len(lines), ErrLineOutOfRange)
	}
	target := lines[line-1]
	loc := checkboxPattern.FindStringSubmatchIndex(strings.TrimRight(target, "\r"))
	if loc == nil {
		return "", fmt.Errorf("toggle line %d: %w", line, ErrNotTaskLine)
	}
	// loc[4]:loc[5] spans the mark inside the brackets.
	mark := target[loc[4]:loc[5]]
	next := "x"
	if mark != " " {
		next = " "
	}
	lines[line-1] = target[:loc[4]] + next + target[loc[5]:]
	return strings.Join(lines, "\n"), nil
}

// Complete computes the completion aggregate. An empty list is 0 percent.
func Complete(tasks []Task) Completion {
	c := Completion{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		}
	}
	if c.Total > 0 {
		c.Percent = int(math.Round(100 * float64(c.Completed) / float64(c.Total)))
	}
	return c
}

// Visible returns all completed tasks followed by the first n incomplete
// ones, each group in file order. A negative n shows every incomplete task.
func Visible(tasks []Task, n int) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			out = append(out, t)
		}
	}
	shown := 0
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if n >= 0 && shown >= n {
			break
		}
		out = append(out, t)
		shown++
	}
	return out
}
