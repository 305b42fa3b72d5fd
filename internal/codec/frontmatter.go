package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/josephgoksu/QuestWing/models"
)

const frontmatterDelimiter = "---"

// MaxFrontmatterLines bounds how far the decoder looks for the closing
// delimiter.
const MaxFrontmatterLines = 200

var (
	// ErrNoFrontmatter means the file carries no frontmatter block and is
	// therefore not a quest file.
	ErrNoFrontmatter = errors.New("no frontmatter found")
	// ErrUnclosedFrontmatter means the opening delimiter has no partner.
	ErrUnclosedFrontmatter = errors.New("unclosed frontmatter")
	// ErrMultilineValue means a frontmatter value would span lines.
	ErrMultilineValue = errors.New("value contains a line break")
)

// Fields is the ordered key/value content of a frontmatter block.
type Fields struct {
	keys   []string
	values map[string]string
}

// Get returns the raw value for key.
func (f Fields) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Keys returns the keys in file order.
func (f Fields) Keys() []string { return f.keys }

// SplitFrontmatter separates the frontmatter block from the markdown body.
func SplitFrontmatter(content string) (Fields, string, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.SplitAfter(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontmatterDelimiter {
		return Fields{}, content, ErrNoFrontmatter
	}

	fields := Fields{values: make(map[string]string)}
	for i := 1; i < len(lines); i++ {
		if i > MaxFrontmatterLines {
			break
		}
		line := strings.TrimRight(lines[i], "\r\n")
		if strings.TrimSpace(line) == frontmatterDelimiter {
			body := strings.Join(lines[i+1:], "")
			return fields, body, nil
		}
		key, value, ok := parseLine(line)
		if !ok {
			continue
		}
		if _, seen := fields.values[key]; !seen {
			fields.keys = append(fields.keys, key)
		}
		fields.values[key] = value
	}
	return Fields{}, content, ErrUnclosedFrontmatter
}

// parseLine reads a simple `key: value` pair, stripping one layer of
// matching quotes from the value.
func parseLine(line string) (string, string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	idx := strings.Index(trimmed, ":")
	if idx <= 0 {
		return "", "", false
	}
	key := strings.TrimSpace(trimmed[:idx])
	value := strings.TrimSpace(trimmed[idx+1:])
	return key, unquote(value), true
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

func splitList(v string) []string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "[")
	v = strings.TrimSuffix(v, "]")
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = unquote(strings.Trim(strings.TrimSpace(part), "[]"))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intField(f Fields, key string) int {
	raw, ok := f.Get(key)
	if !ok {
		return defaultInt(key)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultInt(key)
	}
	return n
}

func parseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DecodeManual builds a manual quest from a markdown file with frontmatter.
// Optional fields fall back to Defaults; required fields are left empty for
// the validator to reject.
func DecodeManual(content, path string) (*models.Quest, error) {
	fields, body, err := SplitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	q := &models.Quest{
		SchemaVersion: intField(fields, FieldSchemaVersion),
		Kind:          models.KindManual,
		Path:          path,
		Manual: &models.ManualDetails{
			XPPerTask:       intField(fields, FieldXPPerTask),
			CompletionBonus: intField(fields, FieldCompletionBonus),
			VisibleTasks:    intField(fields, FieldVisibleTasks),
			SortOrder:       intField(fields, FieldSortOrder),
			Body:            body,
		},
	}
	q.QuestID, _ = fields.Get(FieldQuestID)
	q.QuestName, _ = fields.Get(FieldQuestName)
	q.Category, _ = fields.Get(FieldCategory)
	if qt, ok := fields.Get(FieldQuestType); ok {
		q.QuestType = models.QuestType(strings.ToLower(qt))
	}

	q.Status = defaultStatus()
	if raw, ok := fields.Get(FieldStatus); ok {
		if st, ok := models.ParseStatus(strings.ToLower(raw)); ok {
			q.Status = st
		}
	}
	q.Priority = defaultPriority()
	if raw, ok := fields.Get(FieldPriority); ok {
		if p, ok := models.ParsePriority(strings.ToLower(raw)); ok {
			q.Priority = p
		}
	}

	if raw, ok := fields.Get(FieldLinkedTaskFile); ok {
		q.Manual.LinkedTaskFile = raw
	}
	if raw, ok := fields.Get(FieldAdditionalFiles); ok {
		q.Manual.AdditionalFiles = splitList(raw)
	}
	if raw, ok := fields.Get(FieldMilestones); ok {
		q.Manual.Milestones = splitList(raw)
	}
	if raw, ok := fields.Get(FieldTags); ok {
		q.Tags = splitList(raw)
	}
	if raw, ok := fields.Get(FieldCreatedDate); ok {
		if t, ok := parseTime(raw); ok {
			q.CreatedDate = t
		}
	}
	if raw, ok := fields.Get(FieldCompletedDate); ok {
		if t, ok := parseTime(raw); ok {
			q.CompletedDate = &t
		}
	}
	if raw, ok := fields.Get(FieldTimeline); ok && raw != "" {
		var events []models.TimelineEvent
		if err := json.Unmarshal([]byte(raw), &events); err == nil {
			q.Timeline = events
		}
	}
	return q, nil
}

func quote(v string) string {
	return `"` + v + `"`
}

// EncodeManual renders a manual quest as frontmatter followed by its body.
// Optional fields are written only when present.
func EncodeManual(q *models.Quest) (string, error) {
	if !q.IsManual() {
		return "", fmt.Errorf("encode %s: not a manual quest", q.QuestID)
	}
	m := q.Manual
	single := map[string][]string{
		FieldQuestID:         {q.QuestID},
		FieldQuestName:       {q.QuestName},
		FieldCategory:        {q.Category},
		FieldLinkedTaskFile:  {m.LinkedTaskFile},
		FieldAdditionalFiles: m.AdditionalFiles,
		FieldMilestones:      m.Milestones,
		FieldTags:            q.Tags,
	}
	for key, values := range single {
		for _, v := range values {
			if strings.ContainsAny(v, "\r\n") {
				return "", fmt.Errorf("encode %s %s: %w", q.QuestID, key, ErrMultilineValue)
			}
		}
	}

	var b strings.Builder
	line := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	schema := q.SchemaVersion
	if schema <= 0 {
		schema = models.CurrentSchemaVersion
	}

	b.WriteString(frontmatterDelimiter + "\n")
	line(FieldSchemaVersion, strconv.Itoa(schema))
	line(FieldQuestID, quote(q.QuestID))
	line(FieldQuestName, quote(q.QuestName))
	line(FieldQuestType, string(q.QuestType))
	line(FieldCategory, quote(q.Category))
	line(FieldStatus, string(q.Status))
	line(FieldPriority, string(q.Priority))
	if m.LinkedTaskFile != "" {
		line(FieldLinkedTaskFile, quote(m.LinkedTaskFile))
	}
	if len(m.AdditionalFiles) > 0 {
		line(FieldAdditionalFiles, strings.Join(m.AdditionalFiles, ", "))
	}
	line(FieldXPPerTask, strconv.Itoa(m.XPPerTask))
	line(FieldCompletionBonus, strconv.Itoa(m.CompletionBonus))
	line(FieldVisibleTasks, strconv.Itoa(m.VisibleTasks))
	if m.SortOrder != 0 {
		line(FieldSortOrder, strconv.Itoa(m.SortOrder))
	}
	if len(m.Milestones) > 0 {
		line(FieldMilestones, strings.Join(m.Milestones, ", "))
	}
	if len(q.Tags) > 0 {
		line(FieldTags, strings.Join(q.Tags, ", "))
	}
	if !q.CreatedDate.IsZero() {
		line(FieldCreatedDate, quote(q.CreatedDate.Format(time.RFC3339)))
	}
	if q.CompletedDate != nil {
		line(FieldCompletedDate, quote(q.CompletedDate.Format(time.RFC3339)))
	}
	if len(q.Timeline) > 0 {
		data, err := json.Marshal(q.Timeline)
		if err != nil {
			return "", fmt.Errorf("encode %s timeline: %w", q.QuestID, err)
		}
		line(FieldTimeline, string(data))
	}
	b.WriteString(frontmatterDelimiter + "\n")
	b.WriteString(m.Body)
	return b.String(), nil
}
