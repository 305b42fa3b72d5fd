package codec

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/josephgoksu/QuestWing/models"
)

// generatedFile is the JSON wire shape of a generated quest.
type generatedFile struct {
	SchemaVersion int                    `json:"schemaVersion"`
	QuestID       string                 `json:"questId"`
	QuestName     string                 `json:"questName"`
	QuestType     string                 `json:"questType"`
	Category      string                 `json:"category"`
	Status        string                 `json:"status,omitempty"`
	Priority      string                 `json:"priority,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
	CreatedDate   *time.Time             `json:"createdDate,omitempty"`
	CompletedDate *time.Time             `json:"completedDate,omitempty"`
	Timeline      []models.TimelineEvent `json:"timeline,omitempty"`

	Description   string              `json:"description,omitempty"`
	Goal          string              `json:"goal,omitempty"`
	Difficulty    string              `json:"difficulty,omitempty"`
	XPTotal       int                 `json:"xpTotal"`
	EstimatedDays int                 `json:"estimatedDays,omitempty"`
	Milestones    []models.Milestone  `json:"milestones,omitempty"`
	HiddenRewards []string            `json:"hiddenRewards,omitempty"`
	GearRewards   []models.GearReward `json:"gearRewards,omitempty"`
}

// DecodeGenerated parses a generated quest JSON file. A JSON syntax error is
// returned as an error rather than a panic so one corrupt file cannot abort
// a load pass.
func DecodeGenerated(content, path string) (*models.Quest, error) {
	var f generatedFile
	if err := json.Unmarshal([]byte(content), &f); err != nil {
		return nil, fmt.Errorf("parse generated quest %s: %w", path, err)
	}

	q := &models.Quest{
		SchemaVersion: f.SchemaVersion,
		QuestID:       f.QuestID,
		QuestName:     f.QuestName,
		QuestType:     models.QuestType(strings.ToLower(f.QuestType)),
		Category:      f.Category,
		Status:        defaultStatus(),
		Priority:      defaultPriority(),
		Tags:          f.Tags,
		CompletedDate: f.CompletedDate,
		Timeline:      f.Timeline,
		Kind:          models.KindGenerated,
		Path:          path,
		Generated: &models.GeneratedDetails{
			Description:   f.Description,
			Goal:          f.Goal,
			Difficulty:    f.Difficulty,
			XPTotal:       f.XPTotal,
			EstimatedDays: f.EstimatedDays,
			Milestones:    f.Milestones,
			HiddenRewards: f.HiddenRewards,
			GearRewards:   f.GearRewards,
		},
	}
	if q.SchemaVersion <= 0 {
		q.SchemaVersion = defaultInt(FieldSchemaVersion)
	}
	if st, ok := models.ParseStatus(strings.ToLower(f.Status)); ok {
		q.Status = st
	}
	if p, ok := models.ParsePriority(strings.ToLower(f.Priority)); ok {
		q.Priority = p
	}
	if f.CreatedDate != nil {
		q.CreatedDate = *f.CreatedDate
	}
	return q, nil
}

// EncodeGenerated serializes a generated quest as indented JSON.
func EncodeGenerated(q *models.Quest) (string, error) {
	if !q.IsGenerated() {
		return "", fmt.Errorf("encode %s: not a generated quest", q.QuestID)
	}
	g := q.Generated
	f := generatedFile{
		SchemaVersion: q.SchemaVersion,
		QuestID:       q.QuestID,
		QuestName:     q.QuestName,
		QuestType:     string(q.QuestType),
		Category:      q.Category,
		Status:        string(q.Status),
		Priority:      string(q.Priority),
		Tags:          q.Tags,
		CompletedDate: q.CompletedDate,
		Timeline:      q.Timeline,
		Description:   g.Description,
		Goal:          g.Goal,
		Difficulty:    g.Difficulty,
		XPTotal:       g.XPTotal,
		EstimatedDays: g.EstimatedDays,
		Milestones:    g.Milestones,
		HiddenRewards: g.HiddenRewards,
		GearRewards:   g.GearRewards,
	}
	if f.SchemaVersion <= 0 {
		f.SchemaVersion = models.CurrentSchemaVersion
	}
	if !q.CreatedDate.IsZero() {
		created := q.CreatedDate
		f.CreatedDate = &created
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal generated quest %s: %w", q.QuestID, err)
	}
	return string(data) + "\n", nil
}
