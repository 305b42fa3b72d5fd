package models

import (
	"errors"
	"fmt"
	"time"
)

// QuestStatus represents where a quest sits on the board.
type QuestStatus string

const (
	StatusAvailable  QuestStatus = "available"
	StatusActive     QuestStatus = "active"
	StatusInProgress QuestStatus = "in-progress"
	StatusCompleted  QuestStatus = "completed"
)

// Statuses lists every status in board order.
var Statuses = []QuestStatus{StatusAvailable, StatusActive, StatusInProgress, StatusCompleted}

// QuestPriority represents the priority levels of a quest.
type QuestPriority string

const (
	PriorityLow      QuestPriority = "low"
	PriorityMedium   QuestPriority = "medium"
	PriorityHigh     QuestPriority = "high"
	PriorityCritical QuestPriority = "critical"
)

// QuestType is the folder-level classification of a quest.
type QuestType string

const (
	QuestTypeMain      QuestType = "main"
	QuestTypeTraining  QuestType = "training"
	QuestTypeSide      QuestType = "side"
	QuestTypeGenerated QuestType = "ai-generated"
)

// QuestKind tags which variant of the Quest union is populated.
type QuestKind int

const (
	KindManual QuestKind = iota + 1
	KindGenerated
)

func (k QuestKind) String() string {
	switch k {
	case KindManual:
		return "manual"
	case KindGenerated:
		return "generated"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition is returned when a status move is not permitted.
var ErrInvalidTransition = errors.New("invalid status transition")

// ParseStatus normalizes a raw status value. The boolean is false when the
// value is not a known status.
func ParseStatus(raw string) (QuestStatus, bool) {
	switch raw {
	case "available":
		return StatusAvailable, true
	case "active":
		return StatusActive, true
	case "in-progress", "in_progress", "inprogress":
		return StatusInProgress, true
	case "completed", "complete", "done":
		return StatusCompleted, true
	}
	return "", false
}

// ParsePriority normalizes a raw priority value.
func ParsePriority(raw string) (QuestPriority, bool) {
	switch p := QuestPriority(raw); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return p, true
	}
	return "", false
}

// Rank orders priorities from low (0) to critical (3); unknown values rank -1.
func (p QuestPriority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityCritical:
		return 3
	}
	return -1
}

func (s QuestStatus) rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// CanTransition reports whether a quest may move from one status to another.
// Forward moves may skip columns; the only backward move is reopening a
// completed quest into in-progress.
func CanTransition(from, to QuestStatus) bool {
	fr, tr := from.rank(), to.rank()
	if fr < 0 || tr < 0 {
		return false
	}
	if tr >= fr {
		return true
	}
	return from == StatusCompleted && to == StatusInProgress
}

// TimelineEvent is an append-only record of something that happened to a quest.
type TimelineEvent struct {
	ID   string      `json:"id"`
	Type string      `json:"type"`
	At   time.Time   `json:"at"`
	From QuestStatus `json:"from,omitempty"`
	To   QuestStatus `json:"to,omitempty"`
	Note string      `json:"note,omitempty"`
}

// Timeline event types.
const (
	EventCreated      = "created"
	EventStatusChange = "status_change"
	EventCompleted    = "completed"
	EventReopened     = "reopened"
)

// Milestone is a named checkpoint inside a quest.
type Milestone struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// ManualDetails holds fields only user-authored markdown quests carry.
type ManualDetails struct {
	LinkedTaskFile  string   `json:"linkedTaskFile" validate:"omitempty"`
	AdditionalFiles []string `json:"additionalFiles,omitempty"`
	XPPerTask       int      `json:"xpPerTask" validate:"min=0"`
	CompletionBonus int      `json:"completionBonus" validate:"min=0"`
	VisibleTasks    int      `json:"visibleTasks" validate:"min=0"`
	SortOrder       int      `json:"sortOrder"`
	Milestones      []string `json:"milestones,omitempty"`
	Body            string   `json:"-"`
}

// GearReward describes an item granted when a generated quest is completed.
type GearReward struct {
	ID      string   `json:"id" validate:"required"`
	Name    string   `json:"name" validate:"required"`
	Slot    GearSlot `json:"slot" validate:"required"`
	Tier    int      `json:"tier,omitempty"`
	Stats   Stats    `json:"stats,omitempty"`
	Attack  int      `json:"attack,omitempty"`
	Defense int      `json:"defense,omitempty"`
	Block   int      `json:"block,omitempty"`
}

// Item converts the reward into an inventory item sourced from the quest.
func (g GearReward) Item(questID string) GearItem {
	return GearItem{
		ID:      g.ID,
		Name:    g.Name,
		Slot:    g.Slot,
		Tier:    g.Tier,
		Stats:   g.Stats.Clone(),
		Attack:  g.Attack,
		Defense: g.Defense,
		Block:   g.Block,
		Source:  questID,
	}
}

// GeneratedDetails holds fields only externally generated JSON quests carry.
type GeneratedDetails struct {
	Description   string       `json:"description"`
	Goal          string       `json:"goal"`
	Difficulty    string       `json:"difficulty"`
	XPTotal       int          `json:"xpTotal" validate:"min=0"`
	EstimatedDays int          `json:"estimatedDays,omitempty"`
	Milestones    []Milestone  `json:"milestones,omitempty"`
	HiddenRewards []string     `json:"hiddenRewards,omitempty"`
	GearRewards   []GearReward `json:"gearRewards,omitempty" validate:"dive"`
}

// Quest is the central entity. Exactly one of Manual or Generated is set,
// selected by Kind.
type Quest struct {
	SchemaVersion int             `json:"schemaVersion"`
	QuestID       string          `json:"questId" validate:"required,kebab"`
	QuestName     string          `json:"questName" validate:"required"`
	QuestType     QuestType       `json:"questType" validate:"required,oneof=main training side ai-generated"`
	Category      string          `json:"category" validate:"required"`
	Status        QuestStatus     `json:"status" validate:"required,oneof=available active in-progress completed"`
	Priority      QuestPriority   `json:"priority" validate:"required,oneof=low medium high critical"`
	Tags          []string        `json:"tags,omitempty"`
	CreatedDate   time.Time       `json:"createdDate"`
	CompletedDate *time.Time      `json:"completedDate,omitempty"`
	Timeline      []TimelineEvent `json:"timeline,omitempty"`

	Kind      QuestKind         `json:"-"`
	Manual    *ManualDetails    `json:"-"`
	Generated *GeneratedDetails `json:"-"`

	// Path is the file the quest was loaded from; empty for unsaved quests.
	Path string `json:"-"`
}

// CurrentSchemaVersion is written to every encoded quest.
const CurrentSchemaVersion = 1

// IsManual reports whether the quest is a user-authored markdown quest.
func (q *Quest) IsManual() bool { return q.Kind == KindManual && q.Manual != nil }

// IsGenerated reports whether the quest is an externally generated quest.
func (q *Quest) IsGenerated() bool { return q.Kind == KindGenerated && q.Generated != nil }

// CheckVariant verifies the union invariant: exactly one variant is populated
// and it matches Kind.
func (q *Quest) CheckVariant() error {
	switch q.Kind {
	case KindManual:
		if q.Manual == nil || q.Generated != nil {
			return fmt.Errorf("quest %s: manual kind requires only manual details", q.QuestID)
		}
		if q.QuestType == QuestTypeGenerated {
			return fmt.Errorf("quest %s: manual quest cannot use type %s", q.QuestID, q.QuestType)
		}
	case KindGenerated:
		if q.Generated == nil || q.Manual != nil {
			return fmt.Errorf("quest %s: generated kind requires only generated details", q.QuestID)
		}
		if q.QuestType != QuestTypeGenerated {
			return fmt.Errorf("quest %s: generated quest must use type %s", q.QuestID, QuestTypeGenerated)
		}
	default:
		return fmt.Errorf("quest %s: unknown kind %d", q.QuestID, q.Kind)
	}
	return nil
}

// Clone returns a deep copy so cached quests are never mutated in place.
func (q *Quest) Clone() *Quest {
	if q == nil {
		return nil
	}
	c := *q
	c.Tags = append([]string(nil), q.Tags...)
	c.Timeline = append([]TimelineEvent(nil), q.Timeline...)
	if q.CompletedDate != nil {
		t := *q.CompletedDate
		c.CompletedDate = &t
	}
	if q.Manual != nil {
		m := *q.Manual
		m.AdditionalFiles = append([]string(nil), q.Manual.AdditionalFiles...)
		m.Milestones = append([]string(nil), q.Manual.Milestones...)
		c.Manual = &m
	}
	if q.Generated != nil {
		g := *q.Generated
		g.Milestones = append([]Milestone(nil), q.Generated.Milestones...)
		g.HiddenRewards = append([]string(nil), q.Generated.HiddenRewards...)
		g.GearRewards = append([]GearReward(nil), q.Generated.GearRewards...)
		c.Generated = &g
	}
	return &c
}

// TaskFiles returns every task file linked to a manual quest.
func (q *Quest) TaskFiles() []string {
	if !q.IsManual() {
		return nil
	}
	var files []string
	if q.Manual.LinkedTaskFile != "" {
		files = append(files, q.Manual.LinkedTaskFile)
	}
	for _, f := range q.Manual.AdditionalFiles {
		if f != "" && f != q.Manual.LinkedTaskFile {
			files = append(files, f)
		}
	}
	return files
}

// WasCompletedBefore reports whether the timeline already records a completion.
func (q *Quest) WasCompletedBefore() bool {
	for _, ev := range q.Timeline {
		if ev.Type == EventCompleted {
			return true
		}
	}
	return false
}

// SortOrder returns the user-defined rank for manual quests, 0 otherwise.
func (q *Quest) SortOrder() int {
	if q.IsManual() {
		return q.Manual.SortOrder
	}
	return 0
}
