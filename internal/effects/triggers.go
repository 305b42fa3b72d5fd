package effects

import (
	"math/rand"
	"time"

	"github.com/josephgoksu/QuestWing/models"
)

// Event is a game event that rules can react to.
type Event string

const (
	EventQuestCompletion Event = "quest_completion"
	EventStreakUpdate    Event = "streak_update"
)

// Condition narrows when a rule fires.
type Condition string

const (
	// CondAny matches every event of the rule's kind.
	CondAny             Condition = "any"
	// CondSkippedProgress matches a quest completed straight from available.
	CondSkippedProgress Condition = "skipped_in_progress"
	// CondPriorityAtLeast matches quests at or above Rule.Priority.
	CondPriorityAtLeast Condition = "priority_at_least"
	// CondStreakAtLeast matches once the current streak reaches Rule.Threshold.
	CondStreakAtLeast   Condition = "streak_at_least"
	CondNewRecord       Condition = "new_record"
	CondShieldUsed      Condition = "shield_used"
)

// Rule maps an event to a power-up grant. Exactly one of PowerUpID or Pool
// names the reward. Chance below one makes the rule probabilistic.
type Rule struct {
	ID        string
	Event     Event
	Condition Condition
	Threshold int
	Priority  models.QuestPriority
	PowerUpID string
	Pool      string
	Chance    float64
}

// EventContext carries the facts a rule is evaluated against.
type EventContext struct {
	Event  Event
	From   models.QuestStatus
	To     models.QuestStatus
	Quest  *models.Quest
	Streak *StreakResult
}

// DefaultRules returns the built-in trigger set.
func DefaultRules() []Rule {
	return []Rule{
		{ID: "straight-to-done", Event: EventQuestCompletion, Condition: CondSkippedProgress, PowerUpID: "momentum"},
		{ID: "critical-finish", Event: EventQuestCompletion, Condition: CondPriorityAtLeast, Priority: models.PriorityCritical, Pool: "rare"},
		{ID: "lucky-find", Event: EventQuestCompletion, Condition: CondAny, Pool: "common", Chance: 0.15},
		{ID: "week-strong", Event: EventStreakUpdate, Condition: CondStreakAtLeast, Threshold: 7, PowerUpID: "iron-will"},
		{ID: "record-breaker", Event: EventStreakUpdate, Condition: CondNewRecord, Pool: "rare"},
		{ID: "shield-saved", Event: EventStreakUpdate, Condition: CondShieldUsed, PowerUpID: "second-wind"},
	}
}

// Matches reports whether the rule's event and condition hold for ctx. Chance
// is not consulted.
func (r Rule) Matches(ctx EventContext) bool {
	if r.Event != ctx.Event {
		return false
	}
	switch r.Condition {
	case CondAny, "":
		return true
	case CondSkippedProgress:
		return ctx.From == models.StatusAvailable && ctx.To == models.StatusCompleted
	case CondPriorityAtLeast:
		return ctx.Quest != nil && ctx.Quest.Priority.Rank() >= r.Priority.Rank()
	case CondStreakAtLeast:
		return ctx.Streak != nil && ctx.Streak.Continued && ctx.Streak.Current >= r.Threshold
	case CondNewRecord:
		return ctx.Streak != nil && ctx.Streak.NewRecord
	case CondShieldUsed:
		return ctx.Streak != nil && ctx.Streak.ShieldUsed
	}
	return false
}

// Reward is a resolved grant from a fired rule.
type Reward struct {
	RuleID string
	Result GrantResult
}

// Engine evaluates rules against a catalog.
type Engine struct {
	Catalog *Catalog
	Rules   []Rule
	Rand    *rand.Rand
}

// NewEngine returns an engine with the built-in catalog and rules.
func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{Catalog: DefaultCatalog(), Rules: DefaultRules(), Rand: rng}
}

// Fire evaluates every rule for ctx and grants the resulting power-ups to
// ch. Rules whose power-up cannot be resolved are skipped.
func (e *Engine) Fire(ch *models.Character, ctx EventContext, now time.Time) []Reward {
	var out []Reward
	for _, r := range e.Rules {
		if !r.Matches(ctx) {
			continue
		}
		if r.Chance > 0 && r.Chance < 1 && e.Rand.Float64() >= r.Chance {
			continue
		}
		def, ok := e.resolve(r)
		if !ok {
			continue
		}
		out = append(out, Reward{RuleID: r.ID, Result: Grant(ch, def, now)})
	}
	return out
}

func (e *Engine) resolve(r Rule) (Definition, bool) {
	if r.PowerUpID != "" {
		return e.Catalog.Definition(r.PowerUpID)
	}
	if r.Pool != "" {
		return e.Catalog.Draw(r.Pool, e.Rand)
	}
	return Definition{}, false
}
