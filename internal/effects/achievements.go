package effects

import (
	"strings"
	"time"

	"github.com/josephgoksu/QuestWing/models"
)

// DefaultAchievements returns the built-in achievement list, all locked.
func DefaultAchievements() []models.Achievement {
	return []models.Achievement{
		{ID: "first-steps", Name: "First Steps", Description: "Complete your first quest", Trigger: models.AchievementTrigger{Type: models.TriggerQuestCount, Target: 1}, XPBonus: 25},
		{ID: "questing-habit", Name: "Questing Habit", Description: "Complete 10 quests", Trigger: models.AchievementTrigger{Type: models.TriggerQuestCount, Target: 10}, XPBonus: 100},
		{ID: "centurion", Name: "Centurion", Description: "Complete 100 quests", Trigger: models.AchievementTrigger{Type: models.TriggerQuestCount, Target: 100}, XPBonus: 500},
		{ID: "rising-star", Name: "Rising Star", Description: "Reach level 5", Trigger: models.AchievementTrigger{Type: models.TriggerLevel, Target: 5}, XPBonus: 50},
		{ID: "adept", Name: "Adept", Description: "Reach level 11", Trigger: models.AchievementTrigger{Type: models.TriggerLevel, Target: 11}, XPBonus: 150},
		{ID: "veteran", Name: "Veteran", Description: "Reach level 21", Trigger: models.AchievementTrigger{Type: models.TriggerLevel, Target: 21}, XPBonus: 300},
		{ID: "on-a-roll", Name: "On a Roll", Description: "Keep a 3-day streak", Trigger: models.AchievementTrigger{Type: models.TriggerStreak, Target: 3}, XPBonus: 30},
		{ID: "unstoppable", Name: "Unstoppable", Description: "Keep a 30-day streak", Trigger: models.AchievementTrigger{Type: models.TriggerStreak, Target: 30}, XPBonus: 300},
		{ID: "iron-body", Name: "Iron Body", Description: "Complete 10 fitness quests", Trigger: models.AchievementTrigger{Type: models.TriggerCategoryCount, Target: 10, Category: "fitness"}, XPBonus: 100},
		{ID: "code-wizard", Name: "Code Wizard", Description: "Complete 10 coding quests", Trigger: models.AchievementTrigger{Type: models.TriggerCategoryCount, Target: 10, Category: "coding"}, XPBonus: 100},
	}
}

// EnsureAchievements adds any default achievement the character is missing.
// Existing entries, unlocked or not, are left alone.
func EnsureAchievements(ch *models.Character) {
	have := make(map[string]bool, len(ch.Achievements))
	for _, a := range ch.Achievements {
		have[a.ID] = true
	}
	for _, a := range DefaultAchievements() {
		if !have[a.ID] {
			ch.Achievements = append(ch.Achievements, a)
		}
	}
}

// CategoryKey normalizes a category for the per-category completion counter.
func CategoryKey(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// RecordCompletion bumps the completion counters used by quest_count and
// category_count achievements.
func RecordCompletion(ch *models.Character, category string) {
	ch.Normalize()
	ch.QuestsDone++
	if key := CategoryKey(category); key != "" {
		ch.CategoryCounts[key]++
	}
}

func achievementProgress(ch *models.Character, t models.AchievementTrigger, level int) int {
	switch t.Type {
	case models.TriggerLevel:
		return level
	case models.TriggerStreak:
		if ch.Streak.Highest > ch.Streak.Current {
			return ch.Streak.Highest
		}
		return ch.Streak.Current
	case models.TriggerQuestCount:
		return ch.QuestsDone
	case models.TriggerCategoryCount:
		return ch.CategoryCounts[CategoryKey(t.Category)]
	}
	return 0
}

// EvaluateAchievements refreshes progress on every locked achievement and
// unlocks those whose target is met, crediting each XP bonus exactly once.
// level is the character's current level. It returns the newly unlocked
// achievements.
func EvaluateAchievements(ch *models.Character, level int, now time.Time) []models.Achievement {
	var unlocked []models.Achievement
	for i := range ch.Achievements {
		a := &ch.Achievements[i]
		if a.Unlocked() {
			continue
		}
		progress := achievementProgress(ch, a.Trigger, level)
		if progress > a.Trigger.Target {
			progress = a.Trigger.Target
		}
		a.Progress = progress
		if a.Trigger.Target > 0 && progress >= a.Trigger.Target {
			at := now
			a.UnlockedAt = &at
			ch.AddXP(a.XPBonus)
			unlocked = append(unlocked, *a)
		}
	}
	return unlocked
}
