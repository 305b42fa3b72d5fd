// Package progression holds the pure game math: level tables, XP bonuses,
// stat totals and combat stats. Nothing here is stored; every value is
// derived from the character and recomputed on demand.
package progression

import (
	"sort"

	"github.com/josephgoksu/QuestWing/models"
)

const (
	// MainMaxLevel is the cap of the main track.
	MainMaxLevel = 40
	// TrainingMaxLevel is the cap of the training track.
	TrainingMaxLevel = 10
	// LevelsPerTier groups levels into tiers.
	LevelsPerTier = 10
	// TrainingLevelCost is the flat XP cost of every training level.
	TrainingLevelCost = 75
)

// tierCosts is the XP needed per level inside each main-track tier.
var tierCosts = [...]int{100, 250, 500, 1000}

// TierNames label the main-track tiers.
var TierNames = [...]string{"Novice", "Adept", "Veteran", "Legend"}

// Table is an ascending list of XP thresholds. Index i is the XP needed to
// reach level i+1; index 0 is always 0.
type Table []int

var (
	mainTable     = buildMainTable()
	trainingTable = buildTrainingTable()
)

func buildMainTable() Table {
	t := make(Table, MainMaxLevel)
	for lvl := 2; lvl <= MainMaxLevel; lvl++ {
		t[lvl-1] = t[lvl-2] + tierCosts[TierFor(lvl-1)-1]
	}
	return t
}

func buildTrainingTable() Table {
	t := make(Table, TrainingMaxLevel)
	for lvl := 2; lvl <= TrainingMaxLevel; lvl++ {
		t[lvl-1] = t[lvl-2] + TrainingLevelCost
	}
	return t
}

// MainTable returns a copy of the main-track thresholds.
func MainTable() Table { return append(Table(nil), mainTable...) }

// TrainingTable returns a copy of the training-track thresholds.
func TrainingTable() Table { return append(Table(nil), trainingTable...) }

// TableFor returns the threshold table of a progression mode.
func TableFor(mode models.ProgressionMode) Table {
	if mode == models.ModeTraining {
		return trainingTable
	}
	return mainTable
}

// MaxLevel is the highest level in the table.
func (t Table) MaxLevel() int { return len(t) }

// Threshold returns the XP needed to reach level, clamped to the table.
func (t Table) Threshold(level int) int {
	if level <= 1 {
		return 0
	}
	if level > len(t) {
		level = len(t)
	}
	return t[level-1]
}

// LevelFor returns the largest level whose threshold is <= xp. It saturates
// at the max level and never extrapolates.
func (t Table) LevelFor(xp int) int {
	if xp <= 0 || len(t) == 0 {
		return 1
	}
	// first index whose threshold exceeds xp
	i := sort.Search(len(t), func(i int) bool { return t[i] > xp })
	return i
}

// LevelFor returns the main-track level for xp.
func LevelFor(xp int) int { return mainTable.LevelFor(xp) }

// TrainingLevelFor returns the training-track level for xp.
func TrainingLevelFor(xp int) int { return trainingTable.LevelFor(xp) }

// TierFor returns the 1-based tier of a level.
func TierFor(level int) int {
	if level < 1 {
		level = 1
	}
	tier := (level-1)/LevelsPerTier + 1
	if tier > len(tierCosts) {
		tier = len(tierCosts)
	}
	return tier
}

// TierName returns the label of a tier.
func TierName(tier int) string {
	if tier < 1 || tier > len(TierNames) {
		return ""
	}
	return TierNames[tier-1]
}

// CharacterLevel derives the level of the character's active track.
func CharacterLevel(c *models.Character) int {
	return TableFor(c.Mode).LevelFor(c.ActiveXP())
}

// MainLevel derives the main-track level regardless of mode. Class unlocks
// and stat caps key off it.
func MainLevel(c *models.Character) int {
	return mainTable.LevelFor(c.TotalXP)
}

// LevelUp describes the result of comparing two XP values.
type LevelUp struct {
	OldLevel    int
	NewLevel    int
	OldTier     int
	NewTier     int
	Leveled     bool
	TierCrossed bool
}

// CheckLevelUp compares the levels of oldXP and newXP on a table.
func CheckLevelUp(t Table, oldXP, newXP int) LevelUp {
	oldLevel, newLevel := t.LevelFor(oldXP), t.LevelFor(newXP)
	lu := LevelUp{
		OldLevel: oldLevel,
		NewLevel: newLevel,
		OldTier:  TierFor(oldLevel),
		NewTier:  TierFor(newLevel),
	}
	lu.Leveled = newLevel > oldLevel
	lu.TierCrossed = lu.NewTier > lu.OldTier
	return lu
}

// Progress is the XP bar of one track.
type Progress struct {
	Level      int
	Tier       int
	XP         int
	LevelXP    int // XP earned inside the current level
	NeededXP   int // XP span of the current level; 0 at max level
	Percent    int
	MaxReached bool
}

// ProgressFor computes the XP bar for xp on a table.
func ProgressFor(t Table, xp int) Progress {
	if xp < 0 {
		xp = 0
	}
	level := t.LevelFor(xp)
	p := Progress{Level: level, Tier: TierFor(level), XP: xp}
	if level >= t.MaxLevel() {
		p.MaxReached = true
		p.Percent = 100
		return p
	}
	floor, next := t.Threshold(level), t.Threshold(level+1)
	p.LevelXP = xp - floor
	p.NeededXP = next - floor
	if p.NeededXP > 0 {
		p.Percent = p.LevelXP * 100 / p.NeededXP
	}
	return p
}
