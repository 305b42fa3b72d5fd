package progression

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/josephgoksu/QuestWing/models"
)

// Class bonus constants.
const (
	DefaultCategoryBonus   = 0.15
	SecondaryUnlockLevel   = 25
	SecondaryBonusFactor   = 0.5
	ScholarMultiDayBonus   = 0.10
	RogueFastBonus         = 0.15
	BardPerStreakDay       = 0.02
	BardMaxBonus           = 0.20
	ClericPerWellnessDay   = 0.05
	ClericMaxBonus         = 0.25
	ClassChangeCostPerTier = 500
)

// Situational names a class-specific XP modifier.
type Situational string

const (
	SituationalNone     Situational = ""
	SituationalMultiDay Situational = "multi_day"
	SituationalFast     Situational = "faster_than_estimate"
	SituationalStreak   Situational = "streak_days"
	SituationalWellness Situational = "wellness_streak"
)

// Class is one entry of the fixed class catalog.
type Class struct {
	ID              string
	Name            string
	Description     string
	BonusCategories []string
	BonusPercent    float64
	PrimaryStat     models.Stat
	Shield          bool
	Situational     Situational
}

var (
	// ErrUnknownClass is returned for ids outside the catalog.
	ErrUnknownClass = errors.New("unknown class")
	// ErrSameClass is returned when changing to the current class.
	ErrSameClass = errors.New("already that class")
	// ErrInsufficientXP is returned when a class change costs more than the track holds.
	ErrInsufficientXP = errors.New("not enough XP")
	// ErrSecondaryLocked is returned before the secondary class unlocks.
	ErrSecondaryLocked = errors.New("secondary class locked")
)

var classes = map[string]Class{
	"warrior": {
		ID:              "warrior",
		Name:            "Warrior",
		Description:     "Thrives on physical challenges.",
		BonusCategories: []string{"fitness", "exercise", "workout", "sport", "training"},
		BonusPercent:    DefaultCategoryBonus,
		PrimaryStat:     models.StatStrength,
	},
	"paladin": {
		ID:              "paladin",
		Name:            "Paladin",
		Description:     "Steadfast in duty; a weekly shield guards the streak.",
		BonusCategories: []string{"work", "career", "duty", "job", "chores"},
		BonusPercent:    DefaultCategoryBonus,
		PrimaryStat:     models.StatConstitution,
		Shield:          true,
	},
	"technomancer": {
		ID:              "technomancer",
		Name:            "Technomancer",
		Description:     "Bends machines to their will.",
		BonusCategories: []string{"coding", "programming", "tech", "development", "software"},
		BonusPercent:    DefaultCategoryBonus,
		PrimaryStat:     models.StatIntelligence,
	},
	"scholar": {
		ID:              "scholar",
		Name:            "Scholar",
		Description:     "Rewarded for long study projects.",
		BonusCategories: []string{"learning", "study", "research", "reading", "education"},
		BonusPercent:    DefaultCategoryBonus,
		PrimaryStat:     models.StatIntelligence,
		Situational:     SituationalMultiDay,
	},
	"rogue": {
		ID:              "rogue",
		Name:            "Rogue",
		Description:     "Quick hands finish ahead of schedule.",
		BonusCategories: []string{"side", "hustle", "finance", "money", "business"},
		BonusPercent:    DefaultCategoryBonus,
		PrimaryStat:     models.StatDexterity,
		Situational:     SituationalFast,
	},
	"cleric": {
		ID:              "cleric",
		Name:            "Cleric",
		Description:     "Grows stronger with every day of self-care.",
		BonusCategories: []string{"wellness", "health", "meditation", "self-care", "mindfulness"},
		BonusPercent:    DefaultCategoryBonus,
		PrimaryStat:     models.StatWisdom,
		Situational:     SituationalWellness,
	},
	"bard": {
		ID:              "bard",
		Name:            "Bard",
		Description:     "Inspired by an unbroken run of days.",
		BonusCategories: []string{"creative", "art", "music", "writing", "social"},
		BonusPercent:    DefaultCategoryBonus,
		PrimaryStat:     models.StatCharisma,
		Situational:     SituationalStreak,
	},
}

// LookupClass returns the catalog entry for id.
func LookupClass(id string) (Class, bool) {
	c, ok := classes[strings.ToLower(strings.TrimSpace(id))]
	return c, ok
}

// Classes returns the catalog sorted by id.
func Classes() []Class {
	out := make([]Class, 0, len(classes))
	for _, c := range classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MatchesCategory reports whether a quest category fuzzy-matches any of the
// class's bonus keywords: case-insensitive containment either way.
func (c Class) MatchesCategory(category string) bool {
	cat := strings.ToLower(strings.TrimSpace(category))
	if cat == "" {
		return false
	}
	for _, kw := range c.BonusCategories {
		if strings.Contains(cat, kw) || strings.Contains(kw, cat) {
			return true
		}
	}
	return false
}

// HasShield reports whether the character's primary class carries the
// weekly streak shield.
func HasShield(ch *models.Character) bool {
	c, ok := LookupClass(ch.Class)
	return ok && c.Shield
}

// SecondaryUnlocked reports whether the character may hold a secondary class.
func SecondaryUnlocked(ch *models.Character) bool {
	return MainLevel(ch) >= SecondaryUnlockLevel
}

// ClassChangeCost is the XP spent to switch class at the given level.
func ClassChangeCost(level int) int {
	return ClassChangeCostPerTier * TierFor(level)
}

// ClassChange is the result of a successful class switch.
type ClassChange struct {
	From    string
	To      string
	Cost    int
	LevelUp LevelUp
}

// ChangeClass switches the primary class, spending XP from the active track.
// The level is re-derived from the remaining XP; it is never assigned.
func ChangeClass(ch *models.Character, to string) (*ClassChange, error) {
	target, ok := LookupClass(to)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, to)
	}
	if target.ID == ch.Class {
		return nil, fmt.Errorf("%w: %s", ErrSameClass, to)
	}
	table := TableFor(ch.Mode)
	before := ch.ActiveXP()
	cost := ClassChangeCost(table.LevelFor(before))
	if !ch.SpendXP(cost) {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientXP, cost, before)
	}
	change := &ClassChange{From: ch.Class, To: target.ID, Cost: cost}
	ch.Class = target.ID
	if ch.SecondaryClass == target.ID {
		ch.SecondaryClass = ""
	}
	change.LevelUp = CheckLevelUp(table, before, ch.ActiveXP())
	return change, nil
}

// SetSecondaryClass assigns the secondary class once it has unlocked. An
// empty id clears it.
func SetSecondaryClass(ch *models.Character, id string) error {
	if id == "" {
		ch.SecondaryClass = ""
		return nil
	}
	c, ok := LookupClass(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownClass, id)
	}
	if !SecondaryUnlocked(ch) {
		return fmt.Errorf("%w: requires level %d", ErrSecondaryLocked, SecondaryUnlockLevel)
	}
	if c.ID == ch.Class {
		return fmt.Errorf("%w: %s", ErrSameClass, id)
	}
	ch.SecondaryClass = c.ID
	return nil
}
