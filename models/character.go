package models

import "time"

// Stat is one of the six character stat axes.
type Stat string

const (
	StatStrength     Stat = "strength"
	StatIntelligence Stat = "intelligence"
	StatWisdom       Stat = "wisdom"
	StatCharisma     Stat = "charisma"
	StatConstitution Stat = "constitution"
	StatDexterity    Stat = "dexterity"
)

// AllStats lists the stat axes in display order.
var AllStats = []Stat{StatStrength, StatIntelligence, StatWisdom, StatCharisma, StatConstitution, StatDexterity}

// Stats maps each stat axis to a value.
type Stats map[Stat]int

// Clone copies the map.
func (s Stats) Clone() Stats {
	out := make(Stats, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// GearSlot is an equipment slot on the paperdoll.
type GearSlot string

const (
	SlotHead       GearSlot = "head"
	SlotChest      GearSlot = "chest"
	SlotLegs       GearSlot = "legs"
	SlotBoots      GearSlot = "boots"
	SlotWeapon     GearSlot = "weapon"
	SlotShield     GearSlot = "shield"
	SlotAccessory1 GearSlot = "accessory1"
	SlotAccessory2 GearSlot = "accessory2"
	SlotAccessory3 GearSlot = "accessory3"
)

// AllSlots lists every equipment slot.
var AllSlots = []GearSlot{SlotHead, SlotChest, SlotLegs, SlotBoots, SlotWeapon, SlotShield, SlotAccessory1, SlotAccessory2, SlotAccessory3}

// GearItem is an equippable item.
type GearItem struct {
	ID      string   `yaml:"id" json:"id"`
	Name    string   `yaml:"name" json:"name"`
	Slot    GearSlot `yaml:"slot" json:"slot"`
	Tier    int      `yaml:"tier,omitempty" json:"tier,omitempty"`
	Stats   Stats    `yaml:"stats,omitempty" json:"stats,omitempty"`
	Attack  int      `yaml:"attack,omitempty" json:"attack,omitempty"`
	Defense int      `yaml:"defense,omitempty" json:"defense,omitempty"`
	Block   int      `yaml:"block,omitempty" json:"block,omitempty"`
	Source  string   `yaml:"source,omitempty" json:"source,omitempty"`
}

// EffectType identifies what a power-up modifies.
type EffectType string

const (
	EffectXPMultiplier EffectType = "xp_multiplier"
	EffectStatBoost    EffectType = "stat_boost"
)

// CollisionPolicy decides what happens when a power-up is granted while the
// same power-up is already active.
type CollisionPolicy string

const (
	CollisionReplace CollisionPolicy = "replace"
	CollisionStack   CollisionPolicy = "stack"
	CollisionReject  CollisionPolicy = "reject"
	CollisionExtend  CollisionPolicy = "extend"
)

// PowerUp is an active buff on the character.
type PowerUp struct {
	InstanceID string     `yaml:"instanceId"`
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	Effect     EffectType `yaml:"effect"`
	Value      float64    `yaml:"value"`
	Stat       Stat       `yaml:"stat,omitempty"`
	Stacks     int        `yaml:"stacks,omitempty"`
	GrantedAt  time.Time  `yaml:"grantedAt"`
	ExpiresAt  *time.Time `yaml:"expiresAt,omitempty"`
}

// Expired reports whether a time-boxed power-up has run out. Passive
// power-ups never expire.
func (p PowerUp) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

// TriggerType is the kind of condition an achievement watches.
type TriggerType string

const (
	TriggerLevel         TriggerType = "level"
	TriggerStreak        TriggerType = "streak"
	TriggerQuestCount    TriggerType = "quest_count"
	TriggerCategoryCount TriggerType = "category_count"
)

// AchievementTrigger is the condition under which an achievement unlocks.
type AchievementTrigger struct {
	Type     TriggerType `yaml:"type"`
	Target   int         `yaml:"target"`
	Category string      `yaml:"category,omitempty"`
}

// Achievement is a trigger plus reward. UnlockedAt is never cleared once set.
type Achievement struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Trigger     AchievementTrigger `yaml:"trigger"`
	XPBonus     int                `yaml:"xpBonus"`
	UnlockedAt  *time.Time         `yaml:"unlockedAt,omitempty"`
	Progress    int                `yaml:"progress"`
}

// Unlocked reports whether the achievement has been earned.
func (a Achievement) Unlocked() bool { return a.UnlockedAt != nil }

// Streak holds daily completion streak counters.
type Streak struct {
	Current            int    `yaml:"current"`
	Highest            int    `yaml:"highest"`
	LastCompletionDate string `yaml:"lastCompletionDate,omitempty"` // YYYY-MM-DD, local calendar day
	ShieldUsedThisWeek bool   `yaml:"shieldUsedThisWeek"`
	ShieldWeek         string `yaml:"shieldWeek,omitempty"` // ISO year-week the shield flag refers to
}

// ProgressionMode selects which XP track is active.
type ProgressionMode string

const (
	ModeMain     ProgressionMode = "main"
	ModeTraining ProgressionMode = "training"
)

// Character is the player's persistent progression state. Level is never
// stored; it is always derived from XP by the progression engine.
type Character struct {
	Name           string                `yaml:"name"`
	Class          string                `yaml:"class"`
	SecondaryClass string                `yaml:"secondaryClass,omitempty"`
	Mode           ProgressionMode       `yaml:"mode"`
	TotalXP        int                   `yaml:"totalXP"`
	TrainingXP     int                   `yaml:"trainingXP"`
	BaseStats      Stats                 `yaml:"baseStats"`
	StatBonuses    Stats                 `yaml:"statBonuses"`
	CategoryXP     Stats                 `yaml:"categoryXP"`
	Equipped       map[GearSlot]GearItem `yaml:"equipped,omitempty"`
	Inventory      []GearItem            `yaml:"inventory,omitempty"`
	PowerUps       []PowerUp             `yaml:"powerUps,omitempty"`
	Achievements   []Achievement         `yaml:"achievements,omitempty"`
	CategoryCounts map[string]int        `yaml:"categoryCounts,omitempty"`
	QuestsDone     int                   `yaml:"questsCompleted"`
	Streak         Streak                `yaml:"streak"`
}

// ActiveXP returns the XP of the track selected by Mode.
func (c *Character) ActiveXP() int {
	if c.Mode == ModeTraining {
		return c.TrainingXP
	}
	return c.TotalXP
}

// AddXP credits XP to the active track. Negative amounts are ignored so the
// track stays monotonically non-decreasing; spending goes through SpendXP.
func (c *Character) AddXP(amount int) {
	if amount <= 0 {
		return
	}
	if c.Mode == ModeTraining {
		c.TrainingXP += amount
		return
	}
	c.TotalXP += amount
}

// SpendXP debits XP from the active track. It reports false when the track
// does not hold enough XP.
func (c *Character) SpendXP(amount int) bool {
	if amount < 0 {
		return false
	}
	if c.Mode == ModeTraining {
		if c.TrainingXP < amount {
			return false
		}
		c.TrainingXP -= amount
		return true
	}
	if c.TotalXP < amount {
		return false
	}
	c.TotalXP -= amount
	return true
}

// NewCharacter returns a level-one character with every map initialized.
func NewCharacter(name, class string) *Character {
	c := &Character{Name: name, Class: class, Mode: ModeMain}
	c.Normalize()
	return c
}

// Normalize fills nil maps and missing base stats so a freshly decoded
// character is safe to mutate.
func (c *Character) Normalize() {
	if c.Mode == "" {
		c.Mode = ModeMain
	}
	if c.BaseStats == nil {
		c.BaseStats = Stats{}
	}
	for _, s := range AllStats {
		if _, ok := c.BaseStats[s]; !ok {
			c.BaseStats[s] = 10
		}
	}
	if c.StatBonuses == nil {
		c.StatBonuses = Stats{}
	}
	if c.CategoryXP == nil {
		c.CategoryXP = Stats{}
	}
	if c.Equipped == nil {
		c.Equipped = map[GearSlot]GearItem{}
	}
	if c.CategoryCounts == nil {
		c.CategoryCounts = map[string]int{}
	}
}
