package progression

import (
	"math"
	"time"

	"github.com/josephgoksu/QuestWing/models"
)

// Combat caps, in percent.
const (
	MaxCrit  = 50.0
	MaxDodge = 40.0
	MaxBlock = 50.0
)

// CombatStats are derived for display only and never stored.
type CombatStats struct {
	HP      int     `json:"hp"`
	Mana    int     `json:"mana"`
	Attack  int     `json:"attack"`
	Defense int     `json:"defense"`
	Crit    float64 `json:"crit"`
	Dodge   float64 `json:"dodge"`
	Block   float64 `json:"block"`
}

// Combat is a pure function of total stats, level and equipped gear.
func Combat(totals models.Stats, level int, gear GearAggregate) CombatStats {
	str := float64(totals[models.StatStrength])
	dex := float64(totals[models.StatDexterity])
	con := totals[models.StatConstitution]
	return CombatStats{
		HP:      50 + con*5 + level*10,
		Mana:    20 + totals[models.StatIntelligence]*3 + totals[models.StatWisdom]*2 + level*5,
		Attack:  totals[models.StatStrength]*2 + gear.Attack,
		Defense: con + gear.Defense,
		Crit:    math.Min(dex*0.5, MaxCrit),
		Dodge:   math.Min(dex*0.4, MaxDodge),
		Block:   math.Min(float64(gear.Block)+str*0.2, MaxBlock),
	}
}

// Sheet is the full derived view of a character, computed in one place so
// every surface shows the same numbers.
type Sheet struct {
	Level    int
	Tier     int
	Progress Progress
	Stats    StatSheet
	Totals   models.Stats
	Combat   CombatStats
	XPBuff   float64
}

// Derive computes the character sheet at now.
func Derive(ch *models.Character, now time.Time) Sheet {
	ch.Normalize()
	table := TableFor(ch.Mode)
	level := table.LevelFor(ch.ActiveXP())
	stats := ComputeStats(ch, now)
	totals := stats.Totals()
	return Sheet{
		Level:    level,
		Tier:     TierFor(level),
		Progress: ProgressFor(table, ch.ActiveXP()),
		Stats:    stats,
		Totals:   totals,
		Combat:   Combat(totals, level, AggregateGear(ch.Equipped)),
		XPBuff:   PowerUpXPMultiplier(ch.PowerUps, now),
	}
}
