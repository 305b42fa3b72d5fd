package progression

import (
	"strings"
	"time"

	"github.com/josephgoksu/QuestWing/models"
)

const (
	// StatXPThreshold is the category XP that converts into one stat point.
	StatXPThreshold = 100
	// StatCapPerLevel bounds the quest bonus of any stat to this times level.
	StatCapPerLevel = 2
)

// categoryStats maps category keywords to the stat they train.
var categoryStats = []struct {
	keywords []string
	stat     models.Stat
}{
	{[]string{"fitness", "exercise", "workout", "sport", "strength"}, models.StatStrength},
	{[]string{"coding", "programming", "tech", "learning", "study", "research", "reading"}, models.StatIntelligence},
	{[]string{"wellness", "meditation", "mindfulness", "self-care", "reflection"}, models.StatWisdom},
	{[]string{"social", "family", "friends", "networking", "community", "creative", "music", "art"}, models.StatCharisma},
	{[]string{"health", "sleep", "nutrition", "chores", "home", "work", "career"}, models.StatConstitution},
	{[]string{"hobby", "craft", "side", "finance", "business", "travel"}, models.StatDexterity},
}

// StatForCategory returns the stat a quest category trains. Unmatched
// categories train the class's primary stat.
func StatForCategory(category, class string) models.Stat {
	cat := strings.ToLower(strings.TrimSpace(category))
	if cat != "" {
		for _, entry := range categoryStats {
			for _, kw := range entry.keywords {
				if strings.Contains(cat, kw) {
					return entry.stat
				}
			}
		}
	}
	if c, ok := LookupClass(class); ok {
		return c.PrimaryStat
	}
	return models.StatWisdom
}

// StatCap is the highest quest bonus any stat may hold at level.
func StatCap(level int) int {
	if level < 1 {
		level = 1
	}
	return StatCapPerLevel * level
}

// Accrual reports the effect of feeding category XP into a stat.
type Accrual struct {
	Stat   models.Stat
	Points int
	Banked int
	Capped bool
}

// AccrueStatXP banks xp toward stat and converts whole thresholds into quest
// bonus points, never past the level cap. XP that cannot convert stays
// banked; nothing is discarded.
func AccrueStatXP(ch *models.Character, stat models.Stat, xp, level int) Accrual {
	ch.Normalize()
	if xp < 0 {
		xp = 0
	}
	bank := ch.CategoryXP[stat] + xp
	current := ch.StatBonuses[stat]
	room := StatCap(level) - current
	if room < 0 {
		room = 0
	}
	points := bank / StatXPThreshold
	grant := points
	if grant > room {
		grant = room
	}
	ch.StatBonuses[stat] = current + grant
	ch.CategoryXP[stat] = bank - grant*StatXPThreshold
	return Accrual{
		Stat:   stat,
		Points: grant,
		Banked: ch.CategoryXP[stat],
		Capped: points > grant,
	}
}

// GearAggregate sums every equipped item.
type GearAggregate struct {
	Stats   models.Stats
	Attack  int
	Defense int
	Block   int
}

// AggregateGear totals the equipped items.
func AggregateGear(equipped map[models.GearSlot]models.GearItem) GearAggregate {
	agg := GearAggregate{Stats: models.Stats{}}
	for _, item := range equipped {
		for s, v := range item.Stats {
			agg.Stats[s] += v
		}
		agg.Attack += item.Attack
		agg.Defense += item.Defense
		agg.Block += item.Block
	}
	return agg
}

// PowerUpStatBoost sums active stat_boost power-ups per stat.
func PowerUpStatBoost(powerUps []models.PowerUp, now time.Time) models.Stats {
	out := models.Stats{}
	for _, p := range powerUps {
		if p.Effect != models.EffectStatBoost || p.Expired(now) || p.Stat == "" {
			continue
		}
		out[p.Stat] += int(p.Value) * stacks(p)
	}
	return out
}

// PowerUpXPMultiplier multiplies active xp_multiplier power-ups. Stacks add
// their bonus part: two stacks of 1.25 give 1.5.
func PowerUpXPMultiplier(powerUps []models.PowerUp, now time.Time) float64 {
	m := 1.0
	for _, p := range powerUps {
		if p.Effect != models.EffectXPMultiplier || p.Expired(now) || p.Value <= 0 {
			continue
		}
		m *= 1 + (p.Value-1)*float64(stacks(p))
	}
	return m
}

func stacks(p models.PowerUp) int {
	if p.Stacks < 1 {
		return 1
	}
	return p.Stacks
}

// StatLine is the four-source breakdown of one stat.
type StatLine struct {
	Base       int
	QuestBonus int
	PowerUp    int
	Gear       int
}

// Total sums the four sources.
func (l StatLine) Total() int { return l.Base + l.QuestBonus + l.PowerUp + l.Gear }

// StatSheet is the breakdown of every stat.
type StatSheet map[models.Stat]StatLine

// Totals flattens the sheet.
func (s StatSheet) Totals() models.Stats {
	out := make(models.Stats, len(s))
	for k, v := range s {
		out[k] = v.Total()
	}
	return out
}

// ComputeStats derives the stat sheet from the character at now.
func ComputeStats(ch *models.Character, now time.Time) StatSheet {
	gear := AggregateGear(ch.Equipped)
	boost := PowerUpStatBoost(ch.PowerUps, now)
	sheet := make(StatSheet, len(models.AllStats))
	for _, s := range models.AllStats {
		sheet[s] = StatLine{
			Base:       ch.BaseStats[s],
			QuestBonus: ch.StatBonuses[s],
			PowerUp:    boost[s],
			Gear:       gear.Stats[s],
		}
	}
	return sheet
}
