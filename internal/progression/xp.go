package progression

import (
	"math"
	"time"

	"github.com/josephgoksu/QuestWing/models"
)

// XPInput is everything that can modify a base XP award.
type XPInput struct {
	Base     int
	Category string

	Class     string
	Secondary string // ignored until unlocked

	SecondaryUnlocked  bool
	StreakDays         int
	MultiDay           bool
	FasterThanEstimate bool

	// PowerUpMultiplier is the product of active XP buffs; 0 means none.
	PowerUpMultiplier float64
}

// XPBreakdown lists every multiplier applied, in order.
type XPBreakdown struct {
	Base        int
	Multipliers map[string]float64
	Total       int
}

// CalculateXP applies class, situational and power-up multipliers to the
// base amount and rounds once at the end.
func CalculateXP(in XPInput) XPBreakdown {
	b := XPBreakdown{Base: in.Base, Multipliers: map[string]float64{}}
	if in.Base <= 0 {
		return b
	}
	xp := float64(in.Base)
	apply := func(name string, m float64) {
		if m == 1 || m <= 0 {
			return
		}
		b.Multipliers[name] = m
		xp *= m
	}

	primary, hasPrimary := LookupClass(in.Class)
	if hasPrimary && primary.MatchesCategory(in.Category) {
		apply("class", 1+primary.BonusPercent)
	}
	if in.SecondaryUnlocked && in.Secondary != "" && in.Secondary != in.Class {
		if sec, ok := LookupClass(in.Secondary); ok && sec.MatchesCategory(in.Category) {
			apply("secondary", 1+sec.BonusPercent*SecondaryBonusFactor)
		}
	}
	if hasPrimary {
		apply(string(primary.Situational), 1+situationalBonus(primary, in))
	}
	if in.PowerUpMultiplier > 0 {
		apply("power_up", in.PowerUpMultiplier)
	}

	b.Total = int(math.Round(xp))
	return b
}

func situationalBonus(c Class, in XPInput) float64 {
	switch c.Situational {
	case SituationalMultiDay:
		if in.MultiDay {
			return ScholarMultiDayBonus
		}
	case SituationalFast:
		if in.FasterThanEstimate {
			return RogueFastBonus
		}
	case SituationalStreak:
		return math.Min(float64(in.StreakDays)*BardPerStreakDay, BardMaxBonus)
	case SituationalWellness:
		if c.MatchesCategory(in.Category) {
			return math.Min(float64(in.StreakDays)*ClericPerWellnessDay, ClericMaxBonus)
		}
	}
	return 0
}

// QuestBaseXP is the unmodified reward of a quest: completionBonus plus
// xpPerTask per completed task for manual quests, xpTotal for generated.
func QuestBaseXP(q *models.Quest, completedTasks int) int {
	switch q.Kind {
	case models.KindManual:
		if q.Manual == nil {
			return 0
		}
		return q.Manual.CompletionBonus + q.Manual.XPPerTask*completedTasks
	case models.KindGenerated:
		if q.Generated == nil {
			return 0
		}
		return q.Generated.XPTotal
	}
	return 0
}

// InputForQuest builds the XP input for completing q at now.
func InputForQuest(ch *models.Character, q *models.Quest, base int, now time.Time, powerUp float64) XPInput {
	in := XPInput{
		Base:              base,
		Category:          q.Category,
		Class:             ch.Class,
		Secondary:         ch.SecondaryClass,
		SecondaryUnlocked: SecondaryUnlocked(ch),
		StreakDays:        ch.Streak.Current,
		PowerUpMultiplier: powerUp,
	}
	if !q.CreatedDate.IsZero() {
		days := calendarDays(q.CreatedDate, now)
		in.MultiDay = days >= 1
		if q.IsGenerated() && q.Generated.EstimatedDays > 0 {
			in.FasterThanEstimate = days < q.Generated.EstimatedDays
		}
	}
	return in
}

func calendarDays(from, to time.Time) int {
	loc := to.Location()
	a := from.In(loc)
	fy, fm, fd := a.Date()
	ty, tm, td := to.Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
