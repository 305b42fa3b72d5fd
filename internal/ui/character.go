package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/josephgoksu/QuestWing/internal/app"
	"github.com/josephgoksu/QuestWing/internal/ledger"
	"github.com/josephgoksu/QuestWing/internal/progression"
	"github.com/josephgoksu/QuestWing/internal/utils"
	"github.com/josephgoksu/QuestWing/models"
)

// RenderCharacter draws the character sheet.
func RenderCharacter(v *app.CharacterView, now time.Time) string {
	ch, sheet := v.Character, v.Sheet
	var sb strings.Builder

	class := utils.ToTitle(ch.Class)
	if ch.SecondaryClass != "" {
		class += " / " + utils.ToTitle(ch.SecondaryClass)
	}
	sb.WriteString(StyleHeader.Render(fmt.Sprintf("%s · %s", ch.Name, class)) + "\n")

	tier := TierStyle(sheet.Tier).Render(progression.TierName(sheet.Tier))
	fmt.Fprintf(&sb, " Level %d %s  %s track\n", sheet.Level, tier, ch.Mode)
	p := sheet.Progress
	if p.MaxReached {
		fmt.Fprintf(&sb, " %s %d XP (max level)\n", ProgressBar(100, 20), p.XP)
	} else {
		fmt.Fprintf(&sb, " %s %d/%d XP to next level\n", ProgressBar(p.Percent, 20), p.LevelXP, p.NeededXP)
	}
	fmt.Fprintf(&sb, " Streak: %d days (best %d)   Quests completed: %d\n",
		ch.Streak.Current, ch.Streak.Highest, ch.QuestsDone)

	sb.WriteString("\n" + StyleSectionTitle.Render("Stats") + "\n")
	stats := &Table{
		Headers: []string{"Stat", "Base", "Quest", "Buff", "Gear", "Total"},
		Right:   map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
	}
	for _, s := range models.AllStats {
		line := sheet.Stats[s]
		stats.Rows = append(stats.Rows, []string{
			utils.ToTitle(string(s)),
			fmt.Sprint(line.Base), fmt.Sprint(line.QuestBonus), fmt.Sprint(line.PowerUp),
			fmt.Sprint(line.Gear), fmt.Sprint(line.Total()),
		})
	}
	sb.WriteString(stats.Render())

	c := sheet.Combat
	sb.WriteString("\n" + StyleSectionTitle.Render("Combat") + "\n")
	fmt.Fprintf(&sb, " HP %d  Mana %d  Attack %d  Defense %d\n", c.HP, c.Mana, c.Attack, c.Defense)
	fmt.Fprintf(&sb, " Crit %.1f%%  Dodge %.1f%%  Block %.1f%%\n", c.Crit, c.Dodge, c.Block)

	if len(ch.PowerUps) > 0 {
		sb.WriteString("\n" + StyleSectionTitle.Render("Power-ups") + "\n")
		for _, pu := range ch.PowerUps {
			sb.WriteString(" " + renderPowerUp(pu, now) + "\n")
		}
	}

	unlocked := unlockedAchievements(ch.Achievements)
	if len(unlocked) > 0 {
		sb.WriteString("\n" + StyleSectionTitle.Render("Achievements") + "\n")
		for _, a := range unlocked {
			fmt.Fprintf(&sb, " %s %s %s\n", StyleGold.Render("★"), a.Name, StyleSubtle.Render(a.UnlockedAt.Format("2006-01-02")))
		}
	}
	return sb.String()
}

func renderPowerUp(pu models.PowerUp, now time.Time) string {
	name := StylePrimary.Render(pu.Name)
	if pu.Stacks > 1 {
		name += fmt.Sprintf(" x%d", pu.Stacks)
	}
	var effect string
	switch pu.Effect {
	case models.EffectXPMultiplier:
		effect = fmt.Sprintf("%.0f%% XP", (pu.Value-1)*100)
	case models.EffectStatBoost:
		effect = fmt.Sprintf("+%.0f %s", pu.Value, pu.Stat)
	}
	left := "passive"
	if pu.ExpiresAt != nil {
		left = pu.ExpiresAt.Sub(now).Round(time.Minute).String() + " left"
	}
	return fmt.Sprintf("%s  %s  %s", name, effect, StyleSubtle.Render(left))
}

func unlockedAchievements(all []models.Achievement) []models.Achievement {
	var out []models.Achievement
	for _, a := range all {
		if a.Unlocked() {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UnlockedAt.Before(*out[j].UnlockedAt) })
	return out
}

// RenderClasses lists the class catalog, marking the current class.
func RenderClasses(current string) string {
	table := &Table{Headers: []string{"", "Class", "Bonus", "Categories", "Notes"}, MaxWidth: 48}
	for _, c := range progression.Classes() {
		mark := ""
		if c.ID == current {
			mark = "•"
		}
		var notes []string
		if c.Shield {
			notes = append(notes, "weekly streak shield")
		}
		if c.Situational != progression.SituationalNone {
			notes = append(notes, utils.ToTitle(string(c.Situational)))
		}
		table.Rows = append(table.Rows, []string{
			mark, c.Name, fmt.Sprintf("+%.0f%%", c.BonusPercent*100),
			strings.Join(c.BonusCategories, ", "), strings.Join(notes, "; "),
		})
	}
	return table.Render()
}

// RenderResult prints the outcome of a quest action.
func RenderResult(res *app.ActionResult) string {
	var sb strings.Builder
	if res.Success {
		sb.WriteString(StyleSuccess.Render("✓ ") + res.Message + "\n")
	} else {
		sb.WriteString(StyleError.Render("✗ ") + res.Message + "\n")
	}
	for _, n := range res.Notices {
		sb.WriteString("  " + StylePrimary.Render("•") + " " + n + "\n")
	}
	if res.Hint != "" {
		sb.WriteString(StyleSubtle.Render("  "+res.Hint) + "\n")
	}
	if lu := res.LevelUp; lu != nil && lu.TierCrossed {
		body := fmt.Sprintf("Level %d reached. Welcome to the %s tier.", lu.NewLevel, progression.TierName(lu.NewTier))
		sb.WriteString(RenderSuccessPanel("New tier!", body) + "\n")
	}
	if len(res.Achievements) > 0 {
		names := make([]string, 0, len(res.Achievements))
		for _, a := range res.Achievements {
			names = append(names, a.Name)
		}
		sb.WriteString(NewPanel("Achievements", strings.Join(names, "\n")).WithBorderColor(ColorWarning).Render() + "\n")
	}
	return sb.String()
}

// RenderHistory shows recent ledger entries and per-category totals.
func RenderHistory(entries []ledger.Entry, counts []ledger.CategoryCount, loc *time.Location) string {
	if len(entries) == 0 {
		return StyleSubtle.Render("No completed quests yet.") + "\n"
	}
	var sb strings.Builder
	recent := &Table{Headers: []string{"When", "Quest", "Category", "XP"}, MaxWidth: 40, Right: map[int]bool{3: true}}
	for _, e := range entries {
		recent.Rows = append(recent.Rows, []string{
			e.CompletedAt.In(loc).Format("2006-01-02 15:04"), e.QuestName, e.Category, fmt.Sprint(e.XP),
		})
	}
	sb.WriteString(recent.Render())

	if len(counts) > 0 {
		sb.WriteString("\n" + StyleSectionTitle.Render("By category") + "\n")
		byCat := &Table{Headers: []string{"Category", "Quests", "XP"}, Right: map[int]bool{1: true, 2: true}}
		for _, c := range counts {
			name := c.Category
			if name == "" {
				name = "(none)"
			}
			byCat.Rows = append(byCat.Rows, []string{name, fmt.Sprint(c.Count), fmt.Sprint(c.XP)})
		}
		sb.WriteString(byCat.Render())
	}
	return sb.String()
}
