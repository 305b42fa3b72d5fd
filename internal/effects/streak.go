// Package effects holds the side effects that follow a quest or task
// completion: the daily streak, trigger rules, power-up grants and
// achievement unlocks. Callers pass the clock and random source in.
package effects

import (
	"fmt"
	"time"

	"github.com/josephgoksu/QuestWing/models"
)

// DayLayout is the calendar-day key stored on the streak.
const DayLayout = "2006-01-02"

// StreakOutcome names the transition taken by UpdateStreak.
type StreakOutcome string

const (
	StreakStarted   StreakOutcome = "started"
	StreakSameDay   StreakOutcome = "same_day"
	StreakContinued StreakOutcome = "continued"
	StreakShielded  StreakOutcome = "shielded"
	StreakBroken    StreakOutcome = "broken"
)

// StreakResult reports the transition and the counters after it.
type StreakResult struct {
	Outcome    StreakOutcome
	Previous   int
	Current    int
	Highest    int
	Continued  bool
	Broken     bool
	ShieldUsed bool
	NewRecord  bool
}

// Message is the user-facing notice for the outcome.
func (r StreakResult) Message() string {
	switch r.Outcome {
	case StreakStarted:
		return "Streak started: day 1"
	case StreakSameDay:
		return fmt.Sprintf("Already active today: %d-day streak", r.Current)
	case StreakShielded:
		return fmt.Sprintf("Shield used! Streak saved at %d days", r.Current)
	case StreakBroken:
		return fmt.Sprintf("Streak broken after %d days. Starting again at 1", r.Previous)
	}
	if r.NewRecord {
		return fmt.Sprintf("New record: %d-day streak!", r.Current)
	}
	return fmt.Sprintf("Streak continued: %d days", r.Current)
}

// DayKey formats t as a local calendar day.
func DayKey(t time.Time) string { return t.Format(DayLayout) }

// WeekKey formats t as its ISO year and week.
func WeekKey(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

// dayGap counts calendar days between the stored day key and now, both read
// in now's location.
func dayGap(last string, now time.Time) (int, bool) {
	d, err := time.ParseInLocation(DayLayout, last, now.Location())
	if err != nil {
		return 0, false
	}
	ly, lm, ld := d.Date()
	ny, nm, nd := now.Date()
	a := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	b := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24), true
}

// UpdateStreak applies one qualifying completion at now. now must carry the
// user's local location; days are compared as local calendar days. The
// shield covers exactly one missed day, once per ISO week, when
// shieldEligible is set.
func UpdateStreak(s *models.Streak, now time.Time, shieldEligible bool) StreakResult {
	week := WeekKey(now)
	if s.ShieldWeek != week {
		s.ShieldWeek = week
		s.ShieldUsedThisWeek = false
	}

	res := StreakResult{Previous: s.Current}
	gap, ok := dayGap(s.LastCompletionDate, now)

	switch {
	case s.LastCompletionDate == "" || !ok:
		res.Outcome = StreakStarted
		s.Current = 1
		res.Continued = true
	case gap <= 0:
		res.Outcome = StreakSameDay
		if s.Current < 1 {
			s.Current = 1
		}
	case gap == 1:
		res.Outcome = StreakContinued
		s.Current++
		res.Continued = true
	case gap == 2 && shieldEligible && !s.ShieldUsedThisWeek:
		res.Outcome = StreakShielded
		s.Current++
		s.ShieldUsedThisWeek = true
		res.Continued = true
		res.ShieldUsed = true
	default:
		res.Outcome = StreakBroken
		s.Current = 1
		res.Broken = true
	}

	if res.Outcome != StreakSameDay {
		s.LastCompletionDate = DayKey(now)
	}
	if s.Current > s.Highest {
		res.NewRecord = s.Highest > 0 && res.Outcome != StreakStarted
		s.Highest = s.Current
	}
	res.Current = s.Current
	res.Highest = s.Highest
	return res
}
