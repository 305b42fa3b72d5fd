package app

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/josephgoksu/QuestWing/internal/effects"
	"github.com/josephgoksu/QuestWing/internal/ledger"
	"github.com/josephgoksu/QuestWing/internal/progression"
	"github.com/josephgoksu/QuestWing/internal/quest"
	"github.com/josephgoksu/QuestWing/internal/storage"
	"github.com/josephgoksu/QuestWing/internal/tasks"
	"github.com/josephgoksu/QuestWing/models"
)

// ActionResult contains the result of a quest action.
// Expected failures (unknown quest, invalid move, failed write) are reported
// here with Success=false; the error return is kept for infrastructure faults.
type ActionResult struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Hint    string        `json:"hint,omitempty"`
	Changed bool          `json:"changed,omitempty"`
	Quest   *models.Quest `json:"quest,omitempty"`

	// Progression fields, set when the action awarded or spent XP.
	XP      *progression.XPBreakdown `json:"xp,omitempty"`
	LevelUp *progression.LevelUp     `json:"level_up,omitempty"`
	Stat    *progression.Accrual     `json:"stat,omitempty"`

	// Effects fields
	Streak       *effects.StreakResult `json:"streak,omitempty"`
	PowerUps     []effects.Reward      `json:"power_ups,omitempty"`
	Achievements []models.Achievement  `json:"achievements,omitempty"`
	Loot         []models.GearItem     `json:"loot,omitempty"`

	// Task fields, set by ToggleTask.
	Completion *tasks.Completion `json:"completion,omitempty"`
	TaskDone   bool              `json:"task_done,omitempty"`

	// Notices are user-facing lines in the order they happened.
	Notices []string `json:"notices,omitempty"`
}

func (r *ActionResult) notice(format string, args ...any) {
	r.Notices = append(r.Notices, fmt.Sprintf(format, args...))
}

// QuestApp provides quest board operations.
// CLI commands and the live board both call these methods.
type QuestApp struct {
	ctx *Context

	// fileLocks serializes read-modify-write toggles per task file path.
	fileLocks sync.Map
}

// NewQuestApp creates a new quest application service.
func NewQuestApp(ctx *Context) *QuestApp {
	return &QuestApp{ctx: ctx}
}

// Context returns the shared dependencies.
func (a *QuestApp) Context() *Context { return a.ctx }

// Reload reads every quest from storage into the cache and re-parses linked
// task files. Invalid files are reported in the result, not returned as an
// error.
func (a *QuestApp) Reload() (*quest.LoadResult, error) {
	res, err := a.ctx.Repo.LoadAll()
	if err != nil {
		return nil, err
	}
	a.ctx.Cache.Replace(res.Quests)
	for _, q := range res.Quests {
		secs, err := a.ctx.Repo.Sections(q)
		if err != nil {
			a.ctx.logger().Warn("failed to read task file", "quest", q.QuestID, "error", err)
			continue
		}
		a.ctx.Cache.SetSections(q.QuestID, secs)
	}
	return res, nil
}

func notFound(id string) *ActionResult {
	return &ActionResult{
		Success: false,
		Message: fmt.Sprintf("Quest %q not found.", id),
		Hint:    "Run 'questwing list' to see quest ids.",
	}
}

// persist writes q while its id is registered as a pending save, so the
// watcher does not reload the file mid-write. On failure the cache is rolled
// back to prev.
func (a *QuestApp) persist(q, prev *models.Quest) error {
	id := q.QuestID
	if a.ctx.Pending != nil {
		a.ctx.Pending.Add(id)
		defer a.ctx.Pending.Release(id)
	}
	if err := a.ctx.Repo.Save(q); err != nil {
		a.ctx.logger().Error("failed to save quest", "quest", id, "error", err)
		if prev != nil {
			a.ctx.Cache.Put(prev)
		}
		return err
	}
	return nil
}

func timelineEvent(typ string, at time.Time, from, to models.QuestStatus) models.TimelineEvent {
	return models.TimelineEvent{ID: uuid.NewString(), Type: typ, At: at, From: from, To: to}
}

// MoveQuest moves a quest to a new status and applies the completion side
// effects: XP, stat accrual, loot, streak, triggers and achievements.
func (a *QuestApp) MoveQuest(id string, to models.QuestStatus) (*ActionResult, error) {
	log := a.ctx.logger()
	current, ok := a.ctx.Cache.Get(id)
	if !ok {
		log.Warn("move of unknown quest", "quest", id)
		return notFound(id), nil
	}
	from := current.Status
	if from == to {
		return &ActionResult{Success: true, Message: fmt.Sprintf("%s is already %s.", current.QuestName, to), Quest: current}, nil
	}
	if !models.CanTransition(from, to) {
		log.Warn("rejected status move", "quest", id, "from", from, "to", to)
		return &ActionResult{
			Success: false,
			Message: fmt.Sprintf("Cannot move %s from %s to %s: %v.", current.QuestName, from, to, models.ErrInvalidTransition),
			Hint:    "Completed quests can only be reopened to in-progress.",
		}, nil
	}

	now := a.ctx.now()
	firstCompletion := to == models.StatusCompleted && !current.WasCompletedBefore()

	// The character is read before anything is written, so a broken
	// character file leaves the quest untouched.
	var ch *models.Character
	if to == models.StatusCompleted {
		loaded, _, err := a.ctx.Characters.Load()
		if err != nil {
			log.Error("failed to load character", "quest", id, "error", err)
			return &ActionResult{
				Success: false,
				Message: fmt.Sprintf("Cannot complete %s: %v", current.QuestName, err),
				Hint:    "Run 'questwing doctor' to check the character file.",
				Quest:   current,
			}, nil
		}
		ch = loaded
	}

	updated := current.Clone()
	updated.Status = to
	switch {
	case to == models.StatusCompleted:
		at := now
		updated.CompletedDate = &at
		updated.Timeline = append(updated.Timeline, timelineEvent(models.EventCompleted, now, from, to))
	case from == models.StatusCompleted:
		updated.CompletedDate = nil
		updated.Timeline = append(updated.Timeline, timelineEvent(models.EventReopened, now, from, to))
	default:
		updated.Timeline = append(updated.Timeline, timelineEvent(models.EventStatusChange, now, from, to))
	}

	a.ctx.Cache.Put(updated)
	if err := a.persist(updated, current); err != nil {
		return &ActionResult{
			Success: false,
			Message: fmt.Sprintf("Failed to save %s: %v", current.QuestName, err),
			Quest:   current,
		}, nil
	}

	res := &ActionResult{
		Success: true,
		Changed: true,
		Message: fmt.Sprintf("Moved %s: %s → %s", updated.QuestName, from, to),
		Quest:   updated,
	}
	if to != models.StatusCompleted {
		return res, nil
	}

	entry := a.completeQuest(res, ch, updated, from, firstCompletion, now)
	if err := a.saveCharacter(res, ch); err != nil {
		// Without the character write the completion never happened: put the
		// quest back so the next attempt awards it again.
		a.ctx.Cache.Put(current)
		if rerr := a.persist(current, updated); rerr != nil {
			log.Error("failed to roll back quest", "quest", id, "error", rerr)
		}
		return &ActionResult{
			Success: false,
			Message: fmt.Sprintf("Failed to complete %s: %v", current.QuestName, err),
			Hint:    "Nothing was awarded; run the move again once the character file is writable.",
			Quest:   current,
		}, nil
	}
	if entry != nil {
		a.recordCompletion(*entry)
	}
	return res, nil
}

// completeQuest applies the character side of a completion to ch. The
// returned ledger entry is nil when no XP was awarded.
func (a *QuestApp) completeQuest(res *ActionResult, ch *models.Character, q *models.Quest, from models.QuestStatus, first bool, now time.Time) *ledger.Entry {
	effects.Prune(ch, now)
	table := progression.TableFor(ch.Mode)
	before := ch.ActiveXP()

	var entry *ledger.Entry
	if first {
		entry = a.awardQuest(res, ch, q, now)
	} else {
		res.notice("%s was completed before; no XP awarded again.", q.QuestName)
	}

	if a.ctx.StreakMode != StreakOnTask {
		a.advanceStreak(res, ch, now)
	}

	if first && a.ctx.Effects != nil {
		rewards := a.ctx.Effects.Fire(ch, effects.EventContext{
			Event: effects.EventQuestCompletion,
			From:  from,
			To:    models.StatusCompleted,
			Quest: q,
		}, now)
		a.reportRewards(res, rewards)
	}

	a.finishCharacter(res, ch, table, before, now)
	return entry
}

func (a *QuestApp) recordCompletion(e ledger.Entry) {
	if a.ctx.Ledger == nil {
		return
	}
	if _, err := a.ctx.Ledger.Record(e); err != nil {
		a.ctx.logger().Warn("failed to record completion", "quest", e.QuestID, "error", err)
	}
}

func (a *QuestApp) awardQuest(res *ActionResult, ch *models.Character, q *models.Quest, now time.Time) *ledger.Entry {
	done := 0
	if secs, ok := a.ctx.Cache.Sections(q.QuestID); ok {
		done = tasks.Complete(tasks.Flatten(secs)).Completed
	}
	base := progression.QuestBaseXP(q, done)
	in := progression.InputForQuest(ch, q, base, now, progression.PowerUpXPMultiplier(ch.PowerUps, now))
	xp := progression.CalculateXP(in)
	res.XP = &xp
	ch.AddXP(xp.Total)
	if xp.Total > 0 {
		res.notice("+%d XP", xp.Total)
	}

	stat := progression.StatForCategory(q.Category, ch.Class)
	accrual := progression.AccrueStatXP(ch, stat, xp.Total, progression.MainLevel(ch))
	res.Stat = &accrual
	if accrual.Points > 0 {
		res.notice("+%d %s", accrual.Points, stat)
	}

	effects.RecordCompletion(ch, q.Category)

	if q.IsGenerated() {
		for _, g := range q.Generated.GearRewards {
			item := g.Item(q.QuestID)
			ch.Inventory = append(ch.Inventory, item)
			res.Loot = append(res.Loot, item)
			res.notice("Loot: %s (%s)", item.Name, item.Slot)
		}
		for _, hidden := range q.Generated.HiddenRewards {
			res.notice("Hidden reward revealed: %s", hidden)
		}
	}

	return &ledger.Entry{
		QuestID:     q.QuestID,
		QuestName:   q.QuestName,
		Category:    q.Category,
		XP:          xp.Total,
		Stat:        string(stat),
		CompletedAt: now,
	}
}

func (a *QuestApp) advanceStreak(res *ActionResult, ch *models.Character, now time.Time) {
	sr := effects.UpdateStreak(&ch.Streak, now, progression.HasShield(ch))
	res.Streak = &sr
	res.notice("%s", sr.Message())
	if sr.Outcome == effects.StreakSameDay || a.ctx.Effects == nil {
		return
	}
	rewards := a.ctx.Effects.Fire(ch, effects.EventContext{Event: effects.EventStreakUpdate, Streak: &sr}, now)
	a.reportRewards(res, rewards)
}

func (a *QuestApp) reportRewards(res *ActionResult, rewards []effects.Reward) {
	for _, r := range rewards {
		res.PowerUps = append(res.PowerUps, r)
		p := r.Result.PowerUp
		switch r.Result.Action {
		case effects.GrantAdded, effects.GrantReplaced:
			res.notice("Power-up: %s", p.Name)
		case effects.GrantStacked:
			res.notice("Power-up stacked: %s x%d", p.Name, p.Stacks)
		case effects.GrantExtended:
			res.notice("Power-up extended: %s", p.Name)
		}
	}
}

// finishCharacter evaluates achievements and reports any level change since
// before. Achievement XP counts toward the level-up.
func (a *QuestApp) finishCharacter(res *ActionResult, ch *models.Character, table progression.Table, before int, now time.Time) {
	unlocked := effects.EvaluateAchievements(ch, progression.CharacterLevel(ch), now)
	for _, ach := range unlocked {
		res.Achievements = append(res.Achievements, ach)
		res.notice("Achievement unlocked: %s (+%d XP)", ach.Name, ach.XPBonus)
	}
	lu := progression.CheckLevelUp(table, before, ch.ActiveXP())
	if !lu.Leveled {
		return
	}
	res.LevelUp = &lu
	res.notice("Level up! %d → %d", lu.OldLevel, lu.NewLevel)
	if lu.TierCrossed {
		res.notice("New tier reached: %s", progression.TierName(lu.NewTier))
	}
}

func (a *QuestApp) saveCharacter(res *ActionResult, ch *models.Character) error {
	if err := a.ctx.Characters.Save(ch); err != nil {
		a.ctx.logger().Error("failed to save character", "error", err)
		res.notice("Character progress could not be saved: %v", err)
		return fmt.Errorf("save character: %w", err)
	}
	return nil
}

// ToggleTask flips the checkbox on the 1-indexed line of the quest's linked task
// file. The write is not registered as a pending save: the watcher is
// expected to re-read task files.
func (a *QuestApp) ToggleTask(id string, line int) (*ActionResult, error) {
	return a.ToggleTaskIn(id, "", line)
}

// ToggleTaskIn is ToggleTask for one of the quest's task files. An empty file
// selects the primary linked file.
func (a *QuestApp) ToggleTaskIn(id, file string, line int) (*ActionResult, error) {
	return a.toggle(id, file, func(string) (int, *ActionResult) { return line, nil })
}

// CompleteNextTask checks off the first open task in the quest's primary
// task file.
func (a *QuestApp) CompleteNextTask(id string) (*ActionResult, error) {
	return a.toggle(id, "", func(text string) (int, *ActionResult) {
		for _, t := range tasks.Parse(text) {
			if !t.Completed {
				return t.Line, nil
			}
		}
		return 0, &ActionResult{Success: true, Message: "Every task is already done."}
	})
}

// toggle flips the line chosen by pick while holding the task file's lock.
func (a *QuestApp) toggle(id, file string, pick func(text string) (int, *ActionResult)) (*ActionResult, error) {
	q, ok := a.ctx.Cache.Get(id)
	if !ok {
		a.ctx.logger().Warn("toggle on unknown quest", "quest", id)
		return notFound(id), nil
	}
	target, res := resolveTaskFile(q, file)
	if res != nil {
		return res, nil
	}

	unlock := a.lockFile(target)
	defer unlock()

	store := a.ctx.Repo.Storage()
	text, err := store.ReadFile(target)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return &ActionResult{Success: false, Message: fmt.Sprintf("Task file %s does not exist.", target)}, nil
		}
		return nil, err
	}
	line, done := pick(text)
	if done != nil {
		done.Quest = q
		return done, nil
	}
	toggled, err := tasks.Toggle(text, line)
	if err != nil {
		return &ActionResult{Success: false, Message: fmt.Sprintf("Cannot toggle line %d of %s: %v", line, target, err)}, nil
	}
	if err := store.WriteFile(target, toggled); err != nil {
		a.ctx.logger().Error("failed to write task file", "path", target, "error", err)
		return &ActionResult{Success: false, Message: fmt.Sprintf("Failed to save %s: %v", target, err)}, nil
	}

	secs, err := a.ctx.Repo.Sections(q)
	if err != nil {
		return nil, err
	}
	a.ctx.Cache.SetSections(q.QuestID, secs)

	out := &ActionResult{Success: true, Changed: true, Quest: q}
	for _, t := range tasks.Parse(toggled) {
		if t.Line == line {
			out.TaskDone = t.Completed
			out.Message = fmt.Sprintf("%s %s", checkbox(t.Completed), t.Text)
			break
		}
	}
	c := tasks.Complete(tasks.Flatten(secs))
	out.Completion = &c

	if out.TaskDone && a.ctx.StreakMode == StreakOnTask {
		ch, _, err := a.ctx.Characters.Load()
		if err != nil {
			return out, fmt.Errorf("load character: %w", err)
		}
		now := a.ctx.now()
		effects.Prune(ch, now)
		before := ch.ActiveXP()
		a.advanceStreak(out, ch, now)
		a.finishCharacter(out, ch, progression.TableFor(ch.Mode), before, now)
		if err := a.saveCharacter(out, ch); err != nil {
			return out, err
		}
	}
	return out, nil
}

func resolveTaskFile(q *models.Quest, file string) (string, *ActionResult) {
	files := q.TaskFiles()
	if len(files) == 0 {
		return "", &ActionResult{
			Success: false,
			Message: fmt.Sprintf("%s has no linked task file.", q.QuestName),
			Hint:    "Set linkedTaskFile in the quest frontmatter.",
		}
	}
	if file == "" {
		return quest.NormalizeTaskPath(files[0]), nil
	}
	want := quest.NormalizeTaskPath(file)
	for _, f := range files {
		if quest.NormalizeTaskPath(f) == want {
			return want, nil
		}
	}
	return "", &ActionResult{Success: false, Message: fmt.Sprintf("%s is not linked to %s.", file, q.QuestName)}
}

func (a *QuestApp) lockFile(p string) func() {
	v, _ := a.fileLocks.LoadOrStore(p, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// Reorder sets a manual quest's board rank.
func (a *QuestApp) Reorder(id string, sortOrder int) (*ActionResult, error) {
	current, ok := a.ctx.Cache.Get(id)
	if !ok {
		return notFound(id), nil
	}
	if !current.IsManual() {
		return &ActionResult{Success: false, Message: fmt.Sprintf("%s is a generated quest and cannot be reordered.", current.QuestName)}, nil
	}
	if current.Manual.SortOrder == sortOrder {
		return &ActionResult{Success: true, Message: "Order unchanged.", Quest: current}, nil
	}
	updated := current.Clone()
	updated.Manual.SortOrder = sortOrder
	a.ctx.Cache.Put(updated)
	if err := a.persist(updated, current); err != nil {
		return &ActionResult{Success: false, Message: fmt.Sprintf("Failed to save %s: %v", current.QuestName, err), Quest: current}, nil
	}
	return &ActionResult{Success: true, Changed: true, Message: fmt.Sprintf("%s order set to %d", updated.QuestName, sortOrder), Quest: updated}, nil
}

// ResolveStatus parses a user-supplied status name.
func ResolveStatus(raw string) (models.QuestStatus, error) {
	s, ok := models.ParseStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !ok {
		return "", fmt.Errorf("unknown status %q (want available, active, in-progress or completed)", raw)
	}
	return s, nil
}
