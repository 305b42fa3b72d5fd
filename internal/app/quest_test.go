package app

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/josephgoksu/QuestWing/internal/character"
	"github.com/josephgoksu/QuestWing/internal/effects"
	"github.com/josephgoksu/QuestWing/internal/ledger"
	"github.com/josephgoksu/QuestWing/internal/progression"
	"github.com/josephgoksu/QuestWing/internal/quest"
	"github.com/josephgoksu/QuestWing/internal/storage"
	"github.com/josephgoksu/QuestWing/internal/watch"
	"github.com/josephgoksu/QuestWing/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)

// flakyStorage fails writes under prefix while fail is set.
type flakyStorage struct {
	storage.Storage
	fail   bool
	prefix string
}

func (f *flakyStorage) WriteFile(p, content string) error {
	if f.fail && strings.HasPrefix(p, f.prefix) {
		return errors.New("disk full")
	}
	return f.Storage.WriteFile(p, content)
}

type fixture struct {
	app   *QuestApp
	ctx   *Context
	store *flakyStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &flakyStorage{Storage: storage.NewMem(), prefix: "QuestBoard/"}
	repo := quest.NewRepository(store, "QuestBoard")
	ctx := NewContext(repo, quest.NewCache(), watch.NewPendingSaves(time.Hour), character.NewStore(store, ""))
	ctx.Now = func() time.Time { return testNow }
	ctx.Location = time.UTC
	ctx.Effects = &effects.Engine{
		Catalog: effects.DefaultCatalog(),
		Rules: []effects.Rule{
			{ID: "straight-to-done", Event: effects.EventQuestCompletion, Condition: effects.CondSkippedProgress, PowerUpID: "momentum"},
		},
		Rand: rand.New(rand.NewSource(1)),
	}
	return &fixture{app: NewQuestApp(ctx), ctx: ctx, store: store}
}

func (f *fixture) addManual(t *testing.T, id string, status models.QuestStatus, taskFile, tasksText string) {
	t.Helper()
	q := &models.Quest{
		QuestID:   id,
		QuestName: "Quest " + id,
		QuestType: models.QuestTypeMain,
		Category:  "fitness",
		Status:    status,
		Priority:  models.PriorityMedium,
		Kind:      models.KindManual,
		Manual:    &models.ManualDetails{LinkedTaskFile: taskFile, XPPerTask: 10, CompletionBonus: 80},
	}
	require.NoError(t, f.ctx.Repo.Save(q))
	if taskFile != "" {
		require.NoError(t, f.store.MkdirAll("Tasks"))
		require.NoError(t, f.store.WriteFile(quest.NormalizeTaskPath(taskFile), tasksText))
	}
}

func (f *fixture) reload(t *testing.T) {
	t.Helper()
	res, err := f.app.Reload()
	require.NoError(t, err)
	require.Empty(t, res.Errors)
}

const runTasks = "# Run\n- [x] warm up\n- [x] stretch\n- [ ] run\n"

func TestMoveQuest_FirstCompletion(t *testing.T) {
	f := newFixture(t)
	f.addManual(t, "run-5k", models.StatusAvailable, "Tasks/run.md", runTasks)
	f.reload(t)

	res, err := f.app.MoveQuest("run-5k", models.StatusCompleted)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	assert.True(t, res.Changed)

	// 80 + 2 done tasks * 10 = 100, warrior fitness bonus 15%.
	require.NotNil(t, res.XP)
	assert.Equal(t, 115, res.XP.Total)
	require.NotNil(t, res.Streak)
	assert.Equal(t, effects.StreakStarted, res.Streak.Outcome)
	require.Len(t, res.PowerUps, 1)
	assert.Equal(t, "momentum", res.PowerUps[0].Result.PowerUp.ID)
	require.Len(t, res.Achievements, 1)
	assert.Equal(t, "first-steps", res.Achievements[0].ID)
	require.NotNil(t, res.LevelUp)
	assert.Equal(t, 1, res.LevelUp.OldLevel)
	assert.Equal(t, 2, res.LevelUp.NewLevel)

	cached, ok := f.ctx.Cache.Get("run-5k")
	require.True(t, ok)
	assert.Equal(t, models.StatusCompleted, cached.Status)
	require.NotNil(t, cached.CompletedDate)
	assert.True(t, f.ctx.Pending.Has("run-5k"))

	onDisk, err := f.ctx.Repo.LoadFile(cached.Path)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, onDisk.Status)
	assert.True(t, onDisk.WasCompletedBefore())

	ch, existed, err := f.ctx.Characters.Load()
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, 115+25, ch.TotalXP)
	assert.Equal(t, 1, ch.StatBonuses[models.StatStrength])
	assert.Equal(t, 15, ch.CategoryXP[models.StatStrength])
	assert.Equal(t, 1, ch.QuestsDone)
	assert.Equal(t, 1, ch.Streak.Current)
	assert.Equal(t, 2, progression.CharacterLevel(ch))
}

func TestMoveQuest_ReopenDoesNotAwardAgain(t *testing.T) {
	f := newFixture(t)
	f.addManual(t, "swim", models.StatusInProgress, "", "")
	f.reload(t)

	_, err := f.app.MoveQuest("swim", models.StatusCompleted)
	require.NoError(t, err)
	ch, _, _ := f.ctx.Characters.Load()
	xp := ch.TotalXP

	res, err := f.app.MoveQuest("swim", models.StatusInProgress)
	require.NoError(t, err)
	require.True(t, res.Success)
	cached, _ := f.ctx.Cache.Get("swim")
	assert.Nil(t, cached.CompletedDate)

	res, err = f.app.MoveQuest("swim", models.StatusCompleted)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Nil(t, res.XP)
	assert.Equal(t, effects.StreakSameDay, res.Streak.Outcome)

	ch, _, _ = f.ctx.Characters.Load()
	assert.Equal(t, xp, ch.TotalXP)
	assert.Equal(t, 1, ch.QuestsDone)
}

func TestMoveQuest_Rejections(t *testing.T) {
	f := newFixture(t)
	f.addManual(t, "done", models.StatusCompleted, "", "")
	f.reload(t)

	res, err := f.app.MoveQuest("missing", models.StatusActive)
	require.NoError(t, err)
	assert.False(t, res.Success)

	res, err = f.app.MoveQuest("done", models.StatusAvailable)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "invalid status transition")

	res, err = f.app.MoveQuest("done", models.StatusCompleted)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Changed)
}

func TestMoveQuest_SaveFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.addManual(t, "run-5k", models.StatusAvailable, "", "")
	f.reload(t)

	f.store.fail = true
	res, err := f.app.MoveQuest("run-5k", models.StatusActive)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "disk full")

	cached, _ := f.ctx.Cache.Get("run-5k")
	assert.Equal(t, models.StatusAvailable, cached.Status)
	assert.Empty(t, cached.Timeline)

	ch, existed, err := f.ctx.Characters.Load()
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Zero(t, ch.TotalXP)
}

func TestMoveQuest_CharacterSaveFailureKeepsQuestOpen(t *testing.T) {
	f := newFixture(t)
	f.addManual(t, "run-5k", models.StatusInProgress, "", "")
	f.reload(t)

	f.store.prefix = ".questwing/"
	f.store.fail = true
	res, err := f.app.MoveQuest("run-5k", models.StatusCompleted)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "disk full")

	cached, _ := f.ctx.Cache.Get("run-5k")
	assert.Equal(t, models.StatusInProgress, cached.Status)
	onDisk, err := f.ctx.Repo.LoadFile(cached.Path)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, onDisk.Status)
	assert.False(t, onDisk.WasCompletedBefore())

	f.store.fail = false
	res, err = f.app.MoveQuest("run-5k", models.StatusCompleted)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	require.NotNil(t, res.XP)
	assert.NotContains(t, strings.Join(res.Notices, "\n"), "completed before")

	ch, _, err := f.ctx.Characters.Load()
	require.NoError(t, err)
	assert.Positive(t, ch.TotalXP)
}

func TestMoveQuest_UnreadableCharacterLeavesQuestUntouched(t *testing.T) {
	f := newFixture(t)
	f.addManual(t, "run-5k", models.StatusActive, "", "")
	f.reload(t)
	require.NoError(t, f.store.WriteFile(character.DefaultFile, "name: [unclosed"))

	res, err := f.app.MoveQuest("run-5k", models.StatusCompleted)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Hint)

	cached, _ := f.ctx.Cache.Get("run-5k")
	onDisk, err := f.ctx.Repo.LoadFile(cached.Path)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, onDisk.Status)
	assert.Empty(t, onDisk.Timeline)
	assert.False(t, f.ctx.Pending.Has("run-5k"))
}

func TestMoveQuest_ReconcilerSkipsOwnWrite(t *testing.T) {
	f := newFixture(t)
	f.addManual(t, "run-5k", models.StatusAvailable, "", "")
	f.reload(t)
	rec := watch.NewReconciler(f.ctx.Repo, f.ctx.Cache, f.ctx.Pending, watch.NewLinkIndex())
	rec.Seed(f.ctx.Cache.All())

	cached, _ := f.ctx.Cache.Get("run-5k")
	p := cached.Path
	original, err := f.store.ReadFile(p)
	require.NoError(t, err)

	res, err := f.app.MoveQuest("run-5k", models.StatusActive)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, watch.Suppressed, rec.OnModified(p))
	got, _ := f.ctx.Cache.Get("run-5k")
	assert.Equal(t, models.StatusActive, got.Status)

	f.ctx.Pending.Remove("run-5k")
	assert.Equal(t, watch.Ignored, rec.OnModified(p), "content already applied")

	// An external edit that restores the earlier file must still land.
	require.NoError(t, f.store.WriteFile(p, original))
	assert.Equal(t, watch.Upserted, rec.OnModified(p))
	got, _ = f.ctx.Cache.Get("run-5k")
	assert.Equal(t, models.StatusAvailable, got.Status)

	edited, err := f.ctx.Repo.LoadFile(p)
	require.NoError(t, err)
	edited.Status = models.StatusInProgress
	require.NoError(t, f.ctx.Repo.Save(edited))
	assert.Equal(t, watch.Upserted, rec.OnModified(p))
	got, _ = f.ctx.Cache.Get("run-5k")
	assert.Equal(t, models.StatusInProgress, got.Status)
}

func TestMoveQuest_GeneratedLootAndLedger(t *testing.T) {
	f := newFixture(t)
	l, err := ledger.Open(":memory:")
	require.NoError(t, err)
	defer l.Close()
	f.ctx.Ledger = l

	q := &models.Quest{
		QuestID:   "learn-go",
		QuestName: "Learn Go",
		QuestType: models.QuestTypeGenerated,
		Category:  "coding",
		Status:    models.StatusInProgress,
		Priority:  models.PriorityHigh,
		Kind:      models.KindGenerated,
		Generated: &models.GeneratedDetails{
			XPTotal:       200,
			HiddenRewards: []string{"Gopher badge"},
			GearRewards:   []models.GearReward{{ID: "gopher-hat", Name: "Gopher Hat", Slot: models.SlotHead, Defense: 2}},
		},
	}
	require.NoError(t, f.ctx.Repo.Save(q))
	f.reload(t)

	res, err := f.app.MoveQuest("learn-go", models.StatusCompleted)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 200, res.XP.Total)
	require.Len(t, res.Loot, 1)
	assert.Equal(t, "learn-go", res.Loot[0].Source)
	assert.Contains(t, strings.Join(res.Notices, "\n"), "Gopher badge")
	assert.Empty(t, res.PowerUps)

	ch, _, err := f.ctx.Characters.Load()
	require.NoError(t, err)
	require.Len(t, ch.Inventory, 1)
	assert.Equal(t, 1, ch.CategoryCounts["coding"])

	done, err := l.HasCompleted("learn-go")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestToggleTask(t *testing.T) {
	f := newFixture(t)
	f.addManual(t, "run-5k", models.StatusActive, "[[Tasks/run]]", runTasks)
	f.reload(t)

	res, err := f.app.ToggleTask("run-5k", 4)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	assert.True(t, res.TaskDone)
	assert.Equal(t, 100, res.Completion.Percent)
	assert.Nil(t, res.Streak)
	assert.False(t, f.ctx.Pending.Has("run-5k"))

	text, err := f.store.ReadFile("Tasks/run.md")
	require.NoError(t, err)
	assert.Equal(t, "# Run\n- [x] warm up\n- [x] stretch\n- [x] run\n", text)

	secs, ok := f.ctx.Cache.Sections("run-5k")
	require.True(t, ok)
	assert.Equal(t, 3, secs[0].Completion.Completed)

	res, err = f.app.ToggleTask("run-5k", 1)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestCompleteNextTask(t *testing.T) {
	f := newFixture(t)
	f.addManual(t, "run-5k", models.StatusActive, "Tasks/run.md", runTasks)
	f.reload(t)

	res, err := f.app.CompleteNextTask("run-5k")
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	assert.True(t, res.Changed)
	assert.Contains(t, res.Message, "run")

	res, err = f.app.CompleteNextTask("run-5k")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Changed)
	assert.Equal(t, "Every task is already done.", res.Message)

	text, err := f.store.ReadFile("Tasks/run.md")
	require.NoError(t, err)
	assert.Equal(t, "# Run\n- [x] warm up\n- [x] stretch\n- [x] run\n", text)
}

func TestToggleTask_ConcurrentTogglesSameFile(t *testing.T) {
	f := newFixture(t)
	text := "# Chores\n"
	for i := 0; i < 8; i++ {
		text += "- [ ] chore\n"
	}
	f.addManual(t, "chores", models.StatusActive, "Tasks/chores.md", text)
	f.reload(t)

	var wg sync.WaitGroup
	for line := 2; line <= 9; line++ {
		wg.Add(1)
		go func(line int) {
			defer wg.Done()
			res, err := f.app.ToggleTask("chores", line)
			if assert.NoError(t, err) {
				assert.True(t, res.Success, res.Message)
			}
		}(line)
	}
	wg.Wait()

	got, err := f.store.ReadFile("Tasks/chores.md")
	require.NoError(t, err)
	assert.Equal(t, 8, strings.Count(got, "- [x] chore"))
}

func TestToggleTask_TaskStreakMode(t *testing.T) {
	f := newFixture(t)
	f.ctx.StreakMode = StreakOnTask
	f.addManual(t, "run-5k", models.StatusActive, "Tasks/run.md", runTasks)
	f.reload(t)

	res, err := f.app.ToggleTask("run-5k", 2)
	require.NoError(t, err)
	assert.False(t, res.TaskDone)
	assert.Nil(t, res.Streak)

	res, err = f.app.ToggleTask("run-5k", 2)
	require.NoError(t, err)
	assert.True(t, res.TaskDone)
	require.NotNil(t, res.Streak)
	assert.Equal(t, effects.StreakStarted, res.Streak.Outcome)

	ch, _, err := f.ctx.Characters.Load()
	require.NoError(t, err)
	assert.Equal(t, "2025-06-11", ch.Streak.LastCompletionDate)
}

func TestToggleTask_NoLinkedFile(t *testing.T) {
	f := newFixture(t)
	f.addManual(t, "bare", models.StatusActive, "", "")
	f.reload(t)

	res, err := f.app.ToggleTask("bare", 1)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Hint)
}

func TestReorder(t *testing.T) {
	f := newFixture(t)
	f.addManual(t, "a", models.StatusActive, "", "")
	f.reload(t)

	res, err := f.app.Reorder("a", 7)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.True(t, f.ctx.Pending.Has("a"))

	cached, _ := f.ctx.Cache.Get("a")
	assert.Equal(t, 7, cached.SortOrder())
	onDisk, err := f.ctx.Repo.LoadFile(cached.Path)
	require.NoError(t, err)
	assert.Equal(t, 7, onDisk.SortOrder())
}

func TestChangeClass(t *testing.T) {
	f := newFixture(t)
	res, err := f.app.ChangeClass("bard")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Hint)

	ch := models.NewCharacter("hero", "warrior")
	ch.TotalXP = 600
	require.NoError(t, f.ctx.Characters.Save(ch))

	res, err = f.app.ChangeClass("bard")
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	view, err := f.app.Character()
	require.NoError(t, err)
	assert.Equal(t, "bard", view.Character.Class)
	assert.Equal(t, 100, view.Character.TotalXP)
	assert.Equal(t, 2, view.Sheet.Level)
}

func TestResolveStatus(t *testing.T) {
	s, err := ResolveStatus(" In_Progress ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, s)
	_, err = ResolveStatus("archived")
	assert.Error(t, err)
}
