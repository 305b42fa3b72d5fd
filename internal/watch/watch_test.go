package watch

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/josephgoksu/QuestWing/internal/quest"
	"github.com/josephgoksu/QuestWing/internal/storage"
	"github.com/josephgoksu/QuestWing/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questText(id, name string, status models.QuestStatus, linked string) string {
	s := fmt.Sprintf("---\nquestId: %q\nquestName: %q\nquestType: main\ncategory: \"work\"\nstatus: %s\n", id, name, status)
	if linked != "" {
		s += fmt.Sprintf("linkedTaskFile: %q\n", linked)
	}
	return s + "---\n"
}

type fixture struct {
	store   *storage.AferoStorage
	repo    *quest.Repository
	cache   *quest.Cache
	pending *PendingSaves
	rec     *Reconciler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewMem()
	require.NoError(t, store.MkdirAll("QuestBoard/quests/main"))
	repo := quest.NewRepository(store, "QuestBoard")
	cache := quest.NewCache()
	pending := NewPendingSaves(time.Hour)
	rec := NewReconciler(repo, cache, pending, NewLinkIndex())
	return &fixture{store: store, repo: repo, cache: cache, pending: pending, rec: rec}
}

func (f *fixture) write(t *testing.T, p, content string) {
	t.Helper()
	require.NoError(t, f.store.WriteFile(p, content))
}

func (f *fixture) load(t *testing.T) {
	t.Helper()
	res, err := f.repo.LoadAll()
	require.NoError(t, err)
	f.cache.Replace(res.Quests)
	f.rec.Seed(res.Quests)
}

const mainPath = "QuestBoard/quests/main/deploy.md"

func TestPendingSaveSuppression(t *testing.T) {
	f := newFixture(t)
	f.write(t, mainPath, questText("deploy", "Deploy", models.StatusActive, ""))
	f.load(t)

	// Optimistic update in memory, then the file is rewritten by "our" save.
	q, ok := f.cache.Get("deploy")
	require.True(t, ok)
	q.Status = models.StatusCompleted
	f.cache.Put(q)

	f.pending.Add("deploy")
	f.write(t, mainPath, questText("deploy", "Deploy", models.StatusInProgress, ""))
	assert.Equal(t, Suppressed, f.rec.OnModified(mainPath))

	got, _ := f.cache.Get("deploy")
	assert.Equal(t, models.StatusCompleted, got.Status)

	f.pending.Remove("deploy")
	assert.Equal(t, Upserted, f.rec.OnModified(mainPath))
	got, _ = f.cache.Get("deploy")
	assert.Equal(t, models.StatusInProgress, got.Status)
}

func TestPendingSaveSuppression_RevertAfterRelease(t *testing.T) {
	f := newFixture(t)
	original := questText("deploy", "Deploy", models.StatusActive, "")
	f.write(t, mainPath, original)
	f.load(t)

	q, _ := f.cache.Get("deploy")
	q.Status = models.StatusCompleted
	f.cache.Put(q)
	f.pending.Add("deploy")
	f.write(t, mainPath, questText("deploy", "Deploy", models.StatusCompleted, ""))
	require.Equal(t, Suppressed, f.rec.OnModified(mainPath))
	f.pending.Remove("deploy")

	// Undo in the editor restores the bytes seen at load time.
	f.write(t, mainPath, original)
	assert.Equal(t, Upserted, f.rec.OnModified(mainPath))
	got, _ := f.cache.Get("deploy")
	assert.Equal(t, models.StatusActive, got.Status)
}

func TestPendingSaves_RefCountAndDelayedRelease(t *testing.T) {
	p := NewPendingSaves(10 * time.Millisecond)
	var mu sync.Mutex
	var scheduled []func()
	p.afterFunc = func(_ time.Duration, fn func()) {
		mu.Lock()
		scheduled = append(scheduled, fn)
		mu.Unlock()
	}

	p.Add("a")
	p.Add("a")
	p.Release("a")
	assert.True(t, p.Has("a"), "release must be delayed")

	scheduled[0]()
	assert.True(t, p.Has("a"), "second save still in flight")
	p.Release("a")
	scheduled[1]()
	assert.False(t, p.Has("a"))
	assert.Equal(t, 0, p.Len())
}

func TestPendingSaves_RealTimer(t *testing.T) {
	p := NewPendingSaves(5 * time.Millisecond)
	p.Add("x")
	p.Release("x")
	assert.Eventually(t, func() bool { return !p.Has("x") }, time.Second, 5*time.Millisecond)
}

func TestOnModified_UnchangedContentIgnored(t *testing.T) {
	f := newFixture(t)
	f.write(t, mainPath, questText("deploy", "Deploy", models.StatusActive, ""))
	f.load(t)
	assert.Equal(t, Ignored, f.rec.OnModified(mainPath))
}

func TestOnModified_InvalidKeepsLastGood(t *testing.T) {
	f := newFixture(t)
	f.write(t, mainPath, questText("deploy", "Deploy", models.StatusActive, ""))
	f.load(t)

	f.write(t, mainPath, "---\nquestId: deploy\nquestType: main\n---\n")
	assert.Equal(t, Rejected, f.rec.OnModified(mainPath))
	got, ok := f.cache.Get("deploy")
	require.True(t, ok)
	assert.Equal(t, "Deploy", got.QuestName)
}

func TestOnCreatedAndDeleted(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	p := "QuestBoard/quests/main/new-one.md"
	f.write(t, p, questText("new-one", "New", models.StatusAvailable, ""))
	assert.Equal(t, Upserted, f.rec.OnCreated(p))
	assert.Equal(t, 1, f.cache.Len())

	require.NoError(t, f.store.Remove(p))
	assert.Equal(t, Removed, f.rec.OnDeleted(p))
	assert.Equal(t, 0, f.cache.Len())

	assert.Equal(t, Ignored, f.rec.OnDeleted("QuestBoard/quests/main/unknown.md"))
}

func TestOnModified_MissingFileTreatedAsDelete(t *testing.T) {
	f := newFixture(t)
	f.write(t, mainPath, questText("deploy", "Deploy", models.StatusActive, ""))
	f.load(t)
	require.NoError(t, f.store.Remove(mainPath))
	assert.Equal(t, Removed, f.rec.OnModified(mainPath))
}

func TestOnModified_QuestIDChangedInPlace(t *testing.T) {
	f := newFixture(t)
	f.write(t, mainPath, questText("deploy", "Deploy", models.StatusActive, ""))
	f.load(t)

	f.write(t, mainPath, questText("deploy-v2", "Deploy", models.StatusActive, ""))
	assert.Equal(t, Upserted, f.rec.OnModified(mainPath))
	_, old := f.cache.Get("deploy")
	assert.False(t, old)
	_, renamed := f.cache.Get("deploy-v2")
	assert.True(t, renamed)
	assert.Equal(t, 1, f.cache.Len())
}

func TestOnRenamed_ChangesID(t *testing.T) {
	f := newFixture(t)
	f.write(t, mainPath, questText("deploy", "Deploy", models.StatusActive, ""))
	f.load(t)

	newPath := "QuestBoard/quests/main/ship.md"
	require.NoError(t, f.store.Remove(mainPath))
	f.write(t, newPath, questText("ship", "Ship", models.StatusActive, ""))

	assert.Equal(t, Upserted, f.rec.OnRenamed(mainPath, newPath))
	assert.Equal(t, 1, f.cache.Len())
	got, ok := f.cache.Get("ship")
	require.True(t, ok)
	assert.Equal(t, newPath, got.Path)
}

func TestOnRenamed_AwayFromQuestFolder(t *testing.T) {
	f := newFixture(t)
	f.write(t, mainPath, questText("deploy", "Deploy", models.StatusActive, ""))
	f.load(t)
	require.NoError(t, f.store.Remove(mainPath))
	f.write(t, "Archive/deploy.txt", "old")

	assert.Equal(t, Removed, f.rec.OnRenamed(mainPath, "Archive/deploy.txt"))
	assert.Equal(t, 0, f.cache.Len())
}

func TestOnRenamed_NothingCachedReportsOutcome(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	f.write(t, "Notes/b.txt", "plain")
	assert.Equal(t, Ignored, f.rec.OnRenamed("Notes/a.txt", "Notes/b.txt"))

	broken := "QuestBoard/quests/main/draft.md"
	f.write(t, broken, "---\nquestId: draft\nquestType: main\n---\n")
	assert.Equal(t, Ignored, f.rec.OnRenamed("QuestBoard/quests/main/scratch.md", broken))
	assert.Equal(t, 0, f.cache.Len())
}

func TestLinkedTaskFileRefreshesSections(t *testing.T) {
	f := newFixture(t)
	f.write(t, "Projects/deploy-tasks.md", "- [ ] build\n- [ ] ship\n")
	f.write(t, mainPath, questText("deploy", "Deploy", models.StatusActive, "[[Projects/deploy-tasks]]"))
	f.load(t)

	assert.Equal(t, []string{"deploy"}, f.rec.Links().Quests("Projects/deploy-tasks.md"))

	f.write(t, "Projects/deploy-tasks.md", "- [x] build\n- [ ] ship\n")
	assert.Equal(t, SectionsRefreshed, f.rec.OnModified("Projects/deploy-tasks.md"))

	secs, ok := f.cache.Sections("deploy")
	require.True(t, ok)
	require.Len(t, secs, 1)
	assert.Equal(t, 50, secs[0].Completion.Percent)

	// The quest metadata itself is untouched.
	got, _ := f.cache.Get("deploy")
	assert.Equal(t, models.StatusActive, got.Status)

	require.NoError(t, f.store.Remove("Projects/deploy-tasks.md"))
	assert.Equal(t, SectionsRefreshed, f.rec.OnDeleted("Projects/deploy-tasks.md"))
	secs, _ = f.cache.Sections("deploy")
	assert.Empty(t, secs)
}

func TestLinkIndex(t *testing.T) {
	l := NewLinkIndex()
	q := &models.Quest{
		QuestID: "a",
		Kind:    models.KindManual,
		Manual:  &models.ManualDetails{LinkedTaskFile: "x.md", AdditionalFiles: []string{"y"}},
	}
	l.Set(q)
	assert.Equal(t, []string{"x.md", "y.md"}, l.Files())

	q.Manual.AdditionalFiles = nil
	l.Set(q)
	assert.Equal(t, []string{"x.md"}, l.Files())
	assert.Empty(t, l.Quests("y.md"))

	l.Remove("a")
	assert.Empty(t, l.Files())
}

func TestCoalesce(t *testing.T) {
	batch := []Event{
		{Path: "a.md", Op: OpCreate},
		{Path: "a.md", Op: OpModify},
		{Path: "b.md", Op: OpModify},
		{Path: "b.md", Op: OpModify},
		{Path: "old.md", Op: OpRename},
		{Path: "new.md", Op: OpCreate},
		{Path: "gone.md", Op: OpRename},
		{Path: "c.md", Op: OpDelete},
		{Path: "c.md", Op: OpCreate},
	}
	got := Coalesce(batch)
	assert.Equal(t, []Action{
		{Op: OpCreate, Path: "a.md"},
		{Op: OpModify, Path: "b.md"},
		{Op: OpRename, Path: "new.md", OldPath: "old.md"},
		{Op: OpModify, Path: "c.md"},
		{Op: OpDelete, Path: "gone.md"},
	}, got)
}

func TestChangeDebouncer_Coalesces(t *testing.T) {
	var mu sync.Mutex
	var batches [][]Event
	d := NewChangeDebouncer(20*time.Millisecond, func(b []Event) {
		mu.Lock()
		batches = append(batches, b)
		mu.Unlock()
	})
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Add(Event{Path: "q.md", Op: OpModify})
	}
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Len(t, batches[0], 5)
	mu.Unlock()
}
