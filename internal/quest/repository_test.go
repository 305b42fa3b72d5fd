package quest

import (
	"fmt"
	"testing"

	"github.com/josephgoksu/QuestWing/internal/storage"
	"github.com/josephgoksu/QuestWing/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manualFile(id, questType string) string {
	return fmt.Sprintf("---\nquestId: %q\nquestName: %q\nquestType: %s\ncategory: \"fitness\"\nstatus: active\n---\n", id, "Quest "+id, questType)
}

func newTestRepo(t *testing.T) (*Repository, *storage.AferoStorage) {
	t.Helper()
	store := storage.NewMem()
	return NewRepository(store, "QuestBoard"), store
}

func TestLoadAll_Resilience(t *testing.T) {
	repo, store := newTestRepo(t)
	require.NoError(t, store.MkdirAll("QuestBoard/quests/main"))
	require.NoError(t, store.MkdirAll("QuestBoard/quests/side"))

	require.NoError(t, store.WriteFile("QuestBoard/quests/main/run-5k.md", manualFile("run-5k", "main")))
	require.NoError(t, store.WriteFile("QuestBoard/quests/main/swim.md", manualFile("swim", "main")))
	require.NoError(t, store.WriteFile("QuestBoard/quests/side/stretch.md", manualFile("stretch", "side")))
	require.NoError(t, store.WriteFile("QuestBoard/quests/side/broken.md", "---\nquestName: Broken\nquestType: side\ncategory: misc\n---\n"))

	res, err := repo.LoadAll()
	require.NoError(t, err)
	assert.Len(t, res.Quests, 3)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "broken.md")
}

func TestLoadAll_SkipsNotesAndCorruptJSON(t *testing.T) {
	repo, store := newTestRepo(t)
	require.NoError(t, store.MkdirAll("QuestBoard/quests/ai-generated"))

	require.NoError(t, store.WriteFile("QuestBoard/readme.md", "# Board\nnot a quest"))
	require.NoError(t, store.WriteFile("QuestBoard/notes.txt", "ignored"))
	require.NoError(t, store.WriteFile("QuestBoard/loose.md", manualFile("loose", "side")))
	require.NoError(t, store.WriteFile("QuestBoard/quests/ai-generated/bad.json", `{"questId":`))

	res, err := repo.LoadAll()
	require.NoError(t, err)
	require.Len(t, res.Quests, 1)
	assert.Equal(t, "loose", res.Quests[0].QuestID)
	assert.Equal(t, "QuestBoard/loose.md", res.Quests[0].Path)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "bad.json")
}

func TestLoadAll_DuplicateID(t *testing.T) {
	repo, store := newTestRepo(t)
	require.NoError(t, store.MkdirAll("QuestBoard/quests/main"))
	require.NoError(t, store.WriteFile("QuestBoard/quests/main/a.md", manualFile("same", "main")))
	require.NoError(t, store.WriteFile("QuestBoard/quests/main/b.md", manualFile("same", "main")))

	res, err := repo.LoadAll()
	require.NoError(t, err)
	assert.Len(t, res.Quests, 1)
	assert.Len(t, res.Errors, 1)
}

func TestSaveRoutesByType(t *testing.T) {
	repo, store := newTestRepo(t)
	q := &models.Quest{
		QuestID:   "read-book",
		QuestName: "Read a book",
		QuestType: models.QuestTypeTraining,
		Category:  "learning",
		Status:    models.StatusAvailable,
		Priority:  models.PriorityMedium,
		Kind:      models.KindManual,
		Manual:    &models.ManualDetails{XPPerTask: 5, CompletionBonus: 30, VisibleTasks: 4},
	}
	require.NoError(t, repo.Save(q))
	assert.Equal(t, "QuestBoard/quests/training/read-book.md", q.Path)

	ok, err := store.Exists(q.Path)
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err := repo.LoadFile(q.Path)
	require.NoError(t, err)
	assert.Equal(t, q.QuestName, loaded.QuestName)

	q.Status = models.StatusActive
	require.NoError(t, repo.Save(q))
	loaded, err = repo.LoadFile(q.Path)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, loaded.Status)
}

func TestSaveRejectsInvalid(t *testing.T) {
	repo, _ := newTestRepo(t)
	q := &models.Quest{QuestID: "Not Kebab", Kind: models.KindManual, Manual: &models.ManualDetails{}}
	assert.Error(t, repo.Save(q))
}

func TestDelete(t *testing.T) {
	repo, store := newTestRepo(t)
	require.NoError(t, store.MkdirAll("QuestBoard/quests/side"))
	require.NoError(t, store.WriteFile("QuestBoard/quests/side/gone.md", manualFile("gone", "side")))

	ok, err := repo.Delete("gone", models.KindManual)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete("gone", models.KindManual)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSections_MissingFileIsBenign(t *testing.T) {
	repo, store := newTestRepo(t)
	require.NoError(t, store.WriteFile("tasks.md", "# A\n- [x] one\n- [ ] two\n"))
	q := &models.Quest{
		QuestID: "q",
		Kind:    models.KindManual,
		Manual:  &models.ManualDetails{LinkedTaskFile: "tasks.md", AdditionalFiles: []string{"missing.md"}},
	}
	secs, err := repo.Sections(q)
	require.NoError(t, err)
	require.Len(t, secs, 1)
	assert.Equal(t, 50, secs[0].Completion.Percent)
}
