// Package quest loads quest files from the vault into validated records and
// writes them back to the folder their type belongs to.
package quest

import (
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/josephgoksu/QuestWing/internal/codec"
	"github.com/josephgoksu/QuestWing/internal/storage"
	"github.com/josephgoksu/QuestWing/internal/tasks"
	"github.com/josephgoksu/QuestWing/models"
)

// ErrNotFound is returned when a quest id is not in the cache or on disk.
var ErrNotFound = errors.New("quest not found")

// QuestsDir is the folder under the base folder that holds typed sub-folders.
const QuestsDir = "quests"

// typeFolders maps each quest type to its sub-folder name.
var typeFolders = map[models.QuestType]string{
	models.QuestTypeMain:      "main",
	models.QuestTypeTraining:  "training",
	models.QuestTypeSide:      "side",
	models.QuestTypeGenerated: "ai-generated",
}

// LoadResult is the outcome of a load pass: every quest that decoded and
// validated, plus one human-readable message per file that did not.
type LoadResult struct {
	Quests []*models.Quest
	Errors []string
}

// Repository reads and writes quest files through a Storage.
type Repository struct {
	store      storage.Storage
	baseFolder string
}

// NewRepository creates a repository rooted at baseFolder inside the vault.
func NewRepository(store storage.Storage, baseFolder string) *Repository {
	return &Repository{store: store, baseFolder: storage.Clean(baseFolder)}
}

// BaseFolder returns the vault-relative base folder.
func (r *Repository) BaseFolder() string { return r.baseFolder }

// Storage returns the underlying storage.
func (r *Repository) Storage() storage.Storage { return r.store }

// FolderFor returns the folder a quest of the given type is saved into.
func (r *Repository) FolderFor(t models.QuestType) string {
	sub, ok := typeFolders[t]
	if !ok {
		sub = typeFolders[models.QuestTypeSide]
	}
	return path.Join(r.baseFolder, QuestsDir, sub)
}

// Folders returns every folder scanned by LoadAll, most specific first.
func (r *Repository) Folders() []string {
	folders := make([]string, 0, len(typeFolders)+2)
	for _, t := range []models.QuestType{models.QuestTypeMain, models.QuestTypeTraining, models.QuestTypeSide, models.QuestTypeGenerated} {
		folders = append(folders, r.FolderFor(t))
	}
	return append(folders, path.Join(r.baseFolder, QuestsDir), r.baseFolder)
}

// LoadAll reads every quest file in the known folders. A file that fails to
// decode or validate is reported in Errors and never aborts the pass. Files
// without a frontmatter block are ordinary notes and are skipped silently.
func (r *Repository) LoadAll() (*LoadResult, error) {
	result := &LoadResult{}
	seen := make(map[string]string)

	for _, folder := range r.Folders() {
		files, err := r.store.ListFiles(folder)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", folder, err))
			continue
		}
		for _, file := range files {
			if !codec.IsQuestFile(file) {
				continue
			}
			q, err := r.LoadFile(file)
			if errors.Is(err, codec.ErrNoFrontmatter) {
				continue
			}
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file, err))
				continue
			}
			if prev, dup := seen[q.QuestID]; dup {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: duplicate questId %q (already loaded from %s)", file, q.QuestID, prev))
				continue
			}
			seen[q.QuestID] = file
			result.Quests = append(result.Quests, q)
		}
	}

	if len(result.Errors) > 0 {
		slog.Warn("quest load finished with errors", "loaded", len(result.Quests), "failed", len(result.Errors))
		for _, msg := range result.Errors {
			slog.Debug("skipped quest file", "reason", msg)
		}
	}
	return result, nil
}

// LoadFile decodes and validates a single quest file.
func (r *Repository) LoadFile(p string) (*models.Quest, error) {
	p = storage.Clean(p)
	content, err := r.store.ReadFile(p)
	if err != nil {
		return nil, err
	}
	q, err := codec.Decode(content, p)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateQuest(q); err != nil {
		return nil, err
	}
	return q, nil
}

// PathFor returns where the quest will be written. A quest that already has
// a backing file keeps it; a new quest goes to its type folder.
func (r *Repository) PathFor(q *models.Quest) string {
	if q.Path != "" {
		return storage.Clean(q.Path)
	}
	return path.Join(r.FolderFor(q.QuestType), q.QuestID+codec.Extension(q))
}

// Save validates and writes the quest, creating its folder when missing.
// On success q.Path is set to the written file.
func (r *Repository) Save(q *models.Quest) error {
	if err := models.ValidateQuest(q); err != nil {
		return err
	}
	content, err := codec.Encode(q)
	if err != nil {
		return err
	}
	target := r.PathFor(q)
	if err := r.store.MkdirAll(path.Dir(target)); err != nil {
		return err
	}
	if err := r.store.WriteFile(target, content); err != nil {
		return err
	}
	q.Path = target
	return nil
}

// Delete removes the file for questID. The kind hint decides which folders
// are searched first. It reports false when no file was found, which is not
// an error.
func (r *Repository) Delete(questID string, hint models.QuestKind) (bool, error) {
	exts := []string{codec.ExtMarkdown, codec.ExtJSON}
	if hint == models.KindGenerated {
		exts = []string{codec.ExtJSON, codec.ExtMarkdown}
	}
	for _, ext := range exts {
		for _, folder := range r.Folders() {
			candidate := path.Join(folder, questID+ext)
			ok, err := r.store.Exists(candidate)
			if err != nil {
				return false, err
			}
			if !ok {
				continue
			}
			if err := r.store.Remove(candidate); err != nil {
				if errors.Is(err, storage.ErrNotExist) {
					return false, nil
				}
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Sections parses every task file linked to the quest. Missing files are
// skipped; a quest may point at a file that does not exist yet.
func (r *Repository) Sections(q *models.Quest) ([]tasks.Section, error) {
	var out []tasks.Section
	for _, f := range q.TaskFiles() {
		text, err := r.store.ReadFile(NormalizeTaskPath(f))
		if errors.Is(err, storage.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, tasks.Sections(text)...)
	}
	return out, nil
}
