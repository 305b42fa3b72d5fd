package watch

import (
	"sort"
	"sync"

	"github.com/josephgoksu/QuestWing/internal/quest"
	"github.com/josephgoksu/QuestWing/models"
)

// LinkIndex maps task-file paths to the quests that link them, so an edit
// to a checklist outside the quest folders refreshes only those quests.
type LinkIndex struct {
	mu     sync.RWMutex
	byFile map[string]map[string]struct{}
	byID   map[string][]string
}

// NewLinkIndex returns an empty index.
func NewLinkIndex() *LinkIndex {
	return &LinkIndex{
		byFile: make(map[string]map[string]struct{}),
		byID:   make(map[string][]string),
	}
}

// Rebuild replaces the index from a full quest list.
func (l *LinkIndex) Rebuild(quests []*models.Quest) {
	l.mu.Lock()
	l.byFile = make(map[string]map[string]struct{})
	l.byID = make(map[string][]string)
	l.mu.Unlock()
	for _, q := range quests {
		l.Set(q)
	}
}

// Set records the task files of q, replacing any previous entry for its id.
func (l *LinkIndex) Set(q *models.Quest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removeLocked(q.QuestID)
	var files []string
	for _, f := range q.TaskFiles() {
		p := quest.NormalizeTaskPath(f)
		if p == "" {
			continue
		}
		if l.byFile[p] == nil {
			l.byFile[p] = make(map[string]struct{})
		}
		l.byFile[p][q.QuestID] = struct{}{}
		files = append(files, p)
	}
	if len(files) > 0 {
		l.byID[q.QuestID] = files
	}
}

// Remove forgets every link owned by id.
func (l *LinkIndex) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removeLocked(id)
}

func (l *LinkIndex) removeLocked(id string) {
	for _, f := range l.byID[id] {
		delete(l.byFile[f], id)
		if len(l.byFile[f]) == 0 {
			delete(l.byFile, f)
		}
	}
	delete(l.byID, id)
}

// Quests returns the ids linked to the task file at p, sorted.
func (l *LinkIndex) Quests(p string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	set := l.byFile[quest.NormalizeTaskPath(p)]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Files returns every linked task file, sorted.
func (l *LinkIndex) Files() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.byFile))
	for f := range l.byFile {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
