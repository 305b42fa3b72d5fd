package quest

import (
	"sort"
	"strings"
	"sync"

	"github.com/josephgoksu/QuestWing/internal/storage"
	"github.com/josephgoksu/QuestWing/internal/tasks"
	"github.com/josephgoksu/QuestWing/models"
)

// ChangeKind describes what happened to a cache entry.
type ChangeKind int

const (
	ChangeReloaded ChangeKind = iota
	ChangeUpserted
	ChangeRemoved
	ChangeSections
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeReloaded:
		return "reloaded"
	case ChangeUpserted:
		return "upserted"
	case ChangeRemoved:
		return "removed"
	case ChangeSections:
		return "sections"
	}
	return "unknown"
}

// Change is delivered to observers after the cache is mutated.
type Change struct {
	Kind    ChangeKind
	QuestID string
}

// Observer receives cache changes. It runs on the goroutine that made the
// change and must not call back into a mutating cache method.
type Observer func(Change)

// Cache is the process-wide read model: quests by id, parsed task sections
// by quest id, and a file-path index used to resolve watcher events. Every
// value handed out is a copy.
type Cache struct {
	mu        sync.RWMutex
	quests    map[string]*models.Quest
	paths     map[string]string
	sections  map[string][]tasks.Section
	observers map[int]Observer
	nextObs   int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		quests:    make(map[string]*models.Quest),
		paths:     make(map[string]string),
		sections:  make(map[string][]tasks.Section),
		observers: make(map[int]Observer),
	}
}

// Subscribe registers an observer and returns a function that removes it.
func (c *Cache) Subscribe(fn Observer) func() {
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *Cache) notify(ch Change) {
	c.mu.RLock()
	obs := make([]Observer, 0, len(c.observers))
	for _, fn := range c.observers {
		obs = append(obs, fn)
	}
	c.mu.RUnlock()
	for _, fn := range obs {
		fn(ch)
	}
}

// Replace swaps the whole collection, as after a full load pass.
func (c *Cache) Replace(quests []*models.Quest) {
	c.mu.Lock()
	c.quests = make(map[string]*models.Quest, len(quests))
	c.paths = make(map[string]string, len(quests))
	for _, q := range quests {
		c.putLocked(q.Clone())
	}
	for id := range c.sections {
		if _, ok := c.quests[id]; !ok {
			delete(c.sections, id)
		}
	}
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeReloaded})
}

func (c *Cache) putLocked(q *models.Quest) {
	if prev, ok := c.quests[q.QuestID]; ok && prev.Path != "" {
		delete(c.paths, storage.Clean(prev.Path))
	}
	c.quests[q.QuestID] = q
	if q.Path != "" {
		c.paths[storage.Clean(q.Path)] = q.QuestID
	}
}

// Put inserts or replaces a quest.
func (c *Cache) Put(q *models.Quest) {
	c.mu.Lock()
	c.putLocked(q.Clone())
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeUpserted, QuestID: q.QuestID})
}

// Remove deletes a quest and its sections. It reports whether it was present.
func (c *Cache) Remove(id string) bool {
	c.mu.Lock()
	q, ok := c.quests[id]
	if ok {
		delete(c.quests, id)
		delete(c.sections, id)
		if q.Path != "" {
			delete(c.paths, storage.Clean(q.Path))
		}
	}
	c.mu.Unlock()
	if ok {
		c.notify(Change{Kind: ChangeRemoved, QuestID: id})
	}
	return ok
}

// Get returns a copy of the quest with the given id.
func (c *Cache) Get(id string) (*models.Quest, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quests[id]
	if !ok {
		return nil, false
	}
	return q.Clone(), true
}

// IDForPath resolves the quest backed by the file at p.
func (c *Cache) IDForPath(p string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.paths[storage.Clean(p)]
	return id, ok
}

// Len returns the number of cached quests.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.quests)
}

// All returns copies of every quest in board order: status column, then
// sort order, then name.
func (c *Cache) All() []*models.Quest {
	c.mu.RLock()
	out := make([]*models.Quest, 0, len(c.quests))
	for _, q := range c.quests {
		out = append(out, q.Clone())
	}
	c.mu.RUnlock()
	SortBoard(out)
	return out
}

// ByStatus returns the quests in one board column.
func (c *Cache) ByStatus(status models.QuestStatus) []*models.Quest {
	var out []*models.Quest
	for _, q := range c.All() {
		if q.Status == status {
			out = append(out, q)
		}
	}
	return out
}

// SetSections stores the parsed task sections of a quest.
func (c *Cache) SetSections(id string, secs []tasks.Section) {
	c.mu.Lock()
	c.sections[id] = secs
	c.mu.Unlock()
	c.notify(Change{Kind: ChangeSections, QuestID: id})
}

// Sections returns the cached task sections of a quest.
func (c *Cache) Sections(id string) ([]tasks.Section, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	secs, ok := c.sections[id]
	if !ok {
		return nil, false
	}
	return append([]tasks.Section(nil), secs...), true
}

// SortBoard orders quests by status column, sort order, then name.
func SortBoard(qs []*models.Quest) {
	rank := make(map[models.QuestStatus]int, len(models.Statuses))
	for i, s := range models.Statuses {
		rank[s] = i
	}
	sort.SliceStable(qs, func(i, j int) bool {
		a, b := qs[i], qs[j]
		if rank[a.Status] != rank[b.Status] {
			return rank[a.Status] < rank[b.Status]
		}
		if a.SortOrder() != b.SortOrder() {
			return a.SortOrder() < b.SortOrder()
		}
		return strings.ToLower(a.QuestName) < strings.ToLower(b.QuestName)
	})
}
