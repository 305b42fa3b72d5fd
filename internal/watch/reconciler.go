package watch

import (
	"crypto/md5"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/josephgoksu/QuestWing/internal/codec"
	"github.com/josephgoksu/QuestWing/internal/quest"
	"github.com/josephgoksu/QuestWing/internal/storage"
	"github.com/josephgoksu/QuestWing/models"
)

// Outcome reports what a granular handler did, mostly for tests and logs.
type Outcome int

const (
	Ignored Outcome = iota
	Suppressed
	Upserted
	Removed
	SectionsRefreshed
	Rejected
)

func (o Outcome) String() string {
	return [...]string{"ignored", "suppressed", "upserted", "removed", "sections", "rejected"}[o]
}

// Reconciler applies single-file events to the cache. It never rescans a
// folder; each handler resolves exactly the file it was given.
type Reconciler struct {
	repo    *quest.Repository
	cache   *quest.Cache
	pending *PendingSaves
	links   *LinkIndex
	hashes  *ContentHashTracker
	logger  *slog.Logger
}

// NewReconciler wires a reconciler over the shared cache and pending set.
func NewReconciler(repo *quest.Repository, cache *quest.Cache, pending *PendingSaves, links *LinkIndex) *Reconciler {
	return &Reconciler{
		repo:    repo,
		cache:   cache,
		pending: pending,
		links:   links,
		hashes:  NewContentHashTracker(repo.Storage()),
		logger:  slog.Default().With("component", "reconciler"),
	}
}

// Links exposes the linked-file index.
func (r *Reconciler) Links() *LinkIndex { return r.links }

// Apply dispatches one coalesced action.
func (r *Reconciler) Apply(a Action) Outcome {
	switch a.Op {
	case OpCreate:
		return r.OnCreated(a.Path)
	case OpModify:
		return r.OnModified(a.Path)
	case OpDelete:
		return r.OnDeleted(a.Path)
	case OpRename:
		return r.OnRenamed(a.OldPath, a.Path)
	}
	return Ignored
}

// OnCreated handles a new file.
func (r *Reconciler) OnCreated(p string) Outcome {
	return r.reload(storage.Clean(p))
}

// OnModified handles an edit. Quests with a write in flight are skipped: the
// content on disk is the state being written, not an external edit.
func (r *Reconciler) OnModified(p string) Outcome {
	return r.reload(storage.Clean(p))
}

func (r *Reconciler) reload(p string) Outcome {
	if ids := r.links.Quests(p); len(ids) > 0 {
		r.refreshSections(ids)
		if !codec.IsQuestFile(p) {
			return SectionsRefreshed
		}
		if _, isQuest := r.cache.IDForPath(p); !isQuest {
			return SectionsRefreshed
		}
	}
	if !codec.IsQuestFile(p) {
		return Ignored
	}

	if id, ok := r.cache.IDForPath(p); ok && r.pending.Has(id) {
		return r.suppress(p, id)
	}
	if id := codec.IDFromPath(p); r.pending.Has(id) {
		return r.suppress(p, id)
	}
	if !r.hashes.HasChanged(p) {
		return Ignored
	}

	q, err := r.repo.LoadFile(p)
	switch {
	case errors.Is(err, storage.ErrNotExist):
		return r.OnDeleted(p)
	case errors.Is(err, codec.ErrNoFrontmatter):
		if _, ok := r.cache.IDForPath(p); ok {
			return r.remove(p)
		}
		return Ignored
	case err != nil:
		// Keep the last good copy; the user is probably mid-edit.
		r.logger.Warn("invalid quest file", "path", p, "error", err)
		return Rejected
	}
	if r.pending.Has(q.QuestID) {
		return r.suppress(p, q.QuestID)
	}

	if oldID, ok := r.cache.IDForPath(p); ok && oldID != q.QuestID {
		r.cache.Remove(oldID)
		r.links.Remove(oldID)
	}
	if existing, ok := r.cache.Get(q.QuestID); ok && existing.Path != "" && storage.Clean(existing.Path) != p {
		r.logger.Warn("quest id claimed by another file", "quest", q.QuestID, "path", p, "existing", existing.Path)
		return Rejected
	}
	r.cache.Put(q)
	r.links.Set(q)
	r.refreshSections([]string{q.QuestID})
	return Upserted
}

// suppress skips a self-issued write but still records its digest, so a
// later revert to the previous bytes counts as a change.
func (r *Reconciler) suppress(p, id string) Outcome {
	r.hashes.Record(p)
	r.logger.Debug("skip self-issued write", "path", p, "quest", id)
	return Suppressed
}

// OnDeleted removes the quest backed by p, or refreshes the quests that
// linked p as a task file.
func (r *Reconciler) OnDeleted(p string) Outcome {
	p = storage.Clean(p)
	r.hashes.Remove(p)
	if ids := r.links.Quests(p); len(ids) > 0 {
		r.refreshSections(ids)
		if _, isQuest := r.cache.IDForPath(p); !isQuest {
			return SectionsRefreshed
		}
	}
	if !codec.IsQuestFile(p) {
		return Ignored
	}
	return r.remove(p)
}

func (r *Reconciler) remove(p string) Outcome {
	id, ok := r.cache.IDForPath(p)
	if !ok {
		id = codec.IDFromPath(p)
		q, found := r.cache.Get(id)
		if !found || (q.Path != "" && storage.Clean(q.Path) != p) {
			return Ignored
		}
	}
	r.cache.Remove(id)
	r.links.Remove(id)
	return Removed
}

// OnRenamed drops the entry for the old name and loads the new one. A
// rename that also changes questId never leaves two entries.
func (r *Reconciler) OnRenamed(oldPath, newPath string) Outcome {
	oldPath = storage.Clean(oldPath)
	r.hashes.Remove(oldPath)
	if ids := r.links.Quests(oldPath); len(ids) > 0 {
		r.refreshSections(ids)
	}
	removed := Ignored
	if codec.IsQuestFile(oldPath) {
		removed = r.remove(oldPath)
	}
	out := r.reload(storage.Clean(newPath))
	if out == Ignored || out == Rejected {
		return removed
	}
	return out
}

func (r *Reconciler) refreshSections(ids []string) {
	for _, id := range ids {
		q, ok := r.cache.Get(id)
		if !ok {
			continue
		}
		secs, err := r.repo.Sections(q)
		if err != nil {
			r.logger.Warn("read task file", "quest", id, "error", err)
			continue
		}
		r.cache.SetSections(id, secs)
	}
}

// ContentHashTracker remembers a digest per file so metadata-only events
// (touch, chmod relayed as write) do not trigger a reload.
type ContentHashTracker struct {
	store  storage.Storage
	hashes map[string]string
	mu     sync.RWMutex
}

// NewContentHashTracker creates a tracker reading through store.
func NewContentHashTracker(store storage.Storage) *ContentHashTracker {
	return &ContentHashTracker{store: store, hashes: make(map[string]string)}
}

// HasChanged reports whether the file differs from the last digest seen.
// Unreadable files count as changed so the caller can handle the error.
func (t *ContentHashTracker) HasChanged(p string) bool {
	content, err := t.store.ReadFile(p)
	if err != nil {
		t.Remove(p)
		return true
	}
	sum := fmt.Sprintf("%x", md5.Sum([]byte(content)))

	t.mu.Lock()
	defer t.mu.Unlock()
	old, ok := t.hashes[p]
	t.hashes[p] = sum
	return !ok || old != sum
}

// Record stores the current digest of p without reporting a change.
func (t *ContentHashTracker) Record(p string) {
	t.HasChanged(p)
}

// Remove forgets the digest for p.
func (t *ContentHashTracker) Remove(p string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.hashes, p)
}

// Seed records the current digest of every cached quest file.
func (t *ContentHashTracker) Seed(quests []*models.Quest) {
	for _, q := range quests {
		if q.Path != "" {
			t.HasChanged(storage.Clean(q.Path))
		}
	}
}

// Seed primes the content tracker after a full load.
func (r *Reconciler) Seed(quests []*models.Quest) {
	r.links.Rebuild(quests)
	r.hashes.Seed(quests)
}
