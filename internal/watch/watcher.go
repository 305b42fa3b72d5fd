package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Config holds the watcher settings.
type Config struct {
	// VaultRoot is the directory on disk that vault paths are relative to.
	VaultRoot string
	// Folders are vault-relative quest folders to watch.
	Folders  []string
	Debounce time.Duration
}

// Watcher turns fsnotify events into debounced batches and drains them on a
// single goroutine, so reconcile steps never run concurrently.
type Watcher struct {
	cfg        Config
	watcher    *fsnotify.Watcher
	rec        *Reconciler
	debouncers map[string]*ChangeDebouncer
	ready      chan []Event
	watched    map[string]bool
	mu         sync.Mutex

	// OnBatch, when set, runs on the loop goroutine after each applied batch.
	OnBatch func([]Action)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher feeding rec.
func NewWatcher(cfg Config, rec *Reconciler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		cfg:        cfg,
		watcher:    fsw,
		rec:        rec,
		debouncers: make(map[string]*ChangeDebouncer),
		ready:      make(chan []Event, 16),
		watched:    make(map[string]bool),
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Start adds the quest folders and linked task-file folders and begins the
// reconcile loop.
func (w *Watcher) Start() error {
	for _, f := range w.cfg.Folders {
		if err := w.addFolder(f); err != nil {
			return fmt.Errorf("add watch paths: %w", err)
		}
	}
	w.syncLinkedFolders()

	w.wg.Add(1)
	go w.eventLoop()
	return nil
}

// Stop ends the loop and releases the OS watcher.
func (w *Watcher) Stop() {
	w.cancel()
	_ = w.watcher.Close()
	w.mu.Lock()
	for _, d := range w.debouncers {
		d.Stop()
	}
	w.mu.Unlock()
	w.wg.Wait()
}

// Watched returns the vault-relative folders currently registered.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.watched))
	for f := range w.watched {
		out = append(out, f)
	}
	return out
}

func (w *Watcher) addFolder(rel string) error {
	rel = path.Clean(rel)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[rel] {
		return nil
	}
	abs := filepath.Join(w.cfg.VaultRoot, filepath.FromSlash(rel))
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		// Missing folders are created on first save and picked up then.
		return nil
	}
	if err := w.watcher.Add(abs); err != nil {
		return err
	}
	w.watched[rel] = true
	slog.Debug("watching folder", "folder", rel)
	return nil
}

func (w *Watcher) syncLinkedFolders() {
	for _, f := range w.rec.Links().Files() {
		if err := w.addFolder(path.Dir(f)); err != nil {
			slog.Warn("watch linked folder", "file", f, "error", err)
		}
	}
	for _, f := range w.cfg.Folders {
		_ = w.addFolder(f)
	}
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case batch := <-w.ready:
			w.apply(batch)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watch error", "error", err)

		case <-w.ctx.Done():
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	rel, err := filepath.Rel(w.cfg.VaultRoot, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(path.Base(rel), ".") {
		return
	}

	var op Op
	switch {
	case event.Op&fsnotify.Create != 0:
		op = OpCreate
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return
		}
	case event.Op&fsnotify.Remove != 0:
		op = OpDelete
	case event.Op&fsnotify.Rename != 0:
		op = OpRename
	case event.Op&fsnotify.Write != 0:
		op = OpModify
	default:
		return
	}

	root := path.Dir(rel)
	w.debouncerFor(root).Add(Event{Path: rel, Op: op, Root: root, Timestamp: time.Now()})
}

func (w *Watcher) debouncerFor(root string) *ChangeDebouncer {
	w.mu.Lock()
	defer w.mu.Unlock()
	d, ok := w.debouncers[root]
	if !ok {
		d = NewChangeDebouncer(w.cfg.Debounce, func(batch []Event) {
			select {
			case w.ready <- batch:
			case <-w.ctx.Done():
			}
		})
		w.debouncers[root] = d
	}
	return d
}

func (w *Watcher) apply(batch []Event) {
	actions := Coalesce(batch)
	for _, a := range actions {
		out := w.rec.Apply(a)
		slog.Debug("reconciled", "op", a.Op.String(), "path", a.Path, "outcome", out.String())
	}
	// New quests may link task files in folders not yet watched.
	w.syncLinkedFolders()
	if w.OnBatch != nil {
		w.OnBatch(actions)
	}
}
