package watch

import (
	"sync"
	"time"
)

// DefaultDebounce coalesces the burst of events an editor emits per save.
const DefaultDebounce = 300 * time.Millisecond

// Op is a file event kind after translation from the OS notifier.
type Op int

const (
	OpCreate Op = iota + 1
	OpModify
	OpDelete
	OpRename
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpModify:
		return "modify"
	case OpDelete:
		return "delete"
	case OpRename:
		return "rename"
	}
	return "unknown"
}

// Event is a vault-relative file event. For OpRename, Path is the old name;
// the new name arrives as a separate OpCreate.
type Event struct {
	Path      string
	Op        Op
	Root      string
	Timestamp time.Time
}

// ChangeDebouncer batches rapid changes under one watched root and hands the
// batch to onFlush once the root has been quiet for the delay.
type ChangeDebouncer struct {
	pending []Event
	timer   *time.Timer
	mu      sync.Mutex
	onFlush func([]Event)
	delay   time.Duration
	stopped bool
}

// NewChangeDebouncer creates a debouncer with the given flush callback.
func NewChangeDebouncer(delay time.Duration, onFlush func([]Event)) *ChangeDebouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &ChangeDebouncer{
		pending: make([]Event, 0),
		onFlush: onFlush,
		delay:   delay,
	}
}

// Add queues an event and restarts the quiet-period timer.
func (d *ChangeDebouncer) Add(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending = append(d.pending, ev)

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *ChangeDebouncer) flush() {
	d.mu.Lock()
	events := d.pending
	d.pending = make([]Event, 0)
	stopped := d.stopped
	d.mu.Unlock()

	if !stopped && len(events) > 0 && d.onFlush != nil {
		d.onFlush(events)
	}
}

// Stop cancels any pending flush and drops queued events.
func (d *ChangeDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = nil
}

// Action is one granular reconcile step derived from a batch.
type Action struct {
	Op      Op
	Path    string
	OldPath string // set for OpRename
}

// Coalesce reduces a debounced batch to one action per path, in first-seen
// order. A rename followed by a create in the same batch becomes a single
// OpRename carrying both names; an unpaired rename is a delete.
func Coalesce(batch []Event) []Action {
	var order []string
	latest := make(map[string]Op)
	for _, ev := range batch {
		prev, seen := latest[ev.Path]
		if !seen {
			order = append(order, ev.Path)
			latest[ev.Path] = ev.Op
			continue
		}
		switch {
		case prev == OpCreate && ev.Op == OpModify:
			// still a create
		case prev == OpDelete && ev.Op == OpCreate:
			// delete then recreate is an in-place rewrite
			latest[ev.Path] = OpModify
		default:
			latest[ev.Path] = ev.Op
		}
	}

	var renamed []string
	var actions []Action
	for _, p := range order {
		switch latest[p] {
		case OpRename:
			renamed = append(renamed, p)
		case OpCreate:
			if len(renamed) > 0 {
				old := renamed[0]
				renamed = renamed[1:]
				actions = append(actions, Action{Op: OpRename, Path: p, OldPath: old})
				continue
			}
			actions = append(actions, Action{Op: OpCreate, Path: p})
		default:
			actions = append(actions, Action{Op: latest[p], Path: p})
		}
	}
	for _, old := range renamed {
		actions = append(actions, Action{Op: OpDelete, Path: old})
	}
	return actions
}
