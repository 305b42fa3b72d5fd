/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com

Package watch keeps the quest cache in step with the vault on disk. File
events are debounced per watched folder, drained by a single reconcile loop
and applied one file at a time. Writes issued by the engine itself are
suppressed through PendingSaves.
*/
package watch

import (
	"sync"
	"time"
)

// DefaultReleaseDelay must stay longer than the debounce window so the
// delayed event produced by our own write is still suppressed.
const DefaultReleaseDelay = 500 * time.Millisecond

// PendingSaves is the set of quest ids with an engine-issued write in
// flight. Ids are reference counted so overlapping saves of the same quest
// stay suppressed until the last one is released.
type PendingSaves struct {
	mu    sync.Mutex
	ids   map[string]int
	delay time.Duration

	// afterFunc is swapped in tests to release synchronously.
	afterFunc func(time.Duration, func())
}

// NewPendingSaves creates a set whose Release waits delay before removing.
func NewPendingSaves(delay time.Duration) *PendingSaves {
	if delay <= 0 {
		delay = DefaultReleaseDelay
	}
	return &PendingSaves{
		ids:   make(map[string]int),
		delay: delay,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Add marks id as being written.
func (p *PendingSaves) Add(id string) {
	p.mu.Lock()
	p.ids[id]++
	p.mu.Unlock()
}

// Release schedules removal of id after the release delay.
func (p *PendingSaves) Release(id string) {
	p.afterFunc(p.delay, func() { p.Remove(id) })
}

// Remove drops one reference to id immediately.
func (p *PendingSaves) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := p.ids[id]; n > 1 {
		p.ids[id] = n - 1
		return
	}
	delete(p.ids, id)
}

// Has reports whether id has a write in flight.
func (p *PendingSaves) Has(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ids[id] > 0
}

// Len returns the number of ids currently held.
func (p *PendingSaves) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ids)
}

// Delay returns the release delay.
func (p *PendingSaves) Delay() time.Duration { return p.delay }
