package spritepaint

import (
	"iter"
	"slices"
	"sync"
	"sync/atomic"
)

// Registry owns the registered sheets keyed by destination path. It is safe
// for concurrent use: registration may come from a filesystem watcher while
// the host loop ticks and draws.
type Registry struct {
	mu     sync.RWMutex
	sheets map[string]*Sheet
	order  []string // registration order

	// pending is set whenever a sheet gains work: it enters setup, turns
	// outdated or is flagged deleted. Tick clears it before a pass.
	pending atomic.Bool
}

func newRegistry() *Registry {
	return &Registry{sheets: make(map[string]*Sheet)}
}

// Register records a sheet. An unseen destination always starts in setup,
// whatever outdated says. A seen destination takes the new deleted flag, and
// outdated=true sends it back through setup so a changed source gets a fresh
// palette. Register never blocks on image work.
func (r *Registry) Register(fullPath, destination string, outdated, deleted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registerLocked(fullPath, cleanDestination(destination), outdated, deleted)
}

func (r *Registry) registerLocked(fullPath, destination string, outdated, deleted bool) *Sheet {
	s, ok := r.sheets[destination]
	if !ok {
		s = &Sheet{
			reg:         r,
			sourcePath:  fullPath,
			destination: destination,
			state:       StateSetup,
			deleted:     deleted,
		}
		r.sheets[destination] = s
		r.order = append(r.order, destination)
		r.pending.Store(true)
		return s
	}
	s.sourcePath = fullPath
	if deleted && !s.deleted {
		r.pending.Store(true)
	}
	s.deleted = deleted
	if outdated {
		r.pending.Store(true)
		s.lastErr = ""
		if s.busy {
			s.requeueSetup = true
		} else {
			s.state = StateSetup
		}
	}
	return s
}

// Lookup returns the sheet registered under destination.
func (r *Registry) Lookup(destination string) (*Sheet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sheets[cleanDestination(destination)]
	return s, ok
}

// Len returns the number of registered sheets, deleted ones included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sheets)
}

// Outdated yields the sheets that need setup or a recolor, in registration
// order. The set is captured when iteration starts.
func (r *Registry) Outdated() iter.Seq[*Sheet] {
	return func(yield func(*Sheet) bool) {
		r.mu.RLock()
		var pending []*Sheet
		for _, s := range r.all() {
			if !s.deleted && s.outdated() {
				pending = append(pending, s)
			}
		}
		r.mu.RUnlock()
		for _, s := range pending {
			if !yield(s) {
				return
			}
		}
	}
}

// Views snapshots every sheet in registration order.
func (r *Registry) Views() []SheetView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SheetView, 0, len(r.order))
	for _, s := range r.all() {
		out = append(out, s.view())
	}
	return out
}

// PurgeDeleted removes every sheet flagged deleted and hands each one to
// release, outside the lock, so its handles can be freed.
func (r *Registry) PurgeDeleted(release func(*Sheet)) int {
	r.mu.Lock()
	var purged []*Sheet
	for _, s := range r.all() {
		if s.deleted {
			purged = append(purged, s)
		}
	}
	for _, s := range purged {
		r.removeLocked(s)
	}
	r.mu.Unlock()

	for _, s := range purged {
		if release != nil {
			release(s)
		}
	}
	return len(purged)
}

// all returns the sheets in registration order. Callers hold the lock.
func (r *Registry) all() []*Sheet {
	out := make([]*Sheet, 0, len(r.order))
	for _, dest := range r.order {
		out = append(out, r.sheets[dest])
	}
	return out
}

func (r *Registry) removeLocked(s *Sheet) {
	if r.sheets[s.destination] != s {
		return
	}
	delete(r.sheets, s.destination)
	if i := slices.Index(r.order, s.destination); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	s.evicted = true
}
