package registry

import (
	"io"
	"log/slog"
	"reflect"
	"sync"
)

// SyncRegistry is the shared-ownership variant, safe for concurrent use.
//
// GetOrInsert holds a lock scoped to the requested type while it looks up and
// possibly constructs the entry, so the constructor runs at most once per
// type, constructors for different types never serialize against each other,
// and the registry-wide lock is never held across user code. The per-type
// locks are created on demand and pruned as soon as nobody references them.
type SyncRegistry struct {
	mu      sync.RWMutex
	storage map[reflect.Type]Item

	locksMu sync.Mutex
	locks   map[reflect.Type]*typeLock

	logger *slog.Logger
}

// typeLock serializes GetOrInsert calls for one type. refs counts the calls
// currently holding or waiting for it and is guarded by SyncRegistry.locksMu;
// held and cond are guarded by mu.
type typeLock struct {
	mu   sync.Mutex
	cond *sync.Cond
	held bool
	refs int
}

// Option configures a SyncRegistry.
type Option func(*SyncRegistry)

// WithLogger sets the logger used for debug-level registry events. The
// default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *SyncRegistry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewSync creates an empty concurrent registry.
func NewSync(opts ...Option) *SyncRegistry {
	r := &SyncRegistry{
		storage: make(map[reflect.Type]Item),
		locks:   make(map[reflect.Type]*typeLock),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *SyncRegistry) lookup(t reflect.Type) (Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.storage[t]

	return it, ok
}

func (r *SyncRegistry) insert(t reflect.Type, it Item) (Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.storage[t]
	r.storage[t] = it

	return old, ok
}

func (r *SyncRegistry) remove(t reflect.Type) (Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.storage[t]
	if ok {
		delete(r.storage, t)
	}

	return it, ok
}

func (r *SyncRegistry) getOrInsert(t reflect.Type, create func() Item) Item {
	unlock := r.lockType(t)
	defer unlock()

	r.mu.RLock()
	it, ok := r.storage[t]
	r.mu.RUnlock()
	if ok {
		return it
	}

	// Only the holder of the per-type lock can reach this point for t, so
	// create runs exactly once even with concurrent callers. The registry
	// lock is NOT held while user code runs.
	it = create()

	r.mu.Lock()
	r.storage[t] = it
	r.mu.Unlock()

	r.logger.Debug("registry entry constructed", "type", t.String())

	return it
}

// lockType acquires the construction lock for t and returns the matching
// release function. The lock-map mutex is dropped before blocking on the
// per-type lock, so callers for other types pass by freely.
func (r *SyncRegistry) lockType(t reflect.Type) (unlock func()) {
	r.locksMu.Lock()
	l, ok := r.locks[t]
	if !ok {
		l = &typeLock{}
		l.cond = sync.NewCond(&l.mu)
		r.locks[t] = l
	}
	l.refs++
	r.locksMu.Unlock()

	l.mu.Lock()
	for l.held {
		l.cond.Wait()
	}
	l.held = true
	l.mu.Unlock()

	return func() {
		r.locksMu.Lock()
		defer r.locksMu.Unlock()

		l.refs--
		if l.refs == 0 {
			// Nobody is waiting for this type; prune the entry to keep the
			// lock map bounded by the number of in-flight types.
			delete(r.locks, t)
			return
		}

		l.mu.Lock()
		l.held = false
		l.mu.Unlock()
		l.cond.Signal()
	}
}

// Items returns a snapshot of all entries, ordered by type name.
func (r *SyncRegistry) Items() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return snapshotItems(r.storage)
}

// Len returns the number of entries.
func (r *SyncRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.storage)
}

// pendingTypeLocks reports the size of the construction-lock map; it exists
// for tests of the pruning behavior.
func (r *SyncRegistry) pendingTypeLocks() int {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	return len(r.locks)
}
