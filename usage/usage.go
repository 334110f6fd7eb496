// Package usage provides a cloneable liveness token and a non-owning watcher
// over it. Channels use the pair to let the consuming side detect that every
// producer has gone away without an explicit close handshake: producers hold
// Counter clones, consumers probe the shared count through a Watcher.
package usage

import "sync/atomic"

type state struct {
	count atomic.Int64
}

// Counter is one strong holder of a shared liveness count. Clone adds a
// holder, Release removes one. The zero value is not usable; call New.
type Counter struct {
	s *state
}

// New creates a counter with a single holder.
func New() Counter {
	s := &state{}
	s.count.Store(1)

	return Counter{s: s}
}

// Clone registers a new holder sharing the same count.
func (c Counter) Clone() Counter {
	c.s.count.Add(1)

	return Counter{s: c.s}
}

// Release drops this holder and returns the number of holders left. Releasing
// more holders than were ever created is a programming error and panics.
func (c Counter) Release() int {
	n := c.s.count.Add(-1)
	if n < 0 {
		panic("usage: Release called on an already released counter")
	}

	return int(n)
}

// Usages returns the current number of holders.
func (c Counter) Usages() int {
	return int(c.s.count.Load())
}

// IsLast reports whether this is the only holder left.
func (c Counter) IsLast() bool {
	return c.s.count.Load() == 1
}

// Watcher derives a non-owning observer of the count.
func (c Counter) Watcher() Watcher {
	return Watcher{s: c.s}
}

// Watcher observes a counter's holder count without keeping it alive. It is
// freely copyable.
type Watcher struct {
	s *state
}

// LastRemaining reports whether exactly one holder is left. The watcher itself
// is not counted.
func (w Watcher) LastRemaining() bool {
	return w.s.count.Load() == 1
}

// Dropped reports whether no holders are left.
func (w Watcher) Dropped() bool {
	return w.s.count.Load() == 0
}
