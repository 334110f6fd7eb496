// Package callback implements a synchronous event registry: Trigger invokes
// every live subscribed callback with the event, in registration (slot)
// order, on the triggering goroutine. Cancelling a subscription never mutates
// the callback arena directly — a cancel may run on any goroutine while
// another is mid-trigger — so it only records the slot for removal, and the
// next Trigger drains those records before iterating.
package callback

import (
	"sync"

	"github.com/bytifex/bytifex-utils/arena"
)

type callbackSet[T any] struct {
	mu        sync.Mutex
	callbacks arena.Arena[func(*T)]

	pendingMu sync.Mutex
	pending   []arena.Index
}

// Arena lock first, pending-list lock second; Cancel only ever takes the
// pending-list lock.
func (s *callbackSet[T]) drainPendingLocked() {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	for _, ix := range s.pending {
		s.callbacks.Release(ix)
	}
	s.pending = s.pending[:0]
}

// Sender triggers the registered callbacks. Safe for concurrent use, but the
// callbacks themselves must not subscribe to or trigger the same registry, or
// they deadlock on its lock.
type Sender[T any] struct {
	set *callbackSet[T]
}

// New creates an empty callback registry and returns its sender.
func New[T any]() *Sender[T] {
	return &Sender[T]{set: &callbackSet[T]{}}
}

// Clone returns a sender sharing the same callback set.
func (s *Sender[T]) Clone() *Sender[T] {
	return &Sender[T]{set: s.set}
}

// NewSubscriber derives a handle that can register callbacks on this
// registry.
func (s *Sender[T]) NewSubscriber() *Subscriber[T] {
	return &Subscriber[T]{set: s.set}
}

// Trigger synchronously invokes every live callback with event, oldest
// registration first, after draining the cancelled ones.
func (s *Sender[T]) Trigger(event *T) {
	s.set.mu.Lock()
	defer s.set.mu.Unlock()

	s.set.drainPendingLocked()

	s.set.callbacks.Range(func(_ arena.Index, fn *func(*T)) bool {
		(*fn)(event)
		return true
	})
}

// Subscriber registers callbacks on a registry.
type Subscriber[T any] struct {
	set *callbackSet[T]
}

// Subscribe registers fn and returns its subscription handle. fn runs on
// whatever goroutine calls Trigger.
func (s *Subscriber[T]) Subscribe(fn func(*T)) *Subscription[T] {
	s.set.mu.Lock()
	ix := s.set.callbacks.Alloc(fn)
	s.set.mu.Unlock()

	return &Subscription[T]{set: s.set, index: ix}
}

// Subscription is the handle to one registered callback.
type Subscription[T any] struct {
	set   *callbackSet[T]
	index arena.Index
}

// Cancel marks the callback for removal; the next Trigger releases the slot
// before iterating, so the callback is never invoked again. Cancel is
// idempotent and safe to call from any goroutine, including concurrently with
// a trigger.
func (s *Subscription[T]) Cancel() {
	s.set.pendingMu.Lock()
	s.set.pending = append(s.set.pending, s.index.Invalidate())
	s.set.pendingMu.Unlock()
}
