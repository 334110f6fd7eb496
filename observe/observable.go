// Package observe implements an observable value: a current value plus a set
// of observer callbacks that are invoked synchronously with the new state
// after every replacement or batched mutation.
//
// Value follows the same ownership contract as the arena it builds on: a
// single owner (or an external lock) serializes Set, Get, Observe and Update.
// Cancelling an Observer is the exception — it only records the observer's
// slot on a separately locked removal list, so it is safe from any goroutine,
// even one racing an in-progress notification. The next notification drains
// the list before iterating.
package observe

import (
	"sync"

	"github.com/bytifex/bytifex-utils/arena"
)

// removalList collects observer slots whose removal is deferred to the next
// notification.
type removalList struct {
	mu      sync.Mutex
	indices []arena.Index
}

func (l *removalList) add(ix arena.Index) {
	l.mu.Lock()
	l.indices = append(l.indices, ix)
	l.mu.Unlock()
}

// Value holds a current value and notifies its observers on every change.
type Value[T any] struct {
	value     T
	observers arena.Arena[func(*T)]
	removals  removalList
}

// NewValue creates an observable holding initial. Observers are only notified
// of later changes.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

// Set replaces the value and synchronously notifies every observer with the
// new state.
func (v *Value[T]) Set(value T) {
	v.value = value
	v.notify()
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	return v.value
}

// Observe registers fn and returns its handle. fn runs on whatever goroutine
// changes the value.
func (v *Value[T]) Observe(fn func(*T)) *Observer[T] {
	ix := v.observers.Alloc(fn)

	return &Observer[T]{removals: &v.removals, index: ix}
}

// Update gives fn direct mutable access to the value and notifies the
// observers exactly once afterwards, with the final state — however many
// intermediate mutations fn performed. The notification is deferred, so it
// also fires when fn panics, with whatever state the value was left in.
func (v *Value[T]) Update(fn func(*T)) {
	defer v.notify()
	fn(&v.value)
}

func (v *Value[T]) notify() {
	v.removals.mu.Lock()
	for _, ix := range v.removals.indices {
		v.observers.Release(ix)
	}
	v.removals.indices = v.removals.indices[:0]
	v.removals.mu.Unlock()

	v.observers.Range(func(_ arena.Index, fn *func(*T)) bool {
		(*fn)(&v.value)
		return true
	})
}

// Observer is the handle to one registered observer callback.
type Observer[T any] struct {
	removals *removalList
	index    arena.Index
}

// Cancel marks the observer for removal; the next notification releases the
// slot before iterating, so the callback is never invoked again. Cancel is
// idempotent and safe to call from any goroutine.
func (o *Observer[T]) Cancel() {
	o.removals.add(o.index.Invalidate())
}
