package syncutil

import (
	"context"
	"sync"
)

// Item is an awaitable slot holding at most one value. Get blocks until a
// value is present; Set and Unset replace or clear it and wake all waiters.
// Safe for concurrent use; values are returned by copy.
type Item[T any] struct {
	mu     sync.RWMutex
	value  *T
	signal Signal
}

// NewItem creates an empty item.
func NewItem[T any]() *Item[T] {
	return &Item[T]{}
}

// Set stores v and wakes all waiters.
func (it *Item[T]) Set(v T) {
	it.mu.Lock()
	it.value = &v
	it.mu.Unlock()

	it.signal.Ping()
}

// Unset clears the slot and wakes all waiters.
func (it *Item[T]) Unset() {
	it.mu.Lock()
	it.value = nil
	it.mu.Unlock()

	it.signal.Ping()
}

// TryGet returns the current value, if any.
func (it *Item[T]) TryGet() (T, bool) {
	it.mu.RLock()
	defer it.mu.RUnlock()

	if it.value == nil {
		var zero T
		return zero, false
	}

	return *it.value, true
}

// Get returns the current value, waiting for one to be set if the slot is
// empty. It returns ctx.Err() when the context ends first.
func (it *Item[T]) Get(ctx context.Context) (T, error) {
	for {
		ch := it.signal.Changed()

		if v, ok := it.TryGet(); ok {
			return v, nil
		}

		select {
		case <-ch:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}
