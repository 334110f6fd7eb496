package arena

type entry[K comparable, V any] struct {
	key   K
	value V
}

// KeyedArena pairs an Arena of (key, value) entries with a key-to-index map
// for direct lookup by key. Releasing by key and releasing by index are
// equivalent: both evict the slot and the map entry together.
//
// Alloc on a key that is already present repoints the map at the new slot and
// leaves the previous slot occupied but unreachable by key. Callers that need
// at-most-one entry per key must release the old entry first.
type KeyedArena[K comparable, V any] struct {
	arena Arena[entry[K, V]]
	byKey map[K]Index
}

// NewKeyed creates an empty keyed arena.
func NewKeyed[K comparable, V any]() *KeyedArena[K, V] {
	return &KeyedArena[K, V]{
		byKey: make(map[K]Index),
	}
}

// Alloc stores the pair in a fresh arena slot and points the key map at it.
func (a *KeyedArena[K, V]) Alloc(key K, value V) Index {
	ix := a.arena.Alloc(entry[K, V]{key: key, value: value})
	a.byKey[key] = ix

	return ix
}

// ReleaseByIndex evicts the slot ix refers to along with the map entry for its
// key, returning the evicted pair. Stale indices are a no-op returning false.
func (a *KeyedArena[K, V]) ReleaseByIndex(ix Index) (K, V, bool) {
	e, ok := a.arena.Release(ix)
	if !ok {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}

	delete(a.byKey, e.key)

	return e.key, e.value, true
}

// ReleaseByKey evicts the entry the key map currently points at.
func (a *KeyedArena[K, V]) ReleaseByKey(key K) (K, V, bool) {
	ix, ok := a.byKey[key]
	if !ok {
		var zeroK K
		var zeroV V
		return zeroK, zeroV, false
	}

	return a.ReleaseByIndex(ix)
}

// Get resolves ix to its key and a pointer to its value.
func (a *KeyedArena[K, V]) Get(ix Index) (K, *V, bool) {
	e, ok := a.arena.Get(ix)
	if !ok {
		var zeroK K
		return zeroK, nil, false
	}

	return e.key, &e.value, true
}

// GetByKey resolves key through the key map. A key whose slot has been
// invalidated out from under the map reads as not found.
func (a *KeyedArena[K, V]) GetByKey(key K) (K, *V, bool) {
	ix, ok := a.byKey[key]
	if !ok {
		var zeroK K
		return zeroK, nil, false
	}

	return a.Get(ix)
}

// FirstIndex returns the index of the first live entry satisfying pred, in
// slot order.
func (a *KeyedArena[K, V]) FirstIndex(pred func(K, *V) bool) (Index, bool) {
	return a.arena.FirstIndex(func(e *entry[K, V]) bool {
		return pred(e.key, &e.value)
	})
}

// Range calls fn for every live entry in slot order, stopping early when fn
// returns false.
func (a *KeyedArena[K, V]) Range(fn func(Index, K, *V) bool) {
	a.arena.Range(func(ix Index, e *entry[K, V]) bool {
		return fn(ix, e.key, &e.value)
	})
}

// Len returns the number of live entries.
func (a *KeyedArena[K, V]) Len() int { return a.arena.Len() }

// Empty reports whether the keyed arena holds no live entries.
func (a *KeyedArena[K, V]) Empty() bool { return a.arena.Empty() }
