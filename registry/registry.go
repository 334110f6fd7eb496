package registry

import (
	"reflect"
	"sort"
)

// Store is the operation set shared by Registry and SyncRegistry. It is a
// closed interface; the generic functions below are the public surface.
type Store interface {
	lookup(reflect.Type) (Item, bool)
	insert(reflect.Type, Item) (Item, bool)
	remove(reflect.Type) (Item, bool)
	getOrInsert(reflect.Type, func() Item) Item
}

// Insert stores v under its type, replacing any existing entry. It returns
// the previous value when one was replaced.
func Insert[T any](s Store, v T) (prev T, replaced bool) {
	t := typeOf[T]()

	old, ok := s.insert(t, Item{typ: t, value: v})
	if !ok {
		var zero T
		return zero, false
	}

	return mustAs[T](old), true
}

// Get returns the entry stored under T.
func Get[T any](s Store) (T, bool) {
	it, ok := s.lookup(typeOf[T]())
	if !ok {
		var zero T
		return zero, false
	}

	return mustAs[T](it), true
}

// GetOrInsert returns the entry stored under T, constructing and storing one
// with create if none exists. On a SyncRegistry, create runs at most once per
// type even under concurrent callers; see SyncRegistry.
func GetOrInsert[T any](s Store, create func() T) T {
	t := typeOf[T]()

	it := s.getOrInsert(t, func() Item {
		return Item{typ: t, value: create()}
	})

	return mustAs[T](it)
}

// Remove evicts and returns the entry stored under T.
func Remove[T any](s Store) (T, bool) {
	it, ok := s.remove(typeOf[T]())
	if !ok {
		var zero T
		return zero, false
	}

	return mustAs[T](it), true
}

// Lookup returns the type-erased entry stored under t.
func Lookup(s Store, t reflect.Type) (Item, bool) {
	return s.lookup(t)
}

// RemoveType evicts and returns the type-erased entry stored under t.
func RemoveType(s Store, t reflect.Type) (Item, bool) {
	return s.remove(t)
}

// Registry is the single-owner variant. It is not safe for concurrent use;
// use SyncRegistry for that.
type Registry struct {
	storage map[reflect.Type]Item
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{storage: make(map[reflect.Type]Item)}
}

func (r *Registry) lookup(t reflect.Type) (Item, bool) {
	it, ok := r.storage[t]
	return it, ok
}

func (r *Registry) insert(t reflect.Type, it Item) (Item, bool) {
	old, ok := r.storage[t]
	r.storage[t] = it

	return old, ok
}

func (r *Registry) remove(t reflect.Type) (Item, bool) {
	it, ok := r.storage[t]
	if ok {
		delete(r.storage, t)
	}

	return it, ok
}

func (r *Registry) getOrInsert(t reflect.Type, create func() Item) Item {
	if it, ok := r.storage[t]; ok {
		return it
	}

	it := create()
	r.storage[t] = it

	return it
}

// Items returns a snapshot of all entries, ordered by type name for
// deterministic iteration.
func (r *Registry) Items() []Item {
	return snapshotItems(r.storage)
}

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.storage) }

func snapshotItems(storage map[reflect.Type]Item) []Item {
	items := make([]Item, 0, len(storage))
	for _, it := range storage {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].typ.String() < items[j].typ.String()
	})

	return items
}
