package arena

const invalidGeneration = -1

// Index is a handle to an arena slot. It pairs the slot position with the
// generation the slot had when the handle was issued; the handle resolves only
// while the two still agree.
//
// The zero value never resolves (generations start at 1). Invalid returns the
// canonical non-resolving index.
type Index struct {
	slot       int
	generation int
}

// Invalid returns an index that never resolves to a live slot.
func Invalid() Index {
	return Index{slot: 0, generation: invalidGeneration}
}

// Slot returns the slot position the index refers to.
func (ix Index) Slot() int { return ix.slot }

// Generation returns the slot generation the index was issued with.
func (ix Index) Generation() int { return ix.generation }

// Invalidate swaps the index for the invalid sentinel and returns the previous
// value. Deferred-removal paths use it to make a second cancel a no-op.
func (ix *Index) Invalidate() Index {
	prev := *ix
	*ix = Invalid()
	return prev
}

type slot[T any] struct {
	generation int
	value      T
	occupied   bool
}

// Arena is a slot allocator. Allocation returns a generation-checked Index and
// released positions are recycled lowest-first. See the package documentation
// for the concurrency contract.
type Arena[T any] struct {
	slots []slot[T]
	free  freeHeap
	count int
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// WithCapacity creates an empty arena with room for n slots before the backing
// storage has to grow.
func WithCapacity[T any](n int) *Arena[T] {
	return &Arena[T]{
		slots: make([]slot[T], 0, n),
		free:  freeHeap{positions: make([]int, 0, n)},
	}
}

// Alloc stores v in the lowest free slot, or appends a new slot when none is
// free. Reusing a slot bumps its generation, so indices issued for the earlier
// occupant stay dead.
func (a *Arena[T]) Alloc(v T) Index {
	if pos, ok := a.free.pop(); ok {
		s := &a.slots[pos]
		s.generation++
		s.value = v
		s.occupied = true
		a.count++

		return Index{slot: pos, generation: s.generation}
	}

	a.slots = append(a.slots, slot[T]{generation: 1, value: v, occupied: true})
	a.count++

	return Index{slot: len(a.slots) - 1, generation: 1}
}

// Release evicts the slot ix refers to and returns its value. The slot's
// generation is bumped a second time so every outstanding index for it is
// stale from here on, and its position joins the free list. A stale or
// out-of-range index is a no-op returning false.
func (a *Arena[T]) Release(ix Index) (T, bool) {
	var zero T

	if ix.slot < 0 || ix.slot >= len(a.slots) {
		return zero, false
	}

	s := &a.slots[ix.slot]
	if !s.occupied || s.generation != ix.generation {
		return zero, false
	}

	s.generation++
	v := s.value
	s.value = zero
	s.occupied = false
	a.free.push(ix.slot)
	a.count--

	return v, true
}

// Get returns a pointer to the value ix refers to, or nil and false when the
// index is stale or out of range. The pointer stays valid until the slot is
// released or the arena grows past it; callers holding the arena's guarding
// lock are always safe.
func (a *Arena[T]) Get(ix Index) (*T, bool) {
	if ix.slot < 0 || ix.slot >= len(a.slots) {
		return nil, false
	}

	s := &a.slots[ix.slot]
	if !s.occupied || s.generation != ix.generation {
		return nil, false
	}

	return &s.value, true
}

// FirstIndex returns the index of the first live slot (in slot order) whose
// value satisfies pred.
func (a *Arena[T]) FirstIndex(pred func(*T) bool) (Index, bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.occupied && pred(&s.value) {
			return Index{slot: i, generation: s.generation}, true
		}
	}

	return Invalid(), false
}

// Range calls fn for every live slot in slot order, stopping early when fn
// returns false. Free slots are skipped. fn must not allocate into or release
// from the arena.
func (a *Arena[T]) Range(fn func(Index, *T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.occupied {
			continue
		}
		if !fn(Index{slot: i, generation: s.generation}, &s.value) {
			return
		}
	}
}

// Len returns the number of live slots.
func (a *Arena[T]) Len() int { return a.count }

// Empty reports whether the arena holds no live slots.
func (a *Arena[T]) Empty() bool { return a.count == 0 }
