package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArena_AllocReleaseRealloc(t *testing.T) {
	a := New[string]()

	indices := []Index{
		a.Alloc("item0"),
		a.Alloc("item1"),
		a.Alloc("item2"),
		a.Alloc("item3"),
		a.Alloc("item4"),
	}

	for i, ix := range indices {
		require.Equal(t, i, ix.Slot())
		require.Equal(t, 1, ix.Generation())
	}

	v, ok := a.Release(indices[2])
	require.True(t, ok)
	require.Equal(t, "item2", v)
	v, ok = a.Release(indices[1])
	require.True(t, ok)
	require.Equal(t, "item1", v)
	v, ok = a.Release(indices[4])
	require.True(t, ok)
	require.Equal(t, "item4", v)

	// Lowest free position wins: slot 1, generation bumped once on release
	// and once on reuse.
	ix := a.Alloc("item5")
	require.Equal(t, 1, ix.Slot())
	require.Equal(t, 3, ix.Generation())

	got, ok := a.Get(ix)
	require.True(t, ok)
	require.Equal(t, "item5", *got)
}

func TestArena_StaleIndex(t *testing.T) {
	a := New[string]()

	ix0 := a.Alloc("item0")
	ix1 := a.Alloc("item1")

	require.Equal(t, 2, a.Len())

	_, ok := a.Release(ix1)
	require.True(t, ok)
	require.Equal(t, 1, a.Len())

	_, ok = a.Get(ix1)
	require.False(t, ok)

	// Releasing twice through the same handle is a no-op.
	_, ok = a.Release(ix1)
	require.False(t, ok)
	require.Equal(t, 1, a.Len())

	// The stale handle must not alias the slot's next occupant.
	ix2 := a.Alloc("item2")
	require.Equal(t, ix1.Slot(), ix2.Slot())
	require.NotEqual(t, ix1, ix2)

	_, ok = a.Get(ix1)
	require.False(t, ok)

	got, ok := a.Get(ix2)
	require.True(t, ok)
	require.Equal(t, "item2", *got)

	got, ok = a.Get(ix0)
	require.True(t, ok)
	require.Equal(t, "item0", *got)
}

func TestArena_OutOfRangeIndex(t *testing.T) {
	a := New[int]()
	a.Alloc(7)

	_, ok := a.Get(Index{slot: 5, generation: 1})
	require.False(t, ok)
	_, ok = a.Release(Index{slot: 5, generation: 1})
	require.False(t, ok)
	_, ok = a.Get(Invalid())
	require.False(t, ok)
}

func TestArena_Range(t *testing.T) {
	a := New[string]()

	a.Alloc("item0")
	ix1 := a.Alloc("item1")
	a.Alloc("item2")
	ix3 := a.Alloc("item3")
	ix4 := a.Alloc("item4")

	_, _ = a.Release(ix1)
	_, _ = a.Release(ix3)
	_, _ = a.Release(ix4)

	var seen []string
	a.Range(func(_ Index, v *string) bool {
		seen = append(seen, *v)
		return true
	})
	require.Equal(t, []string{"item0", "item2"}, seen)

	// Mutation through the range pointer sticks.
	a.Range(func(_ Index, v *string) bool {
		*v = "new value"
		return true
	})

	seen = seen[:0]
	a.Range(func(_ Index, v *string) bool {
		seen = append(seen, *v)
		return true
	})
	require.Equal(t, []string{"new value", "new value"}, seen)
}

func TestArena_RangeOnEmpty(t *testing.T) {
	a := New[string]()

	count := 0
	a.Range(func(Index, *string) bool {
		count++
		return true
	})
	require.Zero(t, count)
	require.True(t, a.Empty())
}

func TestArena_FirstIndex(t *testing.T) {
	a := New[string]()

	ix0 := a.Alloc("item0")
	ix1 := a.Alloc("item1")
	a.Alloc("item1")
	ix3 := a.Alloc("item2")
	a.Alloc("item2")

	match := func(want string) func(*string) bool {
		return func(v *string) bool { return *v == want }
	}

	ix, ok := a.FirstIndex(match("item0"))
	require.True(t, ok)
	require.Equal(t, ix0, ix)

	ix, ok = a.FirstIndex(match("item1"))
	require.True(t, ok)
	require.Equal(t, ix1, ix)

	ix, ok = a.FirstIndex(match("item2"))
	require.True(t, ok)
	require.Equal(t, ix3, ix)

	_, ok = a.FirstIndex(match("item3"))
	require.False(t, ok)
}

func TestIndex_Invalidate(t *testing.T) {
	a := New[int]()
	ix := a.Alloc(1)

	prev := ix.Invalidate()
	_, ok := a.Get(prev)
	require.True(t, ok)

	_, ok = a.Get(ix)
	require.False(t, ok)
	_, ok = a.Release(ix)
	require.False(t, ok)
}

func TestFreeHeap_Order(t *testing.T) {
	var h freeHeap

	for _, pos := range []int{4, 1, 7, 0, 3} {
		h.push(pos)
	}
	require.Equal(t, 5, h.len())

	var got []int
	for {
		pos, ok := h.pop()
		if !ok {
			break
		}
		got = append(got, pos)
	}
	require.Equal(t, []int{0, 1, 3, 4, 7}, got)
}
