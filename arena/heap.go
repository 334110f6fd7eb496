package arena

// freeHeap is a binary min-heap of free slot positions. Value-based storage,
// no pointer indirection.
type freeHeap struct {
	positions []int
}

func (h *freeHeap) push(pos int) {
	h.positions = append(h.positions, pos)
	h.siftUp(len(h.positions) - 1)
}

func (h *freeHeap) pop() (int, bool) {
	n := len(h.positions)
	if n == 0 {
		return 0, false
	}

	root := h.positions[0]
	last := h.positions[n-1]
	h.positions = h.positions[:n-1]
	if n-1 > 0 {
		h.positions[0] = last
		h.siftDown(0)
	}

	return root, true
}

func (h *freeHeap) len() int { return len(h.positions) }

func (h *freeHeap) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if h.positions[i] >= h.positions[p] {
			return
		}
		h.positions[i], h.positions[p] = h.positions[p], h.positions[i]
		i = p
	}
}

func (h *freeHeap) siftDown(i int) {
	n := len(h.positions)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && h.positions[r] < h.positions[l] {
			best = r
		}
		if h.positions[best] >= h.positions[i] {
			return
		}
		h.positions[i], h.positions[best] = h.positions[best], h.positions[i]
		i = best
	}
}
