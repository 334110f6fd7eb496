// Package deque implements a growable ring-buffer FIFO. It backs the
// per-receiver queues of the fanout channel and the shared queue of the
// single-delivery channel.
package deque

const minCapacity = 8

// Deque is a FIFO over a ring buffer. The zero value is ready to use. Not
// goroutine-safe; callers guard it with their own lock.
type Deque[T any] struct {
	buf  []T
	head int
	n    int
}

// PushBack appends v to the tail.
func (d *Deque[T]) PushBack(v T) {
	if d.n == len(d.buf) {
		d.grow()
	}
	d.buf[(d.head+d.n)%len(d.buf)] = v
	d.n++
}

// PopFront removes and returns the oldest element.
func (d *Deque[T]) PopFront() (T, bool) {
	var zero T
	if d.n == 0 {
		return zero, false
	}

	v := d.buf[d.head]
	d.buf[d.head] = zero
	d.head = (d.head + 1) % len(d.buf)
	d.n--

	return v, true
}

// Front returns the oldest element without removing it.
func (d *Deque[T]) Front() (T, bool) {
	var zero T
	if d.n == 0 {
		return zero, false
	}

	return d.buf[d.head], true
}

// Len returns the number of buffered elements.
func (d *Deque[T]) Len() int { return d.n }

// Clear drops every buffered element, keeping the backing storage.
func (d *Deque[T]) Clear() {
	var zero T
	for i := 0; i < d.n; i++ {
		d.buf[(d.head+i)%len(d.buf)] = zero
	}
	d.head = 0
	d.n = 0
}

func (d *Deque[T]) grow() {
	capacity := len(d.buf) * 2
	if capacity < minCapacity {
		capacity = minCapacity
	}

	buf := make([]T, capacity)
	for i := 0; i < d.n; i++ {
		buf[i] = d.buf[(d.head+i)%len(d.buf)]
	}
	d.buf = buf
	d.head = 0
}
