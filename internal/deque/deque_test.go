package deque

import "testing"

func TestDeque_FIFO(t *testing.T) {
	var d Deque[int]

	for i := 0; i < 20; i++ {
		d.PushBack(i)
	}
	if d.Len() != 20 {
		t.Fatalf("expected len=20, got %d", d.Len())
	}

	for i := 0; i < 20; i++ {
		v, ok := d.PopFront()
		if !ok || v != i {
			t.Fatalf("expected %d, got %d (ok=%v)", i, v, ok)
		}
	}
	if _, ok := d.PopFront(); ok {
		t.Fatal("expected empty deque")
	}
}

func TestDeque_WrapAround(t *testing.T) {
	var d Deque[int]

	// Interleave pushes and pops so head walks around the ring. Two pushes
	// per pop leaves values 100..199 buffered in order at the end.
	for i := 0; i < 100; i++ {
		d.PushBack(2 * i)
		d.PushBack(2*i + 1)
		if v, ok := d.PopFront(); !ok || v != i {
			t.Fatalf("expected %d, got %d (ok=%v)", i, v, ok)
		}
	}
	if d.Len() != 100 {
		t.Fatalf("expected len=100, got %d", d.Len())
	}
	for i := 100; i < 200; i++ {
		if v, ok := d.PopFront(); !ok || v != i {
			t.Fatalf("expected %d, got %d (ok=%v)", i, v, ok)
		}
	}
}

func TestDeque_FrontAndClear(t *testing.T) {
	var d Deque[string]

	if _, ok := d.Front(); ok {
		t.Fatal("front of empty deque should report false")
	}

	d.PushBack("a")
	d.PushBack("b")

	v, ok := d.Front()
	if !ok || v != "a" {
		t.Fatalf("expected front=a, got %q (ok=%v)", v, ok)
	}
	if d.Len() != 2 {
		t.Fatalf("front must not consume; len=%d", d.Len())
	}

	d.Clear()
	if d.Len() != 0 {
		t.Fatalf("expected empty after clear, len=%d", d.Len())
	}
	if _, ok := d.PopFront(); ok {
		t.Fatal("expected empty after clear")
	}

	// Reusable after clear.
	d.PushBack("c")
	v, ok = d.PopFront()
	if !ok || v != "c" {
		t.Fatalf("expected c, got %q (ok=%v)", v, ok)
	}
}
