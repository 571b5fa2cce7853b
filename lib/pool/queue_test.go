package pool

import "testing"

func TestFIFOQueueOrdering(t *testing.T) {
	q := newFIFOQueue[int]()
	q.push(1)
	q.push(2)
	q.push(3)

	for _, want := range []int{1, 2, 3} {
		got, ok := q.pop()
		if !ok || got != want {
			t.Fatalf("expected %d, got %d (ok=%v)", want, got, ok)
		}
	}

	if _, ok := q.pop(); ok {
		t.Fatal("expected empty queue")
	}
}

func TestFIFOQueuePushFront(t *testing.T) {
	q := newFIFOQueue[int]()
	q.push(2)
	q.push(3)
	q.pushFront(1)

	for _, want := range []int{1, 2, 3} {
		got, ok := q.pop()
		if !ok || got != want {
			t.Fatalf("expected %d, got %d (ok=%v)", want, got, ok)
		}
	}
}

func TestFIFOQueueLen(t *testing.T) {
	q := newFIFOQueue[string]()
	if q.len() != 0 {
		t.Fatal("expected empty queue length 0")
	}
	q.push("a")
	q.push("b")
	if q.len() != 2 {
		t.Fatalf("expected length 2, got %d", q.len())
	}
}

func TestFIFOQueueDrainAll(t *testing.T) {
	q := newFIFOQueue[int]()
	q.push(1)
	q.push(2)

	all := q.drainAll()
	if len(all) != 2 || all[0] != 1 || all[1] != 2 {
		t.Fatalf("unexpected drainAll result: %v", all)
	}
	if q.len() != 0 {
		t.Fatal("expected queue empty after drainAll")
	}
}
