package pool

import (
	"errors"
	"testing"
)

func TestFutureSubscribeDeliversSuccess(t *testing.T) {
	f := NewFuture(func(f *Future[int]) {
		f.CompleteSuccess(42)
	})

	var got int
	f.Subscribe(func(v int) { got = v }, func(error) { t.Fatal("unexpected error") })

	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestFutureSubscribeDeliversError(t *testing.T) {
	boom := errors.New("boom")
	f := NewFuture(func(f *Future[int]) {
		f.CompleteError(boom)
	})

	var got error
	f.Subscribe(func(int) { t.Fatal("unexpected success") }, func(err error) { got = err })

	if got != boom {
		t.Fatalf("expected boom, got %v", got)
	}
}

func TestFutureCompleteOnlyOnce(t *testing.T) {
	f := NewFuture[int](nil)
	calls := 0
	f.Subscribe(func(int) { calls++ }, func(error) { calls++ })

	if !f.CompleteSuccess(1) {
		t.Fatal("first CompleteSuccess should succeed")
	}
	if f.CompleteSuccess(2) {
		t.Fatal("second CompleteSuccess should be rejected")
	}
	if f.CompleteError(errors.New("x")) {
		t.Fatal("CompleteError after CompleteSuccess should be rejected")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one callback invocation, got %d", calls)
	}
}

func TestFutureCancelSuppressesCompletion(t *testing.T) {
	f := NewFuture[int](nil)
	f.Subscribe(func(int) { t.Fatal("unexpected success after cancel") }, func(error) {
		t.Fatal("unexpected error after cancel")
	})

	if !f.Cancel() {
		t.Fatal("Cancel should succeed on a pending future")
	}
	if !f.IsCancelled() {
		t.Fatal("expected IsCancelled to be true")
	}
	if f.CompleteSuccess(1) {
		t.Fatal("CompleteSuccess after Cancel should be rejected")
	}
}

func TestFutureCancelAfterCompleteLoses(t *testing.T) {
	f := NewFuture[int](nil)
	var got int
	f.Subscribe(func(v int) { got = v }, func(error) {})

	if !f.CompleteSuccess(7) {
		t.Fatal("CompleteSuccess should succeed")
	}
	if f.Cancel() {
		t.Fatal("Cancel after completion should report false")
	}
	if got != 7 {
		t.Fatalf("expected the delivered value to stick, got %d", got)
	}
}

func TestSubscribeIsOnceOnly(t *testing.T) {
	calls := 0
	f := NewFuture(func(f *Future[int]) {
		calls++
	})
	f.Subscribe(func(int) {}, func(error) {})
	f.Subscribe(func(int) {}, func(error) {})

	if calls != 1 {
		t.Fatalf("expected start to run exactly once, got %d", calls)
	}
}

func TestCompletedHelper(t *testing.T) {
	f := Completed(9)
	var got int
	f.Subscribe(func(v int) { got = v }, func(error) { t.Fatal("unexpected error") })
	if got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
}

func TestFailedHelper(t *testing.T) {
	boom := errors.New("boom")
	f := Failed[int](boom)
	var got error
	f.Subscribe(func(int) { t.Fatal("unexpected success") }, func(err error) { got = err })
	if got != boom {
		t.Fatalf("expected boom, got %v", got)
	}
}
