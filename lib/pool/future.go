package pool

import "sync"

// Future is a one-shot, subscribe-driven deferred value. It is the Go
// stand-in for the reactive "acquisition handle" / "deferred computation"
// spec.md treats as an external collaborator: nothing runs until
// Subscribe is called, at most one of onSuccess/onError ever fires, and
// Cancel before completion suppresses both.
//
// Future carries no backpressure/request semantics: it always produces at
// most one value, so there is nothing for a caller to request beyond
// "start".
type Future[T any] struct {
	mu        sync.Mutex
	start     func(f *Future[T])
	started   bool
	completed bool
	cancelled bool
	onSuccess func(T)
	onError   func(error)
}

// NewFuture creates a Future whose deferred work is start. start is
// invoked exactly once, synchronously, the first time Subscribe is
// called.
func NewFuture[T any](start func(f *Future[T])) *Future[T] {
	return &Future[T]{start: start}
}

// Completed returns a Future that succeeds with v as soon as it is
// subscribed. Useful for allocators/release handlers whose work is itself
// synchronous.
func Completed[T any](v T) *Future[T] {
	return NewFuture(func(f *Future[T]) {
		f.CompleteSuccess(v)
	})
}

// Failed returns a Future that fails with err as soon as it is subscribed.
func Failed[T any](err error) *Future[T] {
	return NewFuture(func(f *Future[T]) {
		f.CompleteError(err)
	})
}

// Subscribe registers callbacks and triggers the deferred work. Calling
// Subscribe more than once on the same Future is a programmer error; only
// the first call has any effect.
func (f *Future[T]) Subscribe(onSuccess func(T), onError func(error)) {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return
	}
	f.started = true
	f.onSuccess = onSuccess
	f.onError = onError
	start := f.start
	f.mu.Unlock()

	if start != nil {
		start(f)
	}
}

// Cancel marks the Future cancelled and reports whether it won the race:
// true means no completion will ever be delivered (both onSuccess and
// onError are permanently suppressed); false means a completion already
// won the race and will be (or was) delivered to the subscriber. Cancel
// is safe to call before, during, or after Subscribe, and concurrently
// with completion.
func (f *Future[T]) Cancel() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completed {
		return false
	}
	f.cancelled = true
	return true
}

// IsCancelled reports whether Cancel has been observed and no completion
// has been delivered.
func (f *Future[T]) IsCancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

// CompleteSuccess delivers v to the subscriber's onSuccess callback. It
// reports false, without invoking any callback, if the Future was already
// completed or cancelled — the caller is then responsible for routing v
// elsewhere (the pool routes a cancelled acquisition's ref through the
// release path).
func (f *Future[T]) CompleteSuccess(v T) bool {
	f.mu.Lock()
	if f.completed || f.cancelled {
		f.mu.Unlock()
		return false
	}
	f.completed = true
	cb := f.onSuccess
	f.mu.Unlock()

	if cb != nil {
		cb(v)
	}
	return true
}

// CompleteError delivers err to the subscriber's onError callback. It
// reports false if the Future was already completed or cancelled.
func (f *Future[T]) CompleteError(err error) bool {
	f.mu.Lock()
	if f.completed || f.cancelled {
		f.mu.Unlock()
		return false
	}
	f.completed = true
	cb := f.onError
	f.mu.Unlock()

	if cb != nil {
		cb(err)
	}
	return true
}
