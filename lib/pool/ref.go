package pool

import (
	perrors "github.com/go-i2p/reactivepool/lib/errors"
	"sync/atomic"
)

// PooledRef wraps a live resource on loan to a borrower. It is the only
// way a borrower can return the resource to the pool: ReleaseHandle
// recycles it (after running any configured ReleaseHandler), Invalidate
// destroys it outright. A ref may be released or invalidated exactly
// once; a second call reports ErrDoubleRelease instead of running the
// release path again.
type PooledRef[R any] struct {
	poolable R
	drainer  *drainer[R]
	spent    atomic.Bool
	uses     atomic.Int32
}

// Poolable returns the underlying resource.
func (r *PooledRef[R]) Poolable() R {
	return r.poolable
}

// Uses reports how many times this ref has been handed to a borrower.
// InvalidationPredicate reads this to retire a ref after a configured
// number of loans; a freshly allocated ref reports 0 until its first
// delivery.
func (r *PooledRef[R]) Uses() int {
	return int(r.uses.Load())
}

// ReleaseHandle returns a Future that, once subscribed, runs the pool's
// ReleaseHandler (if any) over the resource and returns it to the
// available queue, or destroys it if the handler reports an error. The
// resource is destroyed without running the ReleaseHandler when the pool
// has been disposed or the InvalidationPredicate reports it unhealthy.
func (r *PooledRef[R]) ReleaseHandle() *Future[struct{}] {
	return NewFuture(func(f *Future[struct{}]) {
		if !r.spent.CompareAndSwap(false, true) {
			f.CompleteError(perrors.ErrDoubleRelease)
			return
		}
		r.drainer.release(r, f)
	})
}

// Invalidate returns a Future that destroys the resource unconditionally
// instead of recycling it, freeing its admission slot for a new
// allocation. Use this when a borrower knows the resource is broken.
func (r *PooledRef[R]) Invalidate() *Future[struct{}] {
	return NewFuture(func(f *Future[struct{}]) {
		if !r.spent.CompareAndSwap(false, true) {
			f.CompleteError(perrors.ErrDoubleRelease)
			return
		}
		r.drainer.invalidate(r, f)
	})
}

// pendingBorrower is a queued acquisition waiting for either an available
// resource or a free admission slot.
type pendingBorrower[R any] struct {
	future *Future[*PooledRef[R]]
}
