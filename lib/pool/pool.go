package pool

import (
	"context"
	"sync/atomic"

	perrors "github.com/go-i2p/reactivepool/lib/errors"
)

// Re-exported sentinels so callers that only need to check "what kind of
// failure was this" don't have to import lib/errors directly. Use
// errors.Is against these, not equality.
var (
	ErrPoolShutdown   = perrors.ErrPoolShutdown
	ErrAllocator      = perrors.ErrAllocator
	ErrReleaseCleaner = perrors.ErrReleaseCleaner
	ErrInvalidConfig  = perrors.ErrInvalidConfig
	ErrDoubleRelease  = perrors.ErrDoubleRelease
)

// Stats is a point-in-time snapshot of pool occupancy and lifetime
// activity. The cumulative counters are diagnostics over state the
// engine already tracks for its own invariants, not a metrics subsystem:
// there is no periodic export, registry, or histogram behind them.
type Stats struct {
	// MaxSize is the configured admission ceiling.
	MaxSize int
	// Live is the number of resources currently allocated (on loan plus
	// available).
	Live int
	// Available is the number of idle resources ready to be handed out.
	Available int
	// Pending is the number of borrowers still waiting for a resource.
	Pending int
	// AcquiredTotal is the number of Borrow calls that have completed
	// successfully over the pool's lifetime.
	AcquiredTotal int64
	// ReleasedTotal is the number of releases that returned a resource to
	// the available queue.
	ReleasedTotal int64
	// AllocatedTotal is the number of allocator invocations that have
	// succeeded.
	AllocatedTotal int64
	// DestroyedTotal is the number of resources torn down (eviction,
	// invalidate, release-handler failure, or Dispose).
	DestroyedTotal int64
}

// Pool is a bounded, reactive object pool. Resources are handed out one
// at a time through Future-returning Borrow/BorrowCtx calls, and
// returned through the PooledRef's ReleaseHandle.
//
// See the package doc for the delivery-thread contract Borrow's Future
// honors.
type Pool[R any] struct {
	cfg      PoolConfig[R]
	drainer  *drainer[R]
	disposed atomic.Bool
}

// New constructs a Pool from cfg, validating it and eagerly allocating
// cfg.InitialSize resources before returning.
func New[R any](cfg PoolConfig[R]) (*Pool[R], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	p := &Pool[R]{cfg: cfg}
	p.drainer = newDrainer(cfg, &p.disposed)

	if cfg.InitialSize > 0 {
		if err := p.drainer.preFill(context.Background(), cfg.InitialSize); err != nil {
			return nil, err
		}
	}

	log.WithField("pool", cfg.Name).WithField("maxSize", cfg.MaxSize).WithField("initialSize", cfg.InitialSize).Debug("pool created")
	return p, nil
}

// Borrow returns a Future that completes with a PooledRef once one
// becomes available. If the pool is already disposed, the Future
// completes with ErrPoolShutdown as soon as it is subscribed.
//
// Delivery-thread contract: if a resource is already sitting in the
// available queue, the Future completes synchronously on whatever
// goroutine calls Subscribe. If a new resource had to be allocated, it
// completes on the allocator's completion goroutine. If the borrower had
// to wait behind another borrower's release, it completes on the
// releaser's goroutine. If the pool was built with a DeliveryContext,
// completion is instead scheduled on that Scheduler regardless of which
// of the above triggered it.
func (p *Pool[R]) Borrow() *Future[*PooledRef[R]] {
	return NewFuture(func(f *Future[*PooledRef[R]]) {
		if p.disposed.Load() {
			p.completeVia(func() { f.CompleteError(perrors.ErrPoolShutdown) })
			return
		}

		pb := &pendingBorrower[R]{future: p.wrapDelivery(f)}
		p.drainer.enqueue(pb)
	})
}

// wrapDelivery returns a Future whose completion is routed through the
// pool's configured DeliveryContext, if any, instead of running directly
// on the drain loop's goroutine.
func (p *Pool[R]) wrapDelivery(f *Future[*PooledRef[R]]) *Future[*PooledRef[R]] {
	if p.cfg.DeliveryContext == nil {
		return f
	}
	shim := NewFuture[*PooledRef[R]](nil)
	shim.Subscribe(
		func(ref *PooledRef[R]) {
			p.cfg.DeliveryContext.Schedule(func() {
				if !f.CompleteSuccess(ref) {
					p.drainer.releaseAsync(ref)
				}
			})
		},
		func(err error) { p.cfg.DeliveryContext.Schedule(func() { f.CompleteError(err) }) },
	)
	return shim
}

func (p *Pool[R]) completeVia(fn func()) {
	if p.cfg.DeliveryContext == nil {
		fn()
		return
	}
	p.cfg.DeliveryContext.Schedule(fn)
}

// BorrowCtx blocks the calling goroutine until a resource is acquired,
// ctx is done, or the configured AcquireTimeout elapses. On context
// cancellation it cancels the underlying Future; if a delivery already
// won the race, the resource is released back to the pool instead of
// being leaked.
func (p *Pool[R]) BorrowCtx(ctx context.Context) (*PooledRef[R], error) {
	actualCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && p.cfg.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		actualCtx, cancel = context.WithTimeout(ctx, p.cfg.AcquireTimeout)
		defer cancel()
	}

	type result struct {
		ref *PooledRef[R]
		err error
	}
	resultCh := make(chan result, 1)

	fut := p.Borrow()
	fut.Subscribe(
		func(ref *PooledRef[R]) { resultCh <- result{ref: ref} },
		func(err error) { resultCh <- result{err: err} },
	)

	select {
	case res := <-resultCh:
		return res.ref, res.err
	case <-actualCtx.Done():
		if !fut.Cancel() {
			// A completion already won the race; it will be (or was
			// just) pushed onto resultCh. Wait for it so we can route a
			// delivered resource back to the pool instead of leaking it.
			res := <-resultCh
			if res.ref != nil {
				res.ref.ReleaseHandle().Subscribe(func(struct{}) {}, func(error) {})
			}
		}
		return nil, actualCtx.Err()
	}
}

// BorrowInScope acquires a resource, runs fn over it, and always releases
// it afterward — on normal return, on fn's error, and on panic (the
// resource is released before the panic continues to propagate).
func BorrowInScope[R, T any](ctx context.Context, p *Pool[R], fn func(context.Context, R) (T, error)) (T, error) {
	ref, err := p.BorrowCtx(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	release := func() {
		ref.ReleaseHandle().Subscribe(func(struct{}) {}, func(error) {})
	}

	defer func() {
		if r := recover(); r != nil {
			release()
			panic(r)
		}
	}()

	v, err := fn(ctx, ref.Poolable())
	release()
	return v, err
}

// Dispose shuts the pool down: every available resource is destroyed
// immediately, every still-pending borrower's Future fails with
// ErrPoolShutdown, and every subsequent Borrow fails the same way.
// Resources currently on loan are destroyed as they are released. Dispose
// is idempotent.
func (p *Pool[R]) Dispose() {
	if !p.disposed.CompareAndSwap(false, true) {
		return
	}
	p.drainer.shutdown()
	log.WithField("pool", p.cfg.Name).Debug("pool disposed")
}

// IsDisposed reports whether Dispose has been called.
func (p *Pool[R]) IsDisposed() bool {
	return p.disposed.Load()
}

// Stats returns a point-in-time snapshot of pool occupancy.
func (p *Pool[R]) Stats() Stats {
	return p.drainer.stats()
}

