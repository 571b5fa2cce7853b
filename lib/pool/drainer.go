package pool

import (
	"context"
	"sync/atomic"

	perrors "github.com/go-i2p/reactivepool/lib/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// drainer holds the pool's pairing state machine: the available and
// pending queues, admission control over the live set, and the
// non-reentrant drain loop that pairs one against the other.
//
// The loop follows the classic serialized-drain idiom: any number of
// goroutines may call drain() concurrently, but only one ever runs pass()
// at a time. A goroutine that finds the drain already running increments
// the work-in-progress counter and returns immediately, trusting the
// running drain to observe the new work before it exits.
type drainer[R any] struct {
	cfg PoolConfig[R]

	available *fifoQueue[*PooledRef[R]]
	pending   *fifoQueue[*pendingBorrower[R]]

	sem  *semaphore.Weighted
	live atomic.Int64 // mirrors permits held by sem, for Stats
	wip  atomic.Int32

	acquiredTotal  atomic.Int64
	releasedTotal  atomic.Int64
	allocatedTotal atomic.Int64
	destroyedTotal atomic.Int64

	disposed *atomic.Bool
}

func newDrainer[R any](cfg PoolConfig[R], disposed *atomic.Bool) *drainer[R] {
	return &drainer[R]{
		cfg:       cfg,
		available: newFIFOQueue[*PooledRef[R]](),
		pending:   newFIFOQueue[*pendingBorrower[R]](),
		sem:       semaphore.NewWeighted(int64(cfg.MaxSize)),
		disposed:  disposed,
	}
}

// enqueue adds a borrower to the pending queue and schedules a drain
// pass. Called with the borrower's own Future, so a warm hit completes
// synchronously on the calling goroutine.
func (d *drainer[R]) enqueue(pb *pendingBorrower[R]) {
	d.pending.push(pb)
	d.drain()
}

// drain runs pass() until no more work-in-progress has been observed.
func (d *drainer[R]) drain() {
	if d.wip.Add(1) != 1 {
		return
	}
	for {
		d.pass()
		if d.wip.Add(-1) == 0 {
			return
		}
		// Another caller added work while pass() was running; reset the
		// counter to 1 and run another pass instead of looping the
		// decrement indefinitely.
		d.wip.Store(1)
	}
}

// pass pairs as many pending borrowers with available resources or fresh
// admission slots as it can, stopping when the pending queue is empty or
// the head borrower can be neither paired nor admitted.
func (d *drainer[R]) pass() {
	for {
		pb, ok := d.pending.pop()
		if !ok {
			return
		}

		if ref, ok := d.available.pop(); ok {
			d.deliver(pb, ref)
			continue
		}

		if d.sem.TryAcquire(1) {
			d.live.Add(1)
			d.allocateFor(pb)
			continue
		}

		// Nothing to pair with and no room to grow: put the borrower
		// back at the front and stop, preserving FIFO order for the
		// next release or successful admission to pick up.
		d.pending.pushFront(pb)
		return
	}
}

// deliver completes pb's future with ref. If pb was already cancelled,
// ref is routed back through the release path instead of being handed to
// a subscriber that will never claim it.
func (d *drainer[R]) deliver(pb *pendingBorrower[R], ref *PooledRef[R]) {
	ref.uses.Add(1)
	if pb.future.CompleteSuccess(ref) {
		d.acquiredTotal.Add(1)
	} else {
		d.releaseAsync(ref)
	}
}

// allocateFor runs the allocator for a single admitted borrower and
// completes pb's future when the allocation settles. It is invoked once
// per admitted slot — never re-peeked by a later pass — so a borrower is
// never the target of two concurrent allocations.
func (d *drainer[R]) allocateFor(pb *pendingBorrower[R]) {
	future := d.cfg.Allocator()
	future.Subscribe(
		func(v R) {
			d.allocatedTotal.Add(1)
			ref := &PooledRef[R]{poolable: v, drainer: d}
			ref.uses.Add(1)
			if pb.future.CompleteSuccess(ref) {
				d.acquiredTotal.Add(1)
			} else {
				d.releaseAsync(ref)
			}
			d.drain()
		},
		func(err error) {
			d.live.Add(-1)
			d.sem.Release(1)
			pb.future.CompleteError(perrors.WrapAllocator(err))
			d.drain()
		},
	)
}

// release evaluates InvalidationPredicate, then the configured
// ReleaseHandler, over ref's resource, and either recycles it to the
// available queue or destroys it, notifying f of the outcome. A resource
// the predicate marks unhealthy is destroyed unconditionally; the
// ReleaseHandler never runs over it.
func (d *drainer[R]) release(ref *PooledRef[R], f *Future[struct{}]) {
	if d.disposed.Load() {
		d.destroy(ref.poolable)
		f.CompleteSuccess(struct{}{})
		return
	}

	if d.cfg.InvalidationPredicate != nil && d.cfg.InvalidationPredicate(ref) {
		d.destroy(ref.poolable)
		d.drain()
		f.CompleteSuccess(struct{}{})
		return
	}

	if d.cfg.ReleaseHandler != nil {
		if err := d.cfg.ReleaseHandler(ref.poolable); err != nil {
			d.destroy(ref.poolable)
			f.CompleteError(perrors.WrapReleaseCleaner(err))
			d.drain()
			return
		}
	}

	d.available.push(ref)
	d.releasedTotal.Add(1)
	f.CompleteSuccess(struct{}{})
	d.drain()
}

// releaseAsync runs the same recycle-or-destroy logic as release, but for
// a resource that was delivered to a borrower who is no longer listening
// (cancelled after the delivery race resolved in the allocator's or
// releaser's favor). There is no subscriber to notify.
func (d *drainer[R]) releaseAsync(ref *PooledRef[R]) {
	if d.disposed.Load() {
		d.destroy(ref.poolable)
		return
	}

	if d.cfg.InvalidationPredicate != nil && d.cfg.InvalidationPredicate(ref) {
		d.destroy(ref.poolable)
		d.drain()
		return
	}

	if d.cfg.ReleaseHandler != nil {
		if err := d.cfg.ReleaseHandler(ref.poolable); err != nil {
			log.WithError(err).Debug("release handler failed for orphaned ref")
			d.destroy(ref.poolable)
			d.drain()
			return
		}
	}

	d.available.push(ref)
	d.releasedTotal.Add(1)
	d.drain()
}

// invalidate destroys ref's resource unconditionally, bypassing the
// ReleaseHandler, and notifies f.
func (d *drainer[R]) invalidate(ref *PooledRef[R], f *Future[struct{}]) {
	d.destroy(ref.poolable)
	f.CompleteSuccess(struct{}{})
	d.drain()
}

// destroy tears down v and frees its admission slot.
func (d *drainer[R]) destroy(v R) {
	destroyResource(v, d.cfg.Destructor)
	d.live.Add(-1)
	d.sem.Release(1)
	d.destroyedTotal.Add(1)
}

// preFill allocates n resources at construction time concurrently, one
// goroutine per slot via errgroup. On the first allocator failure every
// resource already pre-warmed in this call is torn down and its
// semaphore permit released before the error is returned, so New never
// exposes a partially pre-warmed pool.
func (d *drainer[R]) preFill(ctx context.Context, n int) error {
	refs := make([]*PooledRef[R], n)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := d.sem.Acquire(gctx, 1); err != nil {
				return err
			}
			d.live.Add(1)

			errCh := make(chan error, 1)
			var ref *PooledRef[R]
			d.cfg.Allocator().Subscribe(
				func(v R) {
					d.allocatedTotal.Add(1)
					ref = &PooledRef[R]{poolable: v, drainer: d}
					errCh <- nil
				},
				func(err error) {
					errCh <- err
				},
			)
			if err := <-errCh; err != nil {
				d.live.Add(-1)
				d.sem.Release(1)
				return perrors.WrapAllocator(err)
			}
			refs[i] = ref
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, ref := range refs {
			if ref != nil {
				d.destroy(ref.poolable)
			}
		}
		return err
	}

	for _, ref := range refs {
		d.available.push(ref)
	}
	return nil
}

// shutdown destroys every currently-available resource and fails every
// still-pending borrower. Resources on loan are destroyed as they are
// released, per release's disposed check.
func (d *drainer[R]) shutdown() {
	for _, ref := range d.available.drainAll() {
		d.destroy(ref.poolable)
	}
	for _, pb := range d.pending.drainAll() {
		pb.future.CompleteError(perrors.ErrPoolShutdown)
	}
}

// stats reports a point-in-time snapshot of queue depths, live count, and
// lifetime activity counters.
func (d *drainer[R]) stats() Stats {
	return Stats{
		MaxSize:        d.cfg.MaxSize,
		Live:           int(d.live.Load()),
		Available:      d.available.len(),
		Pending:        d.pending.len(),
		AcquiredTotal:  d.acquiredTotal.Load(),
		ReleasedTotal:  d.releasedTotal.Load(),
		AllocatedTotal: d.allocatedTotal.Load(),
		DestroyedTotal: d.destroyedTotal.Load(),
	}
}
