package pool

import (
	"context"
	"sync/atomic"
)

// ThreadAffinityPool partitions a pool into N independent slices, each a
// full Pool[R] in its own right, and routes Borrow calls to a single
// slice instead of pairing across a shared FIFO. It trades a global queue
// for locality: a borrower pinned to slice i is served only by slice i's
// resources, so a caller that consistently maps a piece of work to the
// same slice index gets the same pool of resources back across calls.
//
// It adds no acquisition semantics beyond Pool: each slice is a plain
// Pool[R] running the same drain loop, config, and delivery-thread
// contract independently.
type ThreadAffinityPool[R any] struct {
	slices []*Pool[R]
	rr     atomic.Uint64
}

// NewThreadAffinityPool builds n independent Pool[R] slices from cfg, one
// per slice, each sized MaxSize/n (with the remainder distributed to the
// first slices) so the aggregate admission ceiling matches cfg.MaxSize.
// No slice is sized below 1, so when n exceeds cfg.MaxSize the aggregate
// ceiling is n.
func NewThreadAffinityPool[R any](cfg PoolConfig[R], n int) (*ThreadAffinityPool[R], error) {
	if n <= 0 {
		n = 1
	}

	base := cfg.MaxSize / n
	extra := cfg.MaxSize % n

	slices := make([]*Pool[R], n)
	for i := 0; i < n; i++ {
		sliceCfg := cfg
		sliceCfg.MaxSize = base
		if i < extra {
			sliceCfg.MaxSize++
		}
		if sliceCfg.MaxSize <= 0 {
			sliceCfg.MaxSize = 1
		}
		sliceCfg.InitialSize = cfg.InitialSize / n
		if i < cfg.InitialSize%n {
			sliceCfg.InitialSize++
		}

		p, err := New(sliceCfg)
		if err != nil {
			for j := 0; j < i; j++ {
				slices[j].Dispose()
			}
			return nil, err
		}
		slices[i] = p
	}

	return &ThreadAffinityPool[R]{slices: slices}, nil
}

// Slices returns the number of independent sub-pools.
func (t *ThreadAffinityPool[R]) Slices() int {
	return len(t.slices)
}

// Slice returns the Pool backing slice i, for callers that want to pin
// acquisition to a specific slice explicitly (e.g. by worker index or
// shard key).
func (t *ThreadAffinityPool[R]) Slice(i int) *Pool[R] {
	return t.slices[i%len(t.slices)]
}

// Borrow acquires from the next slice in round-robin order.
func (t *ThreadAffinityPool[R]) Borrow() *Future[*PooledRef[R]] {
	i := t.rr.Add(1) - 1
	return t.slices[int(i)%len(t.slices)].Borrow()
}

// BorrowCtx acquires from the next slice in round-robin order, blocking
// the calling goroutine as Pool.BorrowCtx does.
func (t *ThreadAffinityPool[R]) BorrowCtx(ctx context.Context) (*PooledRef[R], error) {
	i := t.rr.Add(1) - 1
	return t.slices[int(i)%len(t.slices)].BorrowCtx(ctx)
}

// Dispose shuts down every slice.
func (t *ThreadAffinityPool[R]) Dispose() {
	for _, p := range t.slices {
		p.Dispose()
	}
}

// Stats aggregates Stats across every slice.
func (t *ThreadAffinityPool[R]) Stats() Stats {
	var agg Stats
	for _, p := range t.slices {
		s := p.Stats()
		agg.MaxSize += s.MaxSize
		agg.Live += s.Live
		agg.Available += s.Available
		agg.Pending += s.Pending
		agg.AcquiredTotal += s.AcquiredTotal
		agg.ReleasedTotal += s.ReleasedTotal
		agg.AllocatedTotal += s.AllocatedTotal
		agg.DestroyedTotal += s.DestroyedTotal
	}
	return agg
}
