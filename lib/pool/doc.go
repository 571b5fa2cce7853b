// Package pool provides a reactive object pool: a bounded set of live,
// reusable resources handed out one borrower at a time.
//
// Borrowers acquire a resource asynchronously through a Future returned
// by Pool.Borrow, and return it by subscribing to the PooledRef's
// ReleaseHandle. The pool guarantees exactly-one delivery per acquisition,
// no resource leak across cancellation or shutdown, and a documented
// delivery-thread contract: the goroutine that completes a borrower's
// Future is the borrower's own subscribing goroutine when the pool is
// warm, the allocator's completion goroutine when allocation was needed,
// the releaser's goroutine when the borrower had to wait on another
// borrower's release, or the pool's configured DeliveryContext when one is
// set.
//
// # Basic usage
//
//	cfg := pool.NewPoolConfig(func() *pool.Future[net.Conn] {
//	    return pool.NewFuture(func(f *pool.Future[net.Conn]) {
//	        conn, err := net.Dial("tcp", "localhost:5432")
//	        if err != nil {
//	            f.CompleteError(err)
//	            return
//	        }
//	        f.CompleteSuccess(conn)
//	    })
//	}, pool.WithMaxSize[net.Conn](10))
//
//	p, err := pool.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer p.Dispose()
//
//	ref, err := p.BorrowCtx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer ref.ReleaseHandle().Subscribe(func(struct{}) {}, func(error) {})
//
//	// use ref.Poolable()...
//
// # Scoped acquisition
//
// BorrowInScope acquires, runs a function over the resource, and releases
// on every terminal outcome (return, error, or panic):
//
//	n, err := pool.BorrowInScope(ctx, p, func(ctx context.Context, conn net.Conn) (int, error) {
//	    return conn.Write(payload)
//	})
package pool
