// poolstress drives a reactive object pool under concurrent load and
// reports how the live/available/pending counts moved.
//
// Usage:
//
//	poolstress [flags]
//
// Flags:
//
//	-workers int
//	    Number of concurrent borrowers (default 16)
//	-max-size int
//	    Pool MaxSize (default 8)
//	-initial-size int
//	    Pool InitialSize (default 0)
//	-iterations int
//	    Borrow/release cycles per worker (default 200)
//	-hold time.Duration
//	    Simulated time each borrower holds its resource (default 1ms)
//	-alloc-latency time.Duration
//	    Simulated allocator latency (default 5ms)
//	-version
//	    Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-i2p/reactivepool/lib/pool"
	"github.com/go-i2p/reactivepool/version"
	"golang.org/x/sync/errgroup"
)

// resource is a trivial poolable buffer standing in for an expensive
// handle (a DB connection, a parser, a codec).
type resource struct {
	id int
}

func main() {
	os.Exit(run())
}

func run() int {
	workers := flag.Int("workers", 16, "number of concurrent borrowers")
	maxSize := flag.Int("max-size", 8, "pool MaxSize")
	initialSize := flag.Int("initial-size", 0, "pool InitialSize")
	iterations := flag.Int("iterations", 200, "borrow/release cycles per worker")
	hold := flag.Duration("hold", time.Millisecond, "simulated time each borrower holds its resource")
	allocLatency := flag.Duration("alloc-latency", 5*time.Millisecond, "simulated allocator latency")
	showVersion := flag.Bool("version", false, "print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "poolstress - reactive object pool load generator\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n  poolstress [flags]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Full())
		return 0
	}

	var nextID int32
	cfg := pool.NewPoolConfig(
		func() *pool.Future[*resource] {
			return pool.NewFuture(func(f *pool.Future[*resource]) {
				go func() {
					time.Sleep(*allocLatency)
					id := atomic.AddInt32(&nextID, 1)
					f.CompleteSuccess(&resource{id: int(id)})
				}()
			})
		},
		pool.WithMaxSize[*resource](*maxSize),
		pool.WithInitialSize[*resource](*initialSize),
	)

	p, err := pool.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "poolstress: %v\n", err)
		return 1
	}
	defer p.Dispose()

	start := time.Now()
	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < *workers; w++ {
		g.Go(func() error {
			for i := 0; i < *iterations; i++ {
				_, err := pool.BorrowInScope(ctx, p, func(ctx context.Context, r *resource) (struct{}, error) {
					time.Sleep(*hold)
					return struct{}{}, nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "poolstress: %v\n", err)
		return 1
	}

	elapsed := time.Since(start)
	stats := p.Stats()
	total := (*workers) * (*iterations)
	fmt.Printf("completed %d borrows across %d workers in %s\n", total, *workers, elapsed)
	fmt.Printf("final stats: maxSize=%d live=%d available=%d pending=%d\n",
		stats.MaxSize, stats.Live, stats.Available, stats.Pending)
	return 0
}
