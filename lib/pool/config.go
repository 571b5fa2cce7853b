package pool

import (
	"time"

	perrors "github.com/go-i2p/reactivepool/lib/errors"
)

// Allocator produces a new Poolable resource as a deferred computation.
// It is invoked by the pool whenever admission control allows growing the
// live set; the returned Future must eventually complete exactly once.
type Allocator[R any] func() *Future[R]

// ReleaseHandler runs arbitrary cleanup (flush, reset, validate) before a
// resource is returned to the available queue. Returning a non-nil error
// destroys the resource instead of recycling it.
type ReleaseHandler[R any] func(R) error

// Destructor tears down a resource permanently (on release-handler
// failure, on eviction, or on pool Dispose). If nil, the pool falls back
// to the resource's own Disposer/io.Closer capability, if any.
type Destructor[R any] func(R) error

// InvalidationPredicate is a pure predicate over a ref, evaluated on
// every release before ReleaseHandler runs. Returning true marks the
// resource unhealthy: it is destroyed instead of being recycled, and
// ReleaseHandler never sees it.
type InvalidationPredicate[R any] func(*PooledRef[R]) bool

// PoolConfig describes how a Pool[R] is built. Construct one with
// NewPoolConfig and zero or more Option values.
type PoolConfig[R any] struct {
	// Allocator creates new resources. Required.
	Allocator Allocator[R]

	// MaxSize bounds the number of simultaneously live resources.
	// Default: 10.
	MaxSize int

	// InitialSize is how many resources are eagerly allocated when the
	// pool is constructed (initial fill only — no ongoing pre-warming).
	// Default: 0.
	InitialSize int

	// AcquireTimeout bounds how long BorrowCtx waits on a context with no
	// deadline of its own. Zero means wait indefinitely.
	// Default: 0 (no timeout).
	AcquireTimeout time.Duration

	// ReleaseHandler runs on every release before the resource is
	// recycled. Optional.
	ReleaseHandler ReleaseHandler[R]

	// InvalidationPredicate classifies a released resource as unhealthy.
	// Evaluated before ReleaseHandler; a true verdict destroys the
	// resource instead of running ReleaseHandler and recycling it.
	// Optional.
	InvalidationPredicate InvalidationPredicate[R]

	// Destructor tears down a resource being evicted or discarded.
	// Optional; falls back to Disposer/io.Closer.
	Destructor Destructor[R]

	// DeliveryContext, if set, is the Scheduler used to deliver every
	// Borrow completion (success or error), overriding the default
	// delivery-thread contract (warm hit: borrower's goroutine;
	// allocation: allocator's goroutine; pending: releaser's goroutine).
	DeliveryContext Scheduler

	// Name labels every log line this pool emits, for operators running
	// multiple pools in one process. Optional.
	Name string
}

// Option mutates a PoolConfig during construction.
type Option[R any] func(*PoolConfig[R])

// WithMaxSize sets the maximum number of simultaneously live resources.
func WithMaxSize[R any](n int) Option[R] {
	return func(c *PoolConfig[R]) { c.MaxSize = n }
}

// WithInitialSize sets how many resources are allocated up front.
func WithInitialSize[R any](n int) Option[R] {
	return func(c *PoolConfig[R]) { c.InitialSize = n }
}

// WithAcquireTimeout sets the default BorrowCtx timeout for contexts with
// no deadline of their own.
func WithAcquireTimeout[R any](d time.Duration) Option[R] {
	return func(c *PoolConfig[R]) { c.AcquireTimeout = d }
}

// WithReleaseHandler installs a ReleaseHandler run on every release.
func WithReleaseHandler[R any](h ReleaseHandler[R]) Option[R] {
	return func(c *PoolConfig[R]) { c.ReleaseHandler = h }
}

// WithInvalidationPredicate installs a health check run on every release,
// before ReleaseHandler, to decide whether a returning resource should be
// destroyed instead of recycled.
func WithInvalidationPredicate[R any](p InvalidationPredicate[R]) Option[R] {
	return func(c *PoolConfig[R]) { c.InvalidationPredicate = p }
}

// WithDestructor installs a Destructor for evicted/discarded resources.
func WithDestructor[R any](d Destructor[R]) Option[R] {
	return func(c *PoolConfig[R]) { c.Destructor = d }
}

// WithDeliveryContext overrides the scheduler used for completion
// delivery.
func WithDeliveryContext[R any](s Scheduler) Option[R] {
	return func(c *PoolConfig[R]) { c.DeliveryContext = s }
}

// WithName labels every log line this pool emits.
func WithName[R any](name string) Option[R] {
	return func(c *PoolConfig[R]) { c.Name = name }
}

// NewPoolConfig builds a PoolConfig from an allocator and options,
// applying defaults for anything not set.
func NewPoolConfig[R any](allocator Allocator[R], opts ...Option[R]) PoolConfig[R] {
	cfg := PoolConfig[R]{
		Allocator: allocator,
		MaxSize:   10,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// validate checks the config's invariants, returning a *perrors.Error
// wrapping ErrInvalidConfig on failure.
func (c PoolConfig[R]) validate() error {
	if c.Allocator == nil {
		return perrors.Wrap(perrors.CodeInvalidConfig, "pool: Allocator is required", perrors.ErrInvalidConfig)
	}
	if c.MaxSize <= 0 {
		return perrors.Wrap(perrors.CodeInvalidConfig, "pool: MaxSize must be > 0", perrors.ErrInvalidConfig)
	}
	if c.InitialSize < 0 {
		return perrors.Wrap(perrors.CodeInvalidConfig, "pool: InitialSize must be >= 0", perrors.ErrInvalidConfig)
	}
	if c.InitialSize > c.MaxSize {
		return perrors.Wrap(perrors.CodeInvalidConfig, "pool: InitialSize must be <= MaxSize", perrors.ErrInvalidConfig)
	}
	if c.AcquireTimeout < 0 {
		return perrors.Wrap(perrors.CodeInvalidConfig, "pool: AcquireTimeout must be >= 0", perrors.ErrInvalidConfig)
	}
	return nil
}
