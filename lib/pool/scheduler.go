package pool

// Scheduler names the execution context a completion is delivered on. It
// is the Go realization of spec.md's scheduler/executor abstraction: a
// place work can be handed off to instead of running inline on whichever
// goroutine happens to be holding the pool's internal state.
type Scheduler interface {
	// Schedule runs fn according to the scheduler's policy: either before
	// returning (InlineScheduler) or on another goroutine
	// (GoroutineScheduler).
	Schedule(fn func())
}

// InlineScheduler runs fn synchronously, on the calling goroutine. It
// matches the pool's behavior with no DeliveryContext set, where
// completions happen on whichever goroutine the pool's drain loop is
// running on, per the pool's documented delivery-thread contract.
type InlineScheduler struct{}

// Schedule runs fn immediately on the calling goroutine.
func (InlineScheduler) Schedule(fn func()) {
	fn()
}

// GoroutineScheduler runs fn on a newly spawned goroutine. Useful as a
// DeliveryContext when a caller wants completions to never run on the
// pool's own drain goroutine, at the cost of losing the "delivered
// synchronously on a warm hit" fast path.
type GoroutineScheduler struct{}

// Schedule spawns a goroutine to run fn.
func (GoroutineScheduler) Schedule(fn func()) {
	go fn()
}

var (
	_ Scheduler = InlineScheduler{}
	_ Scheduler = GoroutineScheduler{}
)
