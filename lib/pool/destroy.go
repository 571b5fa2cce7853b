package pool

import (
	"io"

	perrors "github.com/go-i2p/reactivepool/lib/errors"
)

// Disposer is a narrower teardown capability than io.Closer: a resource
// implements it when destruction cannot fail. The pool prefers a
// configured Destructor, then io.Closer, then Disposer, in that order.
type Disposer interface {
	Dispose()
}

// destroyResource tears v down using, in priority order, an explicit
// Destructor, the resource's own io.Closer capability, or its Disposer
// capability. Failures are logged and never propagate: a broken closer
// must never block the pool or leak back to a caller.
func destroyResource[R any](v R, destructor Destructor[R]) {
	if destructor != nil {
		if err := destructor(v); err != nil {
			perrors.LogDestruction(err)
		}
		return
	}

	switch res := any(v).(type) {
	case io.Closer:
		if err := res.Close(); err != nil {
			perrors.LogDestruction(err)
		}
	case Disposer:
		res.Dispose()
	}
}
