// Package ctxutil provides context utility functions.
package ctxutil

import (
	"context"
	"time"
)

// Canceled reports the context error once ctx is done (Canceled or DeadlineExceeded),
// nil otherwise. Used at the entry of every blocking step.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// WithOptionalTimeout derives a context bounded by d. A non-positive d means
// no deadline; the returned cancel func must still be called.
func WithOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// DeadlineHit reports whether ctx ended because its own deadline passed,
// as opposed to an explicit cancellation by the caller.
func DeadlineHit(ctx context.Context) bool {
	return ctx.Err() != nil && context.Cause(ctx) == context.DeadlineExceeded
}
