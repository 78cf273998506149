package context

import (
	"context"
	"testing"
	"time"
)

// WithTest derives a context which ends 1 second before the test deadline,
// leaving time to clean up.
func WithTest(ctx context.Context, t *testing.T) (context.Context, context.CancelFunc) {
	if deadline, ok := t.Deadline(); ok {
		return context.WithDeadline(ctx, deadline.Add(-time.Second))
	}
	return context.WithCancel(ctx)
}
