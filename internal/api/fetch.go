package api

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// withTimeout derives the per-request deadline. The request is aborted when
// the deadline fires, so the whole exchange (body decode included) must run
// under the returned context.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// classify maps context expiry onto ErrTimeout/ErrAborted so callers can treat
// both like any other failure.
func classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("%w: %w", ErrAborted, err)
	}
	return err
}
