package services

import (
	"context"
	"time"

	"github.com/felt-labs/tellscan-cli/internal/logger"
)

// retryBackoff is the pause before the single retry of a failed provider call.
const retryBackoff = 500 * time.Millisecond

// withRetry runs fn, and on failure retries exactly once after a short
// backoff. Provider failures beyond that are returned to the caller, which
// downgrades them to partial results rather than aborting the request.
func withRetry(ctx context.Context, name string, fn func(context.Context) error) error {
	err := fn(ctx)
	if err == nil {
		return nil
	}
	logger.Warn("%s failed, retrying once: %v", name, err)

	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return ctx.Err()
	}

	return fn(ctx)
}
