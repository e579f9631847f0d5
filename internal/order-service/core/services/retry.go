package services

import (
	"context"
	"time"

	"freightflow/internal/order-service/core/myerrors"
)

const (
	maxDeleteAttempts = 3
	retryBaseDelay    = 200 * time.Millisecond
)

// withRetry re-runs fn for transient storage errors only, with the delay
// growing by attempt number. Conflicts and validation failures are
// returned immediately.
func withRetry(ctx context.Context, attempts int, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !myerrors.IsKind(err, myerrors.KindTransient) {
			return err
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return myerrors.Transient("retry aborted", ctx.Err())
		case <-time.After(time.Duration(attempt) * retryBaseDelay):
		}
	}
	return err
}
