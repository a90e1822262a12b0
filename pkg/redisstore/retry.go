package redisstore

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const retryStep = 50 * time.Millisecond

// retry runs fn up to attempts times, 50ms apart, giving up early when ctx ends.
func retry(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(retryStep), uint64(attempts-1))
	return backoff.Retry(fn, backoff.WithContext(b, ctx))
}
