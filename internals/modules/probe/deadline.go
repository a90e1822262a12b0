package probe

import (
	"context"
	"fmt"
	"time"

	"powermon/pkg/apperror"
)

type deadlineProber struct {
	inner Prober
	grace time.Duration
}

// WithDeadline bounds any prober to timeout+grace. A check that has not answered
// by then is reported as a timeout and its goroutine is left to finish on its own.
func WithDeadline(p Prober, grace time.Duration) Prober {
	return &deadlineProber{inner: p, grace: grace}
}

func (d *deadlineProber) Probe(ctx context.Context, address string, timeout time.Duration) Result {
	limit := timeout + d.grace

	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	// buffered so a late inner result never blocks
	out := make(chan Result, 1)
	go func() {
		out <- d.inner.Probe(ctx, address, timeout)
	}()

	select {
	case res := <-out:
		return res
	case <-ctx.Done():
		return Failed(apperror.ProbeTimeout, fmt.Sprintf("probe did not complete within %s", limit))
	}
}
