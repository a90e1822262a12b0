package probe

import (
	"context"
	"time"

	"powermon/pkg/apperror"
)

// Prober performs exactly one reachability test. Implementations never retry and
// never return an error: every failure is folded into the Result.
type Prober interface {
	Probe(ctx context.Context, address string, timeout time.Duration) Result
}

type Result struct {
	Reachable bool
	Latency   *time.Duration // set only when Reachable
	Reason    string         // set only when not Reachable
	Kind      apperror.Kind  // ProbeTimeout, ProbeUnreachable or ProbeMechanism; empty when Reachable
}

func Online(latency time.Duration) Result {
	return Result{Reachable: true, Latency: &latency}
}

func Failed(kind apperror.Kind, reason string) Result {
	return Result{Reachable: false, Kind: kind, Reason: reason}
}

// ProberFunc adapts a plain function to the Prober interface.
type ProberFunc func(ctx context.Context, address string, timeout time.Duration) Result

func (f ProberFunc) Probe(ctx context.Context, address string, timeout time.Duration) Result {
	return f(ctx, address, timeout)
}
