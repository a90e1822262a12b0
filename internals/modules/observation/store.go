package observation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the append-only observation log. Record must be durable before it returns.
type Store interface {
	Record(ctx context.Context, o Observation) (Observation, error)
	CountInWindow(ctx context.Context, checkpointID uuid.UUID, since time.Time) (total, reachable int64, err error)
	Latest(ctx context.Context, checkpointID uuid.UUID) (*Observation, error)
	List(ctx context.Context, f Filter) ([]Observation, error)
	Totals(ctx context.Context, since time.Time) (Totals, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
