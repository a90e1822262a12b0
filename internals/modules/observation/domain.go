package observation

import (
	"time"

	"powermon/pkg/apperror"

	"github.com/google/uuid"
)

// Observation is one probe result for one checkpoint. It is written once and never updated.
type Observation struct {
	ID           int64
	CheckpointID uuid.UUID
	CheckedAt    time.Time
	Reachable    bool
	Latency      *time.Duration // only when Reachable
	Reason       *string        // only when not Reachable
	FailureKind  apperror.Kind
}

type Filter struct {
	CheckpointID *uuid.UUID
	Since        time.Time
	Limit        int
}

// Totals are fleet wide check counts since a point in time.
type Totals struct {
	Total  int64
	Failed int64
}

func (t Totals) SuccessRate() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Total-t.Failed) * 100 / float64(t.Total)
}
