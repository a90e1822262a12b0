package monitor

import (
	"time"

	"powermon/internals/modules/outage"
	"powermon/pkg/apperror"

	"github.com/google/uuid"
)

// CheckpointResult is what one checkpoint contributed to a cycle.
type CheckpointResult struct {
	CheckpointID  uuid.UUID
	Name          string
	Address       string
	Reachable     bool
	Latency       *time.Duration
	Reason        string
	Kind          apperror.Kind // empty when reachable
	ObservationID int64         // 0 when the observation could not be recorded
}

type CycleSummary struct {
	StartedAt  time.Time
	Duration   time.Duration
	Total      int
	Online     int
	Offline    int
	Results    []CheckpointResult
	Transition outage.Transition

	// OutageErr is set when the outage transition could not be persisted. The
	// tracker kept its previous state and retries on the next cycle.
	OutageErr error
}

// Failed lists the checkpoints counted as offline, with their failure kind.
func (s CycleSummary) Failed() []CheckpointResult {
	out := make([]CheckpointResult, 0, s.Offline)
	for _, r := range s.Results {
		if !r.Reachable {
			out = append(out, r)
		}
	}
	return out
}
