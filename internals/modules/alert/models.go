package alert

import (
	"time"

	"powermon/internals/modules/outage"

	"github.com/google/uuid"
)

type AlertEvent struct {
	Kind   outage.TransitionKind
	Outage outage.Outage
}

// At is when the transition happened.
func (e AlertEvent) At() time.Time {
	if e.Kind == outage.TransitionClosed && e.Outage.EndedAt != nil {
		return *e.Outage.EndedAt
	}
	return e.Outage.StartedAt
}

// OutagePayload is the body of outage.opened and outage.closed events.
type OutagePayload struct {
	OutageID            uuid.UUID   `json:"outage_id"`
	StartedAt           time.Time   `json:"started_at"`
	EndedAt             *time.Time  `json:"ended_at,omitempty"`
	DurationSeconds     *int64      `json:"duration_seconds,omitempty"`
	AffectedCheckpoints []uuid.UUID `json:"affected_checkpoints"`
}

func toPayload(o outage.Outage) OutagePayload {
	affected := o.Affected
	if affected == nil {
		affected = []uuid.UUID{}
	}
	return OutagePayload{
		OutageID:            o.ID,
		StartedAt:           o.StartedAt,
		EndedAt:             o.EndedAt,
		DurationSeconds:     o.DurationSeconds,
		AffectedCheckpoints: affected,
	}
}
