package outage

import (
	"time"

	"github.com/google/uuid"
)

// Outage is one contiguous interval in which the offline share of the fleet met the threshold.
type Outage struct {
	ID              uuid.UUID
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationSeconds *int64      // set once, at close
	Affected        []uuid.UUID // offline checkpoints at onset, never updated
	Ongoing         bool
}

// Sample is one checkpoint's verdict in a cycle.
type Sample struct {
	CheckpointID uuid.UUID
	Reachable    bool
}

type TransitionKind string

const (
	TransitionNone   TransitionKind = ""
	TransitionOpened TransitionKind = "opened"
	TransitionClosed TransitionKind = "closed"
)

type Transition struct {
	Kind   TransitionKind
	Outage Outage // zero when Kind is TransitionNone
}

func (t Transition) Happened() bool {
	return t.Kind != TransitionNone
}

type ListFilter struct {
	Since       time.Time
	OngoingOnly bool
	Limit       int
	Offset      int
}

type Stats struct {
	Total              int64
	AvgDurationSeconds *float64 // nil until an outage has closed in the window
}

func (o Outage) clone() Outage {
	cp := o
	cp.Affected = append([]uuid.UUID(nil), o.Affected...)
	return cp
}
