package report

import (
	"time"

	"powermon/internals/modules/checkpoint"
	"powermon/internals/modules/observation"
	"powermon/internals/modules/outage"
	"powermon/pkg/redisstore"
)

type CheckpointStatus struct {
	Checkpoint checkpoint.Checkpoint
	Latest     *observation.Observation // nil before the first probe
	Uptime24h  float64
	Cached     *redisstore.CheckpointStatus
}

// SystemStatus is the dashboard snapshot. Health is the share of active
// checkpoints whose latest observation is reachable.
type SystemStatus struct {
	Timestamp     time.Time
	Health        float64
	Total         int
	Online        int
	Checkpoints   []CheckpointStatus
	CurrentOutage *outage.Outage
	RecentOutages []outage.Outage
}

type Statistics struct {
	Window             time.Duration
	TotalChecks        int64
	FailedChecks       int64
	SuccessRate        float64
	TotalOutages       int64
	AvgOutageDurationS *float64
}
