package utils

const (
	CheckpointCreated   = "checkpoint created successfully"
	CheckpointUpdated   = "checkpoint updated successfully"
	CheckpointRemoved   = "checkpoint removed successfully"
	CheckpointChecked   = "checkpoint checked"
	CycleCompleted      = "monitoring cycle completed"
	NoOngoingOutage     = "no ongoing outage"
	StatusRetrieved     = "status retrieved"
	StatisticsRetrieved = "statistics retrieved"
)
