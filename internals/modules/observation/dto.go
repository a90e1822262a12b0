package observation

import "time"

type ObservationResponse struct {
	ID           int64     `json:"id"`
	CheckpointID string    `json:"switch_id"`
	Reachable    bool      `json:"is_online"`
	ResponseMs   *float64  `json:"response_time_ms"`
	Error        *string   `json:"error_message"`
	FailureKind  string    `json:"failure_kind,omitempty"`
	CheckedAt    time.Time `json:"checked_at"`
}

type UptimeResponse struct {
	CheckpointID string  `json:"switch_id"`
	Hours        int     `json:"hours"`
	Uptime       float64 `json:"uptime_percentage"`
}

func ToResponse(o Observation) ObservationResponse {
	resp := ObservationResponse{
		ID:           o.ID,
		CheckpointID: o.CheckpointID.String(),
		Reachable:    o.Reachable,
		Error:        o.Reason,
		FailureKind:  string(o.FailureKind),
		CheckedAt:    o.CheckedAt,
	}
	if o.Latency != nil {
		ms := float64(*o.Latency) / float64(time.Millisecond)
		resp.ResponseMs = &ms
	}
	return resp
}

func ToResponses(list []Observation) []ObservationResponse {
	out := make([]ObservationResponse, 0, len(list))
	for i := range list {
		out = append(out, ToResponse(list[i]))
	}
	return out
}
