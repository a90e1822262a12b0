package monitor

import (
	"time"

	"powermon/internals/modules/outage"
)

type CheckpointResultResponse struct {
	CheckpointID  string   `json:"switch_id"`
	Name          string   `json:"name"`
	Address       string   `json:"ip_address"`
	Reachable     bool     `json:"is_online"`
	ResponseMs    *float64 `json:"response_time_ms"`
	Error         string   `json:"error_message,omitempty"`
	FailureKind   string   `json:"failure_kind,omitempty"`
	ObservationID int64    `json:"power_check_id,omitempty"`
}

type CycleSummaryResponse struct {
	StartedAt  time.Time                  `json:"started_at"`
	DurationMs int64                      `json:"duration_ms"`
	Total      int                        `json:"total"`
	Online     int                        `json:"online"`
	Offline    int                        `json:"offline"`
	Transition string                     `json:"outage_transition,omitempty"`
	Outage     *outage.OutageResponse     `json:"outage,omitempty"`
	OutageErr  string                     `json:"outage_error,omitempty"`
	Results    []CheckpointResultResponse `json:"results"`
}

func toResultResponse(r CheckpointResult) CheckpointResultResponse {
	resp := CheckpointResultResponse{
		CheckpointID:  r.CheckpointID.String(),
		Name:          r.Name,
		Address:       r.Address,
		Reachable:     r.Reachable,
		Error:         r.Reason,
		FailureKind:   string(r.Kind),
		ObservationID: r.ObservationID,
	}
	if r.Latency != nil {
		ms := float64(*r.Latency) / float64(time.Millisecond)
		resp.ResponseMs = &ms
	}
	return resp
}

func toSummaryResponse(s CycleSummary) CycleSummaryResponse {
	resp := CycleSummaryResponse{
		StartedAt:  s.StartedAt,
		DurationMs: s.Duration.Milliseconds(),
		Total:      s.Total,
		Online:     s.Online,
		Offline:    s.Offline,
		Transition: string(s.Transition.Kind),
		Results:    make([]CheckpointResultResponse, 0, len(s.Results)),
	}
	if s.Transition.Happened() {
		o := outage.ToResponse(s.Transition.Outage)
		resp.Outage = &o
	}
	if s.OutageErr != nil {
		resp.OutageErr = s.OutageErr.Error()
	}
	for _, r := range s.Results {
		resp.Results = append(resp.Results, toResultResponse(r))
	}
	return resp
}
