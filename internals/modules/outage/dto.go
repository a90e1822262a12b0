package outage

import "time"

type OutageResponse struct {
	ID               string     `json:"id"`
	StartedAt        time.Time  `json:"start_time"`
	EndedAt          *time.Time `json:"end_time"`
	DurationSeconds  *int64     `json:"duration_seconds"`
	SwitchesAffected []string   `json:"switches_affected"`
	Ongoing          bool       `json:"is_ongoing"`
}

type ListOutagesResponse struct {
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	Outages []OutageResponse `json:"outages"`
}

func ToResponse(o Outage) OutageResponse {
	affected := make([]string, 0, len(o.Affected))
	for _, id := range o.Affected {
		affected = append(affected, id.String())
	}
	return OutageResponse{
		ID:               o.ID.String(),
		StartedAt:        o.StartedAt,
		EndedAt:          o.EndedAt,
		DurationSeconds:  o.DurationSeconds,
		SwitchesAffected: affected,
		Ongoing:          o.Ongoing,
	}
}
