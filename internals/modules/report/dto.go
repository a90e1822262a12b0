package report

import (
	"time"

	"powermon/internals/modules/observation"
	"powermon/internals/modules/outage"
)

type CachedStatusResponse struct {
	Reachable bool      `json:"is_online"`
	LatencyMs float64   `json:"response_time_ms"`
	Reason    string    `json:"error_message,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

type SwitchStatusResponse struct {
	ID        string                           `json:"id"`
	Name      string                           `json:"name"`
	Address   string                           `json:"ip_address"`
	LastCheck *observation.ObservationResponse `json:"last_check"`
	Uptime24h float64                          `json:"uptime_24h"`
	Cached    *CachedStatusResponse            `json:"cached_status,omitempty"`
}

type StatusResponse struct {
	Timestamp      time.Time               `json:"timestamp"`
	SystemHealth   float64                 `json:"system_health"`
	TotalSwitches  int                     `json:"total_switches"`
	OnlineSwitches int                     `json:"online_switches"`
	Switches       []SwitchStatusResponse  `json:"switches"`
	CurrentOutage  *outage.OutageResponse  `json:"current_outage"`
	RecentOutages  []outage.OutageResponse `json:"recent_outages"`
}

type StatisticsResponse struct {
	PeriodHours        int      `json:"period_hours"`
	TotalChecks        int64    `json:"total_checks"`
	FailedChecks       int64    `json:"failed_checks"`
	SuccessRate        float64  `json:"success_rate"`
	TotalOutages       int64    `json:"total_outages"`
	AvgOutageDurationS *float64 `json:"avg_outage_duration_seconds"`
}

func toStatusResponse(st SystemStatus) StatusResponse {
	resp := StatusResponse{
		Timestamp:      st.Timestamp,
		SystemHealth:   st.Health,
		TotalSwitches:  st.Total,
		OnlineSwitches: st.Online,
		Switches:       make([]SwitchStatusResponse, 0, len(st.Checkpoints)),
		RecentOutages:  make([]outage.OutageResponse, 0, len(st.RecentOutages)),
	}

	for _, cs := range st.Checkpoints {
		item := SwitchStatusResponse{
			ID:        cs.Checkpoint.ID.String(),
			Name:      cs.Checkpoint.Name,
			Address:   cs.Checkpoint.Address,
			Uptime24h: cs.Uptime24h,
		}
		if cs.Latest != nil {
			last := observation.ToResponse(*cs.Latest)
			item.LastCheck = &last
		}
		if cs.Cached != nil {
			item.Cached = &CachedStatusResponse{
				Reachable: cs.Cached.Reachable,
				LatencyMs: cs.Cached.LatencyMs,
				Reason:    cs.Cached.Reason,
				CheckedAt: cs.Cached.CheckedAt,
			}
		}
		resp.Switches = append(resp.Switches, item)
	}

	if st.CurrentOutage != nil {
		cur := outage.ToResponse(*st.CurrentOutage)
		resp.CurrentOutage = &cur
	}
	for i := range st.RecentOutages {
		resp.RecentOutages = append(resp.RecentOutages, outage.ToResponse(st.RecentOutages[i]))
	}

	return resp
}

func toStatisticsResponse(s Statistics) StatisticsResponse {
	return StatisticsResponse{
		PeriodHours:        int(s.Window / time.Hour),
		TotalChecks:        s.TotalChecks,
		FailedChecks:       s.FailedChecks,
		SuccessRate:        s.SuccessRate,
		TotalOutages:       s.TotalOutages,
		AvgOutageDurationS: s.AvgOutageDurationS,
	}
}
