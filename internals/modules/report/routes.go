package report

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.GetStatus)
	r.Get("/statistics", h.GetStatistics)

	return r
}

/*
- GET: /status  -> active switches with last check and 24h uptime, system health,
	current outage and outages of the last 24h

- GET: /statistics?hours={}  -> check counts, success rate, outage count and
	average duration of closed outages; hours default 168
*/
