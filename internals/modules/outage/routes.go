package outage

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListOutages)
	r.Get("/current", h.GetCurrentOutage)

	return r
}

/*
- GET: /outages?hours={}&ongoing_only={}&limit={}&offset={}  -> outage history, newest first
	hours default 168, limit default 100
	resp : ListOutagesResponse

- GET: /outages/current -> the ongoing outage or no data
*/
