package observation

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListPowerChecks)
	r.Get("/uptime/{checkpointID}", h.GetUptime)

	return r
}

/*
- GET: /power-checks?switch_id={}&hours={}&limit={}  -> recent observations, newest first
	hours default 24, limit default 1000

- GET: /power-checks/uptime/{checkpointID}?hours={}  -> uptime percentage over the window
	hours default 24
*/
