package monitor

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.RunCycle)

	return r
}

/*
- POST: /cycles  -> run one monitoring cycle now
	resp : CycleSummaryResponse
	409 cycle_in_progress when a cycle is already running

- POST: /checkpoints/{checkpointID}/check is served by Handler.CheckCheckpoint
  and mounted under the checkpoint routes
*/
