package checkpoint

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts checkpoint management. check serves the on-demand probe of one
// checkpoint and is owned by the monitor module.
func Routes(h *Handler, check http.HandlerFunc) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateCheckpoint)
	r.Get("/", h.ListCheckpoints)
	r.Get("/{checkpointID}", h.GetCheckpoint)
	r.Patch("/{checkpointID}", h.UpdateCheckpointStatus)
	r.Delete("/{checkpointID}", h.DeleteCheckpoint)
	r.Post("/{checkpointID}/check", check)

	return r
}

/*
- POST: /checkpoints  -> add a switch
	body : CreateCheckpointRequest
	resp : CheckpointResponse

- GET: /checkpoints?active_only={}  -> list switches
	resp : []CheckpointResponse

- GET: /checkpoints/{checkpointID} -> switch with its recent checks
	resp : CheckpointDetailResponse

- PATCH: /checkpoints/{checkpointID} -> activate / deactivate
	body : UpdateCheckpointStatusRequest
	resp : CheckpointResponse

- DELETE: /checkpoints/{checkpointID} -> remove switch and its checks

- POST: /checkpoints/{checkpointID}/check -> probe now, outage state untouched
*/
