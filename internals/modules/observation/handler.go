package observation

import (
	"net/http"
	"time"

	"powermon/pkg/apperror"
	"powermon/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GET /power-checks?switch_id={}&hours={}&limit={}
func (h *Handler) ListPowerChecks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	f := Filter{
		Since: time.Now().Add(-utils.QueryHours(r, int(DefaultListWindow/time.Hour))),
		Limit: utils.QueryInt(r, "limit", DefaultListLimit, 1, 10000),
	}
	if raw := r.URL.Query().Get("switch_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "invalid switch_id")
			return
		}
		f.CheckpointID = &id
	}

	list, err := h.service.Recent(ctx, f)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "", ToResponses(list))
}

// GET /power-checks/uptime/{checkpointID}?hours={}
func (h *Handler) GetUptime(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "checkpointID"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "invalid checkpoint id")
		return
	}

	window := utils.QueryHours(r, 24)
	uptime, err := h.service.Uptime(ctx, id, window, time.Now())
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "", UptimeResponse{
		CheckpointID: id.String(),
		Hours:        int(window / time.Hour),
		Uptime:       uptime,
	})
}
