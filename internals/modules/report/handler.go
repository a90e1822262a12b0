package report

import (
	"net/http"
	"time"

	"powermon/pkg/utils"

	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	st, err := h.service.Status(ctx, time.Now())
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.StatusRetrieved, toStatusResponse(st))
}

// /statistics?hours=168
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	window := utils.QueryHours(r, int(DefaultStatsWindow/time.Hour))
	stats, err := h.service.Statistics(ctx, window, time.Now())
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.StatisticsRetrieved, toStatisticsResponse(stats))
}
