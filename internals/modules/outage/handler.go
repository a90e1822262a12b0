package outage

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

// /outages?hours=168&ongoing_only=false&limit=100&offset=0
func (h *Handler) ListOutages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	f := ListFilter{
		Since:       time.Now().Add(-utils.QueryHours(r, int(DefaultHistoryWindow/time.Hour))),
		OngoingOnly: utils.QueryBool(r, "ongoing_only"),
		Limit:       utils.QueryInt(r, "limit", DefaultPageSize, 1, 1000),
		Offset:      utils.QueryInt(r, "offset", 0, 0, 1<<30),
	}

	list, total, err := h.service.List(ctx, f)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	resp := ListOutagesResponse{
		Total:   total,
		Limit:   f.Limit,
		Offset:  f.Offset,
		Outages: make([]OutageResponse, 0, len(list)),
	}
	for i := range list {
		resp.Outages = append(resp.Outages, ToResponse(list[i]))
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "", resp)
}

func (h *Handler) GetCurrentOutage(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	o, ok := h.service.Current()
	if !ok {
		utils.WriteJSON[*OutageResponse](w, http.StatusOK, reqID, utils.NoOngoingOutage, nil)
		return
	}

	resp := ToResponse(o)
	utils.WriteJSON(w, http.StatusOK, reqID, "", &resp)
}
