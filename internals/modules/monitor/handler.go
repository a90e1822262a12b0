package monitor

import (
	"context"
	"net/http"
	"time"

	"powermon/pkg/apperror"
	"powermon/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// CycleTrigger starts a cycle through the same skip-if-running guard the ticker uses.
type CycleTrigger interface {
	TriggerNow(ctx context.Context) (CycleSummary, error)
}

type Handler struct {
	orchestrator *Orchestrator
	trigger      CycleTrigger
}

func NewHandler(orchestrator *Orchestrator, trigger CycleTrigger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		trigger:      trigger,
	}
}

// POST /cycles
func (h *Handler) RunCycle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	summary, err := h.trigger.TriggerNow(ctx)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.CycleCompleted, toSummaryResponse(summary))
}

// POST /checkpoints/{checkpointID}/check
func (h *Handler) CheckCheckpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	id, err := uuid.Parse(chi.URLParam(r, "checkpointID"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "invalid checkpoint id")
		return
	}

	res, err := h.orchestrator.ProbeOne(ctx, id, time.Now())
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.CheckpointChecked, toResultResponse(res))
}
