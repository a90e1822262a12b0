package checkpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"powermon/internals/modules/observation"
	"powermon/pkg/apperror"
	"powermon/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const recentChecksLimit = 50

type ObservationLister interface {
	Recent(ctx context.Context, f observation.Filter) ([]observation.Observation, error)
}

type Handler struct {
	service      *Service
	observations ObservationLister
	validator    *validator.Validate
}

func NewHandler(service *Service, observations ObservationLister, validator *validator.Validate) *Handler {
	return &Handler{
		service:      service,
		observations: observations,
		validator:    validator,
	}
}

func (h *Handler) CreateCheckpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	// decode request body
	var req CreateCheckpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "malformed body")
		return
	}

	// validate request body
	if err := h.validator.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, err.Error())
		return
	}

	c, err := h.service.Create(ctx, CreateCheckpointCmd{
		Name:    req.Name,
		Address: req.Address,
		Active:  true,
	})
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, reqID, utils.CheckpointCreated, ToResponse(c))
}

// /checkpoints?active_only=true
func (h *Handler) ListCheckpoints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	list, err := h.service.List(ctx, utils.QueryBool(r, "active_only"))
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	resp := make([]CheckpointResponse, 0, len(list))
	for i := range list {
		resp = append(resp, ToResponse(list[i]))
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "", resp)
}

func (h *Handler) GetCheckpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	id, ok := checkpointID(w, r, reqID)
	if !ok {
		return
	}

	c, err := h.service.Get(ctx, id)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	recent, err := h.observations.Recent(ctx, observation.Filter{
		CheckpointID: &id,
		Since:        time.Now().Add(-observation.DefaultListWindow),
		Limit:        recentChecksLimit,
	})
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, "", CheckpointDetailResponse{
		CheckpointResponse: ToResponse(c),
		RecentChecks:       observation.ToResponses(recent),
	})
}

// Patch : /checkpoints/{checkpointID}
//
//	{
//		"is_active": false
//	}
func (h *Handler) UpdateCheckpointStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	id, ok := checkpointID(w, r, reqID)
	if !ok {
		return
	}

	var req UpdateCheckpointStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "malformed body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, err.Error())
		return
	}

	c, err := h.service.SetActive(ctx, id, *req.Active)
	if err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, reqID, utils.CheckpointUpdated, ToResponse(c))
}

func (h *Handler) DeleteCheckpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	id, ok := checkpointID(w, r, reqID)
	if !ok {
		return
	}

	if err := h.service.Remove(ctx, id); err != nil {
		utils.FromAppError(w, reqID, err)
		return
	}

	utils.WriteJSON[any](w, http.StatusOK, reqID, utils.CheckpointRemoved, nil)
}

func checkpointID(w http.ResponseWriter, r *http.Request, reqID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "checkpointID"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, reqID, apperror.InvalidInput, "invalid checkpoint id")
		return uuid.Nil, false
	}
	return id, true
}
