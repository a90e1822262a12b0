package checkpoint

import (
	"time"

	"powermon/internals/modules/observation"
)

type CreateCheckpointRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"ip_address" validate:"required,max=255"`
}

type UpdateCheckpointStatusRequest struct {
	Active *bool `json:"is_active" validate:"required"`
}

type CheckpointResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"ip_address"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CheckpointDetailResponse struct {
	CheckpointResponse
	RecentChecks []observation.ObservationResponse `json:"recent_checks"`
}

func ToResponse(c Checkpoint) CheckpointResponse {
	return CheckpointResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Address:   c.Address,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
