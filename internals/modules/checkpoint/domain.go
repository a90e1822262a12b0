package checkpoint

import (
	"time"

	"github.com/google/uuid"
)

// Checkpoint is a network device whose reachability stands in for power at its location.
type Checkpoint struct {
	ID        uuid.UUID
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateCheckpointCmd struct {
	Name    string
	Address string
	Active  bool
}
