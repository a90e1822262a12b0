package monitor

import (
	"context"

	"powermon/pkg/redisstore"

	"github.com/google/uuid"
)

// StatusCache mirrors the latest result per checkpoint. Writes are best effort.
type StatusCache interface {
	StoreStatus(ctx context.Context, checkpointID uuid.UUID, s redisstore.CheckpointStatus) error
}
