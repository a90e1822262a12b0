package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const statusTTL = 24 * time.Hour

// CheckpointStatus is the last observation of a checkpoint, mirrored for cheap dashboard reads.
type CheckpointStatus struct {
	Reachable bool
	LatencyMs float64
	Reason    string
	CheckedAt time.Time
}

func statusKey(checkpointID uuid.UUID) string {
	return fmt.Sprintf("powermon:status:%v", checkpointID)
}

func (c *Client) StoreStatus(ctx context.Context, checkpointID uuid.UUID, s CheckpointStatus) error {
	key := statusKey(checkpointID)

	return retry(ctx, 2, func() error {
		pipe := c.rdb.TxPipeline()
		pipe.HSet(ctx, key, map[string]any{
			"reachable":  s.Reachable,
			"latency_ms": s.LatencyMs,
			"reason":     s.Reason,
			"checked_at": s.CheckedAt.UnixMilli(),
		})
		pipe.Expire(ctx, key, statusTTL)
		_, err := pipe.Exec(ctx)
		return err
	})
}

// GetStatus returns nil, nil when nothing is cached for the checkpoint.
func (c *Client) GetStatus(ctx context.Context, checkpointID uuid.UUID) (*CheckpointStatus, error) {
	res, err := c.rdb.HGetAll(ctx, statusKey(checkpointID)).Result()
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, nil
	}

	reachable, _ := strconv.ParseBool(res["reachable"])
	latency, _ := strconv.ParseFloat(res["latency_ms"], 64)
	checkedAt, _ := strconv.ParseInt(res["checked_at"], 10, 64)

	return &CheckpointStatus{
		Reachable: reachable,
		LatencyMs: latency,
		Reason:    res["reason"],
		CheckedAt: time.UnixMilli(checkedAt).UTC(),
	}, nil
}

func (c *Client) DelStatus(ctx context.Context, checkpointID uuid.UUID) error {
	return c.rdb.Del(ctx, statusKey(checkpointID)).Err()
}
