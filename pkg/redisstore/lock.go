package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cycleLockKey string = "powermon:cycle:lock"

// only the holder of the token may release the lock
const releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

var ErrLockHeld = errors.New("cycle lock is held by another runner")

// AcquireCycleLock takes the fleet-wide cycle lock. The returned release func
// is safe to call once the cycle is over; the ttl bounds a crashed holder.
func (c *Client) AcquireCycleLock(ctx context.Context, ttl time.Duration) (func(context.Context) error, error) {
	token := uuid.NewString()

	ok, err := c.rdb.SetNX(ctx, cycleLockKey, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func(ctx context.Context) error {
		err := c.rdb.Eval(ctx, releaseLockScript, []string{cycleLockKey}, token).Err()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	return release, nil
}
