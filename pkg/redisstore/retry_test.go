package redisstore

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRetry_StopsOnSuccess(t *testing.T) {
	calls := 0
	err := retry(context.Background(), 3, func() error {
		calls++
		if calls < 2 {
			return errors.New("i/o timeout")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetry_ReturnsLastError(t *testing.T) {
	boom := errors.New("connection reset")
	calls := 0
	err := retry(context.Background(), 2, func() error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retry(ctx, 5, func() error {
		calls++
		return errors.New("i/o timeout")
	})

	assert.Error(t, err)
	assert.LessOrEqual(t, calls, 1)
}

func TestStatusKey(t *testing.T) {
	assert.Equal(t, "powermon:status:00000000-0000-0000-0000-000000000000", statusKey(uuid.Nil))
}
