package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"powermon/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type purgerFunc func(ctx context.Context, maxAge time.Duration, now time.Time) (int64, error)

func (f purgerFunc) Purge(ctx context.Context, maxAge time.Duration, now time.Time) (int64, error) {
	return f(ctx, maxAge, now)
}

func TestJanitor_PurgesWithRetentionWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan time.Duration, 1)

	purger := purgerFunc(func(ctx context.Context, maxAge time.Duration, now time.Time) (int64, error) {
		select {
		case got <- maxAge:
		default:
		}
		return 3, nil
	})
	log := zerolog.Nop()
	j := NewJanitor(ctx, config.RetentionConfig{MaxAge: 30 * 24 * time.Hour, Interval: time.Hour}, purger, &log)

	done := make(chan struct{})
	go func() {
		j.Run()
		close(done)
	}()

	select {
	case maxAge := <-got:
		assert.Equal(t, 30*24*time.Hour, maxAge)
	case <-time.After(time.Second):
		t.Fatal("janitor did not purge on start")
	}

	cancel()
	<-done
}

func TestJanitor_ErrorDoesNotStopLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	purger := purgerFunc(func(ctx context.Context, maxAge time.Duration, now time.Time) (int64, error) {
		calls <- struct{}{}
		return 0, errors.New("connection reset")
	})
	log := zerolog.Nop()
	j := NewJanitor(ctx, config.RetentionConfig{MaxAge: time.Hour, Interval: 5 * time.Millisecond}, purger, &log)
	go j.Run()

	for range 2 {
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatal("janitor stopped after a failed purge")
		}
	}
}
