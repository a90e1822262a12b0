package scheduler

import (
	"context"
	"time"

	"powermon/config"
	"powermon/pkg/metrics"

	"github.com/rs/zerolog"
)

type Purger interface {
	Purge(ctx context.Context, maxAge time.Duration, now time.Time) (int64, error)
}

// Janitor is a background process that purges observations past the retention window.
type Janitor struct {
	// lifecycle
	ctx      context.Context
	interval time.Duration
	maxAge   time.Duration

	// services
	purger Purger

	// misc
	logger *zerolog.Logger
}

func NewJanitor(
	ctx context.Context,
	retention config.RetentionConfig,
	purger Purger,
	logger *zerolog.Logger,
) *Janitor {

	return &Janitor{
		ctx:      ctx,
		interval: retention.Interval, // daily is plenty
		maxAge:   retention.MaxAge,   // 30 days by default
		purger:   purger,
		logger:   logger,
	}
}

// Run starts the Janitor
func (j *Janitor) Run() {
	if j.interval <= 0 {
		panic("janitor interval must be > 0")
	}
	j.logger.Info().Msg("Janitor started")
	ticker := time.NewTicker(j.interval)
	defer func() {
		ticker.Stop()
		j.logger.Info().Msg("Janitor stopped")
	}()

	j.doWork()
	for {
		select {
		case <-j.ctx.Done():
			return

		case <-ticker.C:
			j.doWork()
		}
	}
}

func (j *Janitor) doWork() {
	deleted, err := j.purger.Purge(j.ctx, j.maxAge, time.Now())
	if err != nil {
		// transient db error → log & try again next tick
		j.logger.Error().Err(err).Msg("error purging old power checks")
		return
	}
	metrics.AddRetentionDeleted(deleted)
}
