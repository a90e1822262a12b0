package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"powermon/config"
	"powermon/internals/modules/monitor"
	"powermon/pkg/apperror"
	"powermon/pkg/metrics"
	"powermon/pkg/redisstore"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

type CycleRunner interface {
	RunCycle(ctx context.Context, now time.Time) (monitor.CycleSummary, error)
}

// Locker keeps replicas from running cycles at the same time.
type Locker interface {
	AcquireCycleLock(ctx context.Context, ttl time.Duration) (func(context.Context) error, error)
}

// Scheduler fires a monitoring cycle every interval. A tick that finds a cycle
// still running is skipped, never queued.
type Scheduler struct {
	// lifecycle
	ctx      context.Context
	interval time.Duration
	running  atomic.Bool

	// retry policy, applied to cycle level failures only
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration

	// services
	runner  CycleRunner
	locker  Locker // nil when redis is disabled
	lockTTL time.Duration

	// misc
	logger *zerolog.Logger
	now    func() time.Time
}

func NewScheduler(
	ctx context.Context,
	cfg config.SchedulerConfig,
	runner CycleRunner,
	locker Locker,
	logger *zerolog.Logger,
) *Scheduler {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Scheduler{
		ctx:            ctx,
		interval:       cfg.Interval,
		maxAttempts:    maxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		runner:         runner,
		locker:         locker,
		lockTTL:        cfg.LockTTL,
		logger:         logger,
		now:            time.Now,
	}
}

// Run blocks until the scheduler's context is cancelled. The first cycle starts immediately.
func (sc *Scheduler) Run() {
	if sc.interval <= 0 {
		panic("scheduler interval must be > 0")
	}
	sc.logger.Info().Dur("interval", sc.interval).Msg("Scheduler started")

	ticker := time.NewTicker(sc.interval)
	defer func() {
		ticker.Stop()
		sc.logger.Info().Msg("Scheduler stopped")
	}()

	sc.doWork()
	for {
		select {
		case <-sc.ctx.Done():
			return

		case <-ticker.C:
			sc.doWork()
		}
	}
}

func (sc *Scheduler) doWork() {
	_, err := sc.run(sc.ctx)
	switch {
	case err == nil:
	case apperror.IsKind(err, apperror.CycleInProgress):
		sc.logger.Warn().Msg("previous cycle still running, tick skipped")
	default:
		sc.logger.Error().Err(err).Msg("monitoring cycle failed")
	}
}

// TriggerNow runs a cycle on demand through the same guard as the ticker.
func (sc *Scheduler) TriggerNow(ctx context.Context) (monitor.CycleSummary, error) {
	// a client hanging up must not cut the cycle short
	return sc.run(context.WithoutCancel(ctx))
}

func (sc *Scheduler) run(ctx context.Context) (monitor.CycleSummary, error) {
	const op string = "scheduler.run"

	if !sc.running.CompareAndSwap(false, true) {
		metrics.ObserveCycle(metrics.ResultSkipped, 0)
		return monitor.CycleSummary{}, apperror.New(apperror.CycleInProgress, op, nil).
			WithMessage("a monitoring cycle is already running")
	}
	defer sc.running.Store(false)

	if sc.locker != nil {
		release, err := sc.locker.AcquireCycleLock(ctx, sc.lockTTL)
		switch {
		case errors.Is(err, redisstore.ErrLockHeld):
			metrics.ObserveCycle(metrics.ResultSkipped, 0)
			return monitor.CycleSummary{}, apperror.New(apperror.CycleInProgress, op, err).
				WithMessage("another instance is running a monitoring cycle")
		case err != nil:
			// monitoring is more important than the lock
			sc.logger.Warn().Err(err).Msg("cycle lock unavailable, running unlocked")
		default:
			defer func() {
				if err := release(context.Background()); err != nil {
					sc.logger.Warn().Err(err).Msg("failed to release cycle lock")
				}
			}()
		}
	}

	return sc.runWithRetry(ctx)
}

func (sc *Scheduler) runWithRetry(ctx context.Context) (monitor.CycleSummary, error) {
	var summary monitor.CycleSummary

	operation := func() error {
		s, err := sc.runner.RunCycle(ctx, sc.now())
		if err != nil {
			if !apperror.IsKind(err, apperror.Registry) {
				return backoff.Permanent(err)
			}
			return err
		}
		summary = s
		return nil
	}

	notify := func(err error, wait time.Duration) {
		sc.logger.Warn().Err(err).Dur("retry_in", wait).Msg("monitoring cycle failed, retrying")
	}

	err := backoff.RetryNotify(operation, sc.policy(ctx), notify)
	return summary, err
}

func (sc *Scheduler) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = sc.initialBackoff
	b.MaxInterval = sc.maxBackoff
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(sc.maxAttempts-1)), ctx)
}
