package outage

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"powermon/pkg/apperror"
	"powermon/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const DefaultThreshold = 0.5

// Persister is the write side the tracker needs. Create and Close must be durable
// before they return.
type Persister interface {
	Create(ctx context.Context, o Outage) error
	Close(ctx context.Context, o Outage) error
	GetOngoing(ctx context.Context) (*Outage, error)
}

// Notifier hears about committed transitions. It must not block.
type Notifier interface {
	Notify(ctx context.Context, t Transition)
}

// Tracker owns the single current outage. Evaluate is the only writer, Current
// may be called from any goroutine and never waits on the repository.
type Tracker struct {
	// state
	writeMu   sync.Mutex   // serializes Evaluate and Restore
	mu        sync.RWMutex // guards current only
	current   *Outage
	threshold float64
	shared    bool

	// services
	repo     Persister
	notifier Notifier

	// misc
	logger *zerolog.Logger
}

// NewTracker falls back to DefaultThreshold when threshold is outside (0, 1].
// notifier may be nil.
func NewTracker(repo Persister, threshold float64, notifier Notifier, logger *zerolog.Logger) *Tracker {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Tracker{
		repo:      repo,
		threshold: threshold,
		notifier:  notifier,
		logger:    logger,
	}
}

// SetShared marks the repository as written by other replicas too. A shared
// tracker reloads the ongoing outage before every evaluation.
func (t *Tracker) SetShared(shared bool) {
	t.writeMu.Lock()
	t.shared = shared
	t.writeMu.Unlock()
}

func (t *Tracker) Threshold() float64 {
	return t.threshold
}

// Current returns a copy of the ongoing outage, if any.
func (t *Tracker) Current() (Outage, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.current == nil {
		return Outage{}, false
	}
	return t.current.clone(), true
}

func (t *Tracker) setCurrent(o *Outage) {
	t.mu.Lock()
	t.current = o
	t.mu.Unlock()
	metrics.SetOutageOngoing(o != nil)
}

// Restore loads the ongoing outage left behind by a previous process.
func (t *Tracker) Restore(ctx context.Context) error {
	const op string = "tracker.outage.restore"

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	o, err := t.reload(ctx)
	if err != nil {
		return apperror.New(apperror.Persistence, op, err)
	}

	if o != nil {
		t.logger.Info().
			Str("outage_id", o.ID.String()).
			Time("started_at", o.StartedAt).
			Msg("ongoing power outage restored")
	}
	return nil
}

// reload replaces current with the repository's ongoing outage. Caller holds writeMu.
func (t *Tracker) reload(ctx context.Context) (*Outage, error) {
	o, err := t.repo.GetOngoing(ctx)
	if err != nil {
		return nil, err
	}
	t.setCurrent(o)
	return o, nil
}

// Evaluate applies one cycle's samples:
//
//	offline/total >= threshold and no current outage -> open
//	offline/total <  threshold and a current outage  -> close
//	anything else, or no samples                     -> nothing
//
// State only changes after the repository accepted the write, so a failed write
// is retried by the next cycle that sees the same condition. A write rejected
// because another replica already moved the outage reloads it and decides again.
func (t *Tracker) Evaluate(ctx context.Context, samples []Sample, now time.Time) (Transition, error) {
	tr, err := t.evaluate(ctx, samples, now)
	if err != nil || !tr.Happened() {
		return tr, err
	}

	metrics.IncOutageTransition(string(tr.Kind))
	if t.notifier != nil {
		t.notifier.Notify(ctx, tr)
	}
	return tr, nil
}

func (t *Tracker) evaluate(ctx context.Context, samples []Sample, now time.Time) (Transition, error) {
	const op string = "tracker.outage.evaluate"

	total := len(samples)
	if total == 0 {
		return Transition{}, nil
	}

	offline := make([]uuid.UUID, 0, total)
	for _, s := range samples {
		if !s.Reachable {
			offline = append(offline, s.CheckpointID)
		}
	}
	inOutage := float64(len(offline))/float64(total) >= t.threshold

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if t.shared {
		if _, err := t.reload(ctx); err != nil {
			return Transition{}, apperror.New(apperror.Persistence, op, err)
		}
	}

	tr, err := t.apply(ctx, inOutage, offline, total, now)
	if err == nil || !staleState(err) {
		return tr, err
	}

	t.logger.Warn().Err(err).Msg("outage state changed elsewhere, reloading")
	if _, rerr := t.reload(ctx); rerr != nil {
		return Transition{}, apperror.New(apperror.Persistence, op, rerr)
	}
	return t.apply(ctx, inOutage, offline, total, now)
}

// staleState reports a write the repository refused because its ongoing
// outage is not the one this tracker holds.
func staleState(err error) bool {
	return apperror.IsKind(errors.Unwrap(err), apperror.AlreadyExists) ||
		apperror.IsKind(errors.Unwrap(err), apperror.NotFound)
}

func (t *Tracker) apply(ctx context.Context, inOutage bool, offline []uuid.UUID, total int, now time.Time) (Transition, error) {
	// only writers touch current and writeMu is held
	switch {
	case inOutage && t.current == nil:
		return t.open(ctx, offline, total, now)
	case !inOutage && t.current != nil:
		return t.close(ctx, now)
	default:
		return Transition{}, nil
	}
}

func (t *Tracker) open(ctx context.Context, offline []uuid.UUID, total int, now time.Time) (Transition, error) {
	const op string = "tracker.outage.open"

	o := Outage{
		ID:        uuid.New(),
		StartedAt: now,
		Affected:  offline,
		Ongoing:   true,
	}
	if err := t.repo.Create(ctx, o); err != nil {
		return Transition{}, apperror.New(apperror.Persistence, op, err)
	}
	t.setCurrent(&o)

	t.logger.Warn().
		Str("outage_id", o.ID.String()).
		Int("offline", len(offline)).
		Int("total", total).
		Time("started_at", now).
		Msg("power outage detected")

	return Transition{Kind: TransitionOpened, Outage: o.clone()}, nil
}

func (t *Tracker) close(ctx context.Context, now time.Time) (Transition, error) {
	const op string = "tracker.outage.close"

	closed := t.current.clone()
	end := now
	duration := int64(math.Round(now.Sub(closed.StartedAt).Seconds()))
	closed.EndedAt = &end
	closed.DurationSeconds = &duration
	closed.Ongoing = false

	if err := t.repo.Close(ctx, closed); err != nil {
		return Transition{}, apperror.New(apperror.Persistence, op, err)
	}
	t.setCurrent(nil)

	t.logger.Info().
		Str("outage_id", closed.ID.String()).
		Int64("duration_seconds", duration).
		Msg("power outage ended")

	return Transition{Kind: TransitionClosed, Outage: closed}, nil
}
