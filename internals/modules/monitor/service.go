package monitor

import (
	"context"
	"time"

	"powermon/internals/modules/checkpoint"
	"powermon/internals/modules/observation"
	"powermon/internals/modules/outage"
	"powermon/internals/modules/probe"
	"powermon/pkg/apperror"
	"powermon/pkg/metrics"
	"powermon/pkg/redisstore"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Registry is the read-only view of checkpoints the orchestrator probes.
type Registry interface {
	ListActive(ctx context.Context) ([]checkpoint.Checkpoint, error)
	Get(ctx context.Context, id uuid.UUID) (checkpoint.Checkpoint, error)
}

type OutageTracker interface {
	Evaluate(ctx context.Context, samples []outage.Sample, now time.Time) (outage.Transition, error)
}

type Options struct {
	ProbeTimeout time.Duration
	Workers      int
}

// Orchestrator runs monitoring cycles. It does not prevent overlapping cycles,
// that is the caller's job.
type Orchestrator struct {
	// collaborators
	registry Registry
	prober   probe.Prober
	store    observation.Store
	tracker  OutageTracker
	cache    StatusCache // optional

	// limits
	timeout time.Duration
	workers int

	// misc
	logger *zerolog.Logger
}

func NewOrchestrator(
	registry Registry,
	prober probe.Prober,
	store observation.Store,
	tracker OutageTracker,
	cache StatusCache,
	opts Options,
	logger *zerolog.Logger,
) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 5 * time.Second
	}

	return &Orchestrator{
		registry: registry,
		prober:   prober,
		store:    store,
		tracker:  tracker,
		cache:    cache,
		timeout:  opts.ProbeTimeout,
		workers:  opts.Workers,
		logger:   logger,
	}
}

// RunCycle probes every active checkpoint from the registry. Only a registry
// failure or a cancelled ctx is returned, in which case no outage evaluation happens.
func (o *Orchestrator) RunCycle(ctx context.Context, now time.Time) (CycleSummary, error) {
	const op string = "service.monitor.run_cycle"

	list, err := o.registry.ListActive(ctx)
	if err != nil {
		metrics.ObserveCycle(metrics.ResultError, 0)
		o.logger.Error().Err(err).Msg("cycle aborted, checkpoint registry unavailable")

		if apperror.IsKind(err, apperror.Registry) {
			return CycleSummary{}, err
		}
		return CycleSummary{}, apperror.New(apperror.Registry, op, err)
	}

	return o.RunCycleFor(ctx, list, now)
}

// RunCycleFor runs one cycle over the given checkpoints. Inactive ones are skipped.
func (o *Orchestrator) RunCycleFor(ctx context.Context, checkpoints []checkpoint.Checkpoint, now time.Time) (CycleSummary, error) {
	const op string = "service.monitor.run_cycle"

	start := time.Now()

	active := make([]checkpoint.Checkpoint, 0, len(checkpoints))
	for _, c := range checkpoints {
		if c.Active {
			active = append(active, c)
		}
	}

	// each worker owns exactly one slot
	results := make([]CheckpointResult, len(active))

	var g errgroup.Group
	g.SetLimit(o.workers)
	for i := range active {
		g.Go(func() error {
			results[i] = o.check(ctx, active[i], now)
			return nil
		})
	}
	_ = g.Wait()

	summary := CycleSummary{
		StartedAt: now,
		Total:     len(results),
		Results:   results,
	}

	samples := make([]outage.Sample, len(results))
	for i, r := range results {
		samples[i] = outage.Sample{CheckpointID: r.CheckpointID, Reachable: r.Reachable}
		if r.Reachable {
			summary.Online++
		} else {
			summary.Offline++
		}
	}

	// failures caused by cancellation say nothing about the power
	if cerr := ctx.Err(); cerr != nil {
		summary.Duration = time.Since(start)
		metrics.ObserveCycle(metrics.ResultError, summary.Duration)
		o.logger.Warn().Err(cerr).Int("total", summary.Total).Msg("monitoring cycle cancelled, outage state left unchanged")
		return summary, apperror.New(apperror.RequestTimeout, op, cerr).WithMessage("monitoring cycle cancelled")
	}

	tr, err := o.tracker.Evaluate(ctx, samples, now)
	if err != nil {
		summary.OutageErr = err
		o.logger.Error().Err(err).Msg("outage state not persisted, will retry next cycle")
	}
	summary.Transition = tr
	summary.Duration = time.Since(start)

	metrics.ObserveCycle(metrics.ResultSuccess, summary.Duration)
	o.logger.Info().
		Int("total", summary.Total).
		Int("online", summary.Online).
		Int("offline", summary.Offline).
		Str("transition", string(tr.Kind)).
		Dur("duration", summary.Duration).
		Msg("monitoring cycle completed")

	return summary, nil
}

// ProbeOne checks a single checkpoint on demand. It records the observation but
// never touches outage state, so it may run alongside a scheduled cycle.
func (o *Orchestrator) ProbeOne(ctx context.Context, checkpointID uuid.UUID, now time.Time) (CheckpointResult, error) {
	c, err := o.registry.Get(ctx, checkpointID)
	if err != nil {
		return CheckpointResult{}, err
	}
	return o.check(ctx, c, now), nil
}

// RequestCheck serves check requests coming off the message queue.
func (o *Orchestrator) RequestCheck(ctx context.Context, checkpointID uuid.UUID) error {
	res, err := o.ProbeOne(ctx, checkpointID, time.Now())
	if err != nil {
		return err
	}

	o.logger.Info().
		Str("checkpoint_id", checkpointID.String()).
		Bool("reachable", res.Reachable).
		Msg("requested check done")
	return nil
}

func (o *Orchestrator) check(ctx context.Context, c checkpoint.Checkpoint, now time.Time) CheckpointResult {
	res := o.prober.Probe(ctx, c.Address, o.timeout)

	result := CheckpointResult{
		CheckpointID: c.ID,
		Name:         c.Name,
		Address:      c.Address,
		Reachable:    res.Reachable,
		Latency:      res.Latency,
		Reason:       res.Reason,
		Kind:         res.Kind,
	}

	obs := observation.Observation{
		CheckpointID: c.ID,
		CheckedAt:    now,
		Reachable:    res.Reachable,
		Latency:      res.Latency,
		FailureKind:  res.Kind,
	}
	if !res.Reachable {
		reason := res.Reason
		obs.Reason = &reason
	}

	saved, err := o.store.Record(ctx, obs)
	if err != nil {
		// an unrecorded result must not pass for online
		o.logger.Warn().
			Err(err).
			Str("checkpoint_id", c.ID.String()).
			Bool("probe_reachable", res.Reachable).
			Msg("observation not recorded, counting checkpoint as offline")

		metrics.IncProbeResult(string(apperror.Persistence))
		return CheckpointResult{
			CheckpointID: c.ID,
			Name:         c.Name,
			Address:      c.Address,
			Reachable:    false,
			Reason:       "observation not recorded: " + err.Error(),
			Kind:         apperror.Persistence,
		}
	}
	result.ObservationID = saved.ID

	metrics.IncProbeResult(string(res.Kind))
	if res.Latency != nil {
		metrics.ObserveProbeLatency(*res.Latency)
	}
	if !res.Reachable {
		o.logger.Debug().
			Str("checkpoint", c.Name).
			Str("kind", string(res.Kind)).
			Str("reason", res.Reason).
			Msg("checkpoint offline")
	}

	o.mirror(ctx, result, now)
	return result
}

func (o *Orchestrator) mirror(ctx context.Context, r CheckpointResult, now time.Time) {
	if o.cache == nil {
		return
	}

	status := redisstore.CheckpointStatus{
		Reachable: r.Reachable,
		Reason:    r.Reason,
		CheckedAt: now,
	}
	if r.Latency != nil {
		status.LatencyMs = float64(*r.Latency) / float64(time.Millisecond)
	}

	if err := o.cache.StoreStatus(ctx, r.CheckpointID, status); err != nil {
		o.logger.Warn().Err(err).Str("checkpoint_id", r.CheckpointID.String()).Msg("status cache write failed")
	}
}
