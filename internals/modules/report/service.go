package report

import (
	"context"
	"time"

	"powermon/internals/modules/checkpoint"
	"powermon/internals/modules/observation"
	"powermon/internals/modules/outage"
	"powermon/pkg/redisstore"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	uptimeWindow        = 24 * time.Hour
	recentOutagesWindow = 24 * time.Hour
	DefaultStatsWindow  = 168 * time.Hour
)

type CheckpointLister interface {
	ListActive(ctx context.Context) ([]checkpoint.Checkpoint, error)
}

type ObservationReader interface {
	Latest(ctx context.Context, checkpointID uuid.UUID) (*observation.Observation, error)
	Uptime(ctx context.Context, checkpointID uuid.UUID, window time.Duration, now time.Time) (float64, error)
	Totals(ctx context.Context, since time.Time) (observation.Totals, error)
}

type OutageReader interface {
	Current() (outage.Outage, bool)
	List(ctx context.Context, f outage.ListFilter) ([]outage.Outage, int64, error)
	Stats(ctx context.Context, since time.Time) (outage.Stats, error)
}

type StatusReader interface {
	GetStatus(ctx context.Context, checkpointID uuid.UUID) (*redisstore.CheckpointStatus, error)
}

type Service struct {
	// services
	checkpoints  CheckpointLister
	observations ObservationReader
	outages      OutageReader
	cache        StatusReader // nil when redis is disabled

	// misc
	logger *zerolog.Logger
}

func NewService(
	checkpoints CheckpointLister,
	observations ObservationReader,
	outages OutageReader,
	cache StatusReader,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		checkpoints:  checkpoints,
		observations: observations,
		outages:      outages,
		cache:        cache,
		logger:       logger,
	}
}

func (s *Service) Status(ctx context.Context, now time.Time) (SystemStatus, error) {
	cps, err := s.checkpoints.ListActive(ctx)
	if err != nil {
		return SystemStatus{}, err
	}

	st := SystemStatus{
		Timestamp:   now,
		Total:       len(cps),
		Checkpoints: make([]CheckpointStatus, 0, len(cps)),
	}

	for _, cp := range cps {
		latest, err := s.observations.Latest(ctx, cp.ID)
		if err != nil {
			return SystemStatus{}, err
		}
		uptime, err := s.observations.Uptime(ctx, cp.ID, uptimeWindow, now)
		if err != nil {
			return SystemStatus{}, err
		}

		if latest != nil && latest.Reachable {
			st.Online++
		}
		st.Checkpoints = append(st.Checkpoints, CheckpointStatus{
			Checkpoint: cp,
			Latest:     latest,
			Uptime24h:  uptime,
			Cached:     s.cached(ctx, cp.ID),
		})
	}

	if st.Total > 0 {
		st.Health = float64(st.Online) * 100 / float64(st.Total)
	}

	if o, ok := s.outages.Current(); ok {
		st.CurrentOutage = &o
	}

	recent, _, err := s.outages.List(ctx, outage.ListFilter{
		Since: now.Add(-recentOutagesWindow),
		Limit: outage.DefaultPageSize,
	})
	if err != nil {
		return SystemStatus{}, err
	}
	st.RecentOutages = recent

	return st, nil
}

// cached is best effort; a redis failure only hides the field.
func (s *Service) cached(ctx context.Context, id uuid.UUID) *redisstore.CheckpointStatus {
	if s.cache == nil {
		return nil
	}
	status, err := s.cache.GetStatus(ctx, id)
	if err != nil {
		s.logger.Debug().Err(err).Str("checkpoint_id", id.String()).Msg("status cache read failed")
		return nil
	}
	return status
}

func (s *Service) Statistics(ctx context.Context, window time.Duration, now time.Time) (Statistics, error) {
	if window <= 0 {
		window = DefaultStatsWindow
	}
	since := now.Add(-window)

	totals, err := s.observations.Totals(ctx, since)
	if err != nil {
		return Statistics{}, err
	}
	stats, err := s.outages.Stats(ctx, since)
	if err != nil {
		return Statistics{}, err
	}

	return Statistics{
		Window:             window,
		TotalChecks:        totals.Total,
		FailedChecks:       totals.Failed,
		SuccessRate:        totals.SuccessRate(),
		TotalOutages:       stats.Total,
		AvgOutageDurationS: stats.AvgDurationSeconds,
	}, nil
}
