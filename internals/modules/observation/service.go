package observation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultListWindow = 24 * time.Hour
	DefaultListLimit  = 1000
)

type Service struct {
	store  Store
	logger *zerolog.Logger
}

func NewService(store Store, logger *zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Uptime is the reachable share of the checkpoint's observations in [now-window, now],
// as a percentage. No observations reads as 0, callers that need to tell "no data"
// apart must look at CountInWindow themselves.
func (s *Service) Uptime(ctx context.Context, checkpointID uuid.UUID, window time.Duration, now time.Time) (float64, error) {
	total, reachable, err := s.store.CountInWindow(ctx, checkpointID, now.Add(-window))
	if err != nil {
		return 0, err
	}
	return percentage(reachable, total), nil
}

func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}

func (s *Service) Latest(ctx context.Context, checkpointID uuid.UUID) (*Observation, error) {
	return s.store.Latest(ctx, checkpointID)
}

func (s *Service) Recent(ctx context.Context, f Filter) ([]Observation, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	return s.store.List(ctx, f)
}

func (s *Service) Totals(ctx context.Context, since time.Time) (Totals, error) {
	return s.store.Totals(ctx, since)
}

// Purge drops observations older than maxAge and reports how many went.
func (s *Service) Purge(ctx context.Context, maxAge time.Duration, now time.Time) (int64, error) {
	cutoff := now.Add(-maxAge)

	deleted, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	s.logger.Info().
		Int64("deleted", deleted).
		Time("cutoff", cutoff).
		Msg("old power checks purged")
	return deleted, nil
}
