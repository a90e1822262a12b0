package outage

import (
	"context"
	"time"
)

const (
	DefaultHistoryWindow = 168 * time.Hour
	DefaultPageSize      = 100
)

type reader interface {
	List(ctx context.Context, f ListFilter) ([]Outage, int64, error)
	Stats(ctx context.Context, since time.Time) (Stats, error)
}

// Service answers outage queries. The ongoing outage always comes from the
// tracker, never from the database.
type Service struct {
	tracker *Tracker
	repo    reader
}

func NewService(tracker *Tracker, repo reader) *Service {
	return &Service{
		tracker: tracker,
		repo:    repo,
	}
}

func (s *Service) Current() (Outage, bool) {
	return s.tracker.Current()
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Outage, int64, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Stats(ctx context.Context, since time.Time) (Stats, error) {
	return s.repo.Stats(ctx, since)
}
