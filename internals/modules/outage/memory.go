package outage

import (
	"context"
	"sort"
	"sync"
	"time"

	"powermon/pkg/apperror"
)

// MemoryRepository mirrors Repository in process, including the single-ongoing constraint.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows []Outage
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Create(ctx context.Context, o Outage) error {
	const op string = "repo.outage.create"

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.rows {
		if r.Ongoing {
			return &apperror.Error{Kind: apperror.AlreadyExists, Op: op, Message: "resource already exists"}
		}
	}
	m.rows = append(m.rows, o.clone())
	return nil
}

func (m *MemoryRepository) Close(ctx context.Context, o Outage) error {
	const op string = "repo.outage.close"

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.rows {
		if m.rows[i].ID == o.ID && m.rows[i].Ongoing {
			m.rows[i] = o.clone()
			return nil
		}
	}
	return &apperror.Error{Kind: apperror.NotFound, Op: op, Message: "ongoing outage not found"}
}

func (m *MemoryRepository) GetOngoing(ctx context.Context) (*Outage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.rows {
		if r.Ongoing {
			o := r.clone()
			return &o, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) List(ctx context.Context, f ListFilter) ([]Outage, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]Outage, 0)
	for _, r := range m.rows {
		if r.StartedAt.Before(f.Since) || (f.OngoingOnly && !r.Ongoing) {
			continue
		}
		matched = append(matched, r.clone())
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].StartedAt.After(matched[j].StartedAt) })

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []Outage{}, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

func (m *MemoryRepository) Stats(ctx context.Context, since time.Time) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		s      Stats
		sum    int64
		closed int64
	)
	for _, r := range m.rows {
		if r.StartedAt.Before(since) {
			continue
		}
		s.Total++
		if r.DurationSeconds != nil {
			sum += *r.DurationSeconds
			closed++
		}
	}
	if closed > 0 {
		avg := float64(sum) / float64(closed)
		s.AvgDurationSeconds = &avg
	}
	return s, nil
}
