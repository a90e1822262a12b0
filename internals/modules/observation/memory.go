package observation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps observations in process. It backs tests and local dry runs.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   []Observation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make([]Observation, 0, 128)}
}

func (m *MemoryStore) Record(ctx context.Context, o Observation) (Observation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	o.ID = m.nextID
	m.rows = append(m.rows, o)
	return o, nil
}

func (m *MemoryStore) CountInWindow(ctx context.Context, checkpointID uuid.UUID, since time.Time) (int64, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total, reachable int64
	for i := range m.rows {
		o := &m.rows[i]
		if o.CheckpointID != checkpointID || o.CheckedAt.Before(since) {
			continue
		}
		total++
		if o.Reachable {
			reachable++
		}
	}
	return total, reachable, nil
}

func (m *MemoryStore) Latest(ctx context.Context, checkpointID uuid.UUID) (*Observation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *Observation
	for i := range m.rows {
		o := m.rows[i]
		if o.CheckpointID != checkpointID {
			continue
		}
		if latest == nil || !o.CheckedAt.Before(latest.CheckedAt) {
			latest = &o
		}
	}
	return latest, nil
}

func (m *MemoryStore) List(ctx context.Context, f Filter) ([]Observation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Observation, 0)
	for _, o := range m.rows {
		if o.CheckedAt.Before(f.Since) {
			continue
		}
		if f.CheckpointID != nil && o.CheckpointID != *f.CheckpointID {
			continue
		}
		out = append(out, o)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckedAt.After(out[j].CheckedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *MemoryStore) Totals(ctx context.Context, since time.Time) (Totals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var t Totals
	for _, o := range m.rows {
		if o.CheckedAt.Before(since) {
			continue
		}
		t.Total++
		if !o.Reachable {
			t.Failed++
		}
	}
	return t, nil
}

func (m *MemoryStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.rows[:0]
	var deleted int64
	for _, o := range m.rows {
		if o.CheckedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, o)
	}
	m.rows = kept
	return deleted, nil
}

// Len reports how many observations are held.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}
