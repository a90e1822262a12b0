package observation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"powermon/pkg/apperror"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s Store, id uuid.UUID, at time.Time, reachable bool) {
	t.Helper()
	o := Observation{CheckpointID: id, CheckedAt: at, Reachable: reachable}
	if reachable {
		d := 12 * time.Millisecond
		o.Latency = &d
	} else {
		reason := "ping failed - device unreachable"
		o.Reason = &reason
		o.FailureKind = apperror.ProbeUnreachable
	}
	_, err := s.Record(context.Background(), o)
	require.NoError(t, err)
}

func newService(store Store) *Service {
	log := zerolog.Nop()
	return NewService(store, &log)
}

func TestUptime_SevenOfTen(t *testing.T) {
	store := NewMemoryStore()
	id := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		seed(t, store, id, now.Add(-time.Duration(i)*time.Minute), i < 7)
	}
	// outside the window, must not count
	seed(t, store, id, now.Add(-48*time.Hour), false)

	uptime, err := newService(store).Uptime(context.Background(), id, 24*time.Hour, now)
	require.NoError(t, err)
	assert.InDelta(t, 70.0, uptime, 1e-9)
}

func TestUptime_NoDataIsZero(t *testing.T) {
	uptime, err := newService(NewMemoryStore()).Uptime(context.Background(), uuid.New(), 24*time.Hour, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0.0, uptime)
}

type failingStore struct {
	*MemoryStore
}

func (failingStore) CountInWindow(context.Context, uuid.UUID, time.Time) (int64, int64, error) {
	return 0, 0, apperror.New(apperror.DatabaseErr, "repo.observation.count_in_window", errors.New("conn reset"))
}

func TestUptime_PropagatesStoreError(t *testing.T) {
	_, err := newService(failingStore{NewMemoryStore()}).Uptime(context.Background(), uuid.New(), time.Hour, time.Now())
	assert.True(t, apperror.IsKind(err, apperror.DatabaseErr))
}

func TestPurge_RemovesOnlyOldRows(t *testing.T) {
	store := NewMemoryStore()
	id := uuid.New()
	now := time.Now()

	seed(t, store, id, now.Add(-31*24*time.Hour), true)
	seed(t, store, id, now.Add(-40*24*time.Hour), false)
	seed(t, store, id, now.Add(-time.Hour), true)

	deleted, err := newService(store).Purge(context.Background(), 30*24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, 1, store.Len())
}

func TestTotals_SuccessRate(t *testing.T) {
	assert.Equal(t, 0.0, Totals{}.SuccessRate())
	assert.InDelta(t, 75.0, Totals{Total: 8, Failed: 2}.SuccessRate(), 1e-9)
}

func TestRecent_FiltersAndOrders(t *testing.T) {
	store := NewMemoryStore()
	a, b := uuid.New(), uuid.New()
	now := time.Now()

	seed(t, store, a, now.Add(-3*time.Minute), true)
	seed(t, store, a, now.Add(-1*time.Minute), false)
	seed(t, store, b, now.Add(-2*time.Minute), true)

	list, err := newService(store).Recent(context.Background(), Filter{CheckpointID: &a, Since: now.Add(-time.Hour)})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].Reachable)
	assert.True(t, list[0].CheckedAt.After(list[1].CheckedAt))
}

func TestHandler_GetUptime(t *testing.T) {
	store := NewMemoryStore()
	id := uuid.New()
	now := time.Now()
	seed(t, store, id, now.Add(-time.Minute), true)
	seed(t, store, id, now.Add(-2*time.Minute), false)

	r := chi.NewRouter()
	r.Mount("/power-checks", Routes(NewHandler(newService(store))))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/power-checks/uptime/"+id.String()+"?hours=1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"uptime_percentage":50`)
	assert.Contains(t, rec.Body.String(), `"hours":1`)
}

func TestHandler_RejectsBadSwitchID(t *testing.T) {
	r := chi.NewRouter()
	r.Mount("/power-checks", Routes(NewHandler(newService(NewMemoryStore()))))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/power-checks?switch_id=nope", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), string(apperror.InvalidInput))
}
