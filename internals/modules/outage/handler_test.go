package outage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_CurrentAndList(t *testing.T) {
	repo := NewMemoryRepository()
	tr := newTracker(repo, DefaultThreshold, nil)

	r := chi.NewRouter()
	r.Mount("/outages", Routes(NewHandler(NewService(tr, repo))))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/outages/current", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no ongoing outage")
	assert.NotContains(t, rec.Body.String(), `"data"`)

	ids := fleet(2)
	_, err := tr.Evaluate(context.Background(), samples(ids, 0), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/outages/current", nil))
	assert.Contains(t, rec.Body.String(), ids[0].String())
	assert.Contains(t, rec.Body.String(), `"is_ongoing":true`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/outages?hours=24&ongoing_only=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data ListOutagesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Data.Total)
	assert.Equal(t, DefaultPageSize, body.Data.Limit)
	require.Len(t, body.Data.Outages, 1)
}

func TestMemoryRepository_StatsAveragesClosedOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	tr := newTracker(repo, DefaultThreshold, nil)
	ids := fleet(2)
	base := time.Now().Add(-10 * time.Hour)

	// 60s and 180s outages, then one still open
	for i, d := range []time.Duration{time.Minute, 3 * time.Minute} {
		start := base.Add(time.Duration(i) * time.Hour)
		_, err := tr.Evaluate(ctx, samples(ids, 0, 1), start)
		require.NoError(t, err)
		_, err = tr.Evaluate(ctx, samples(ids), start.Add(d))
		require.NoError(t, err)
	}
	_, err := tr.Evaluate(ctx, samples(ids, 0, 1), base.Add(5*time.Hour))
	require.NoError(t, err)

	s, err := NewService(tr, repo).Stats(ctx, base.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Total)
	require.NotNil(t, s.AvgDurationSeconds)
	assert.InDelta(t, 120.0, *s.AvgDurationSeconds, 1e-9)
}
