package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"powermon/internals/modules/observation"
	"powermon/pkg/apperror"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrigger struct {
	summary CycleSummary
	err     error
}

func (f fakeTrigger) TriggerNow(ctx context.Context) (CycleSummary, error) {
	return f.summary, f.err
}

func TestHandler_RunCycle(t *testing.T) {
	trigger := fakeTrigger{summary: CycleSummary{StartedAt: time.Now(), Total: 2, Online: 2}}
	r := chi.NewRouter()
	r.Mount("/cycles", Routes(NewHandler(nil, trigger)))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cycles", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":2`)
	assert.Contains(t, rec.Body.String(), `"results":[]`)
}

func TestHandler_RunCycleWhileBusy(t *testing.T) {
	trigger := fakeTrigger{err: apperror.New(apperror.CycleInProgress, "scheduler.trigger_now", nil).WithMessage("cycle already running")}
	r := chi.NewRouter()
	r.Mount("/cycles", Routes(NewHandler(nil, trigger)))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cycles", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), string(apperror.CycleInProgress))
}

func TestHandler_CheckCheckpoint(t *testing.T) {
	cps := makeCheckpoints(1)
	o := newOrchestrator(&fakeRegistry{list: cps}, newScriptedProber(nil), observation.NewMemoryStore(), &spyTracker{}, nil)

	r := chi.NewRouter()
	r.Post("/checkpoints/{checkpointID}/check", NewHandler(o, nil).CheckCheckpoint)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkpoints/"+cps[0].ID.String()+"/check", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_online":true`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkpoints/bogus/check", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
