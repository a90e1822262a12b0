package middle

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyRecorder struct {
	mu     sync.Mutex
	routes []string
}

func (s *spyRecorder) Observe(method, route string, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = append(s.routes, method+" "+route)
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	spy := &spyRecorder{}
	r := chi.NewRouter()
	r.Use(Metrics(spy))
	r.Get("/checkpoints/{checkpointID}", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/checkpoints/4b1e", nil))

	require.Len(t, spy.routes, 1)
	assert.Equal(t, "GET /checkpoints/{checkpointID}", spy.routes[0])
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Logger(&log))
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"status":503`)
	assert.Contains(t, buf.String(), `"request_id"`)
}

func TestEchoRequestID(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(EchoRequestID)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
}
