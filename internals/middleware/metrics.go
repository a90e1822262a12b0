package middle

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type MetricsRecorder interface {
	Observe(method, route string, duration time.Duration)
}

// Metrics labels requests by chi route pattern, not raw path, so ids in the
// url do not blow up label cardinality.
func Metrics(recorder MetricsRecorder) Middleware {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}

			recorder.Observe(
				r.Method,
				route,
				time.Since(start),
			)
		}
		return http.HandlerFunc(fn)
	}
}
