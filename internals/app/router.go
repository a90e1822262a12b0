package app

import (
	"context"
	"net/http"
	"time"

	middle "powermon/internals/middleware"
	"powermon/internals/modules/checkpoint"
	"powermon/internals/modules/monitor"
	"powermon/internals/modules/observation"
	"powermon/internals/modules/outage"
	"powermon/internals/modules/report"
	"powermon/pkg/apperror"
	"powermon/pkg/metrics"
	"powermon/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// a manual cycle probes the whole fleet, so requests get a generous budget
const requestTimeout = 60 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

func RegisterRoutes(c *Container) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middle.EchoRequestID)
	r.Use(middle.Logger(c.Logger))
	r.Use(middle.Metrics(metrics.HTTPRecorder{}))
	if len(c.Cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: c.Cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", Health(c.DB))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Mount("/checkpoints", checkpoint.Routes(c.checkpointHandler, c.monitorHandler.CheckCheckpoint))
		v1.Mount("/power-checks", observation.Routes(c.observationHandler))
		v1.Mount("/outages", outage.Routes(c.outageHandler))
		v1.Mount("/cycles", monitor.Routes(c.monitorHandler))

		// /status and /statistics
		v1.Mount("/", report.Routes(c.reportHandler))
	})

	return r
}

// Health reports whether the database answers.
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		reqID := middleware.GetReqID(ctx)

		if err := db.Ping(ctx); err != nil {
			utils.WriteError(w, http.StatusServiceUnavailable, reqID, apperror.Internal, "database unreachable")
			return
		}
		utils.WriteJSON(w, http.StatusOK, reqID, "ok", map[string]string{"status": "healthy"})
	}
}

// WriteTimeout is the server write deadline matching the router's request budget.
func WriteTimeout() time.Duration {
	return requestTimeout + 5*time.Second
}
