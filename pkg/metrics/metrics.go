package metrics

import (
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "powermon_"

	resultSuccess = "success"
	resultError   = "error"
	resultSkipped = "skipped"
)

var (
	registerOnce sync.Once

	cycleTotal   *prometheus.CounterVec
	cycleLatency *prometheus.HistogramVec

	probeResults *prometheus.CounterVec
	probeLatency prometheus.Histogram

	outageTransitions *prometheus.CounterVec
	outageOngoing     prometheus.Gauge

	retentionDeleted prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
)

// Init registers the monitoring metrics once per process. pool may be nil.
func Init(pool *pgxpool.Pool) {
	registerOnce.Do(func() {
		cycleTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cycles_total",
				Help: "Total monitoring cycles by result",
			},
			[]string{"result"},
		)
		cycleLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "cycle_latency_seconds",
				Help:    "Monitoring cycle latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		probeResults = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "probe_results_total",
				Help: "Total probe results by outcome kind",
			},
			[]string{"kind"},
		)
		probeLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "probe_latency_seconds",
				Help:    "Latency of successful probes in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
		)

		outageTransitions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "outage_transitions_total",
				Help: "Total outage open/close transitions",
			},
			[]string{"transition"},
		)
		outageOngoing = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "outage_ongoing",
				Help: "1 while a power outage is open",
			},
		)

		retentionDeleted = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "retention_deleted_total",
				Help: "Total observations purged by retention",
			},
		)

		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method and route",
			},
			[]string{"method", "route"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)

		prometheus.MustRegister(
			cycleTotal,
			cycleLatency,
			probeResults,
			probeLatency,
			outageTransitions,
			outageOngoing,
			retentionDeleted,
			httpRequests,
			httpLatency,
		)

		if pool != nil {
			registerPoolMetrics(pool)
		}
	})
}

func registerPoolMetrics(pool *pgxpool.Pool) {
	prometheus.MustRegister(
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: metricPrefix + "db_pool_acquired_conns",
				Help: "Connections currently acquired from the pool",
			},
			func() float64 { return float64(pool.Stat().AcquiredConns()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: metricPrefix + "db_pool_idle_conns",
				Help: "Idle connections in the pool",
			},
			func() float64 { return float64(pool.Stat().IdleConns()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: metricPrefix + "db_pool_total_conns",
				Help: "Total connections in the pool",
			},
			func() float64 { return float64(pool.Stat().TotalConns()) },
		),
	)
}

// ObserveCycle records a finished monitoring cycle.
func ObserveCycle(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if cycleTotal != nil {
		cycleTotal.WithLabelValues(result).Inc()
	}
	if cycleLatency != nil {
		cycleLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncProbeResult counts one probe outcome. kind is empty for a reachable target.
func IncProbeResult(kind string) {
	if kind == "" {
		kind = "reachable"
	}
	if probeResults != nil {
		probeResults.WithLabelValues(kind).Inc()
	}
}

func ObserveProbeLatency(latency time.Duration) {
	if probeLatency != nil {
		probeLatency.Observe(latency.Seconds())
	}
}

// IncOutageTransition counts an outage transition and keeps the ongoing gauge in step.
func IncOutageTransition(transition string) {
	if outageTransitions != nil {
		outageTransitions.WithLabelValues(transition).Inc()
	}
	SetOutageOngoing(transition == TransitionOpened)
}

func SetOutageOngoing(ongoing bool) {
	if outageOngoing == nil {
		return
	}
	if ongoing {
		outageOngoing.Set(1)
		return
	}
	outageOngoing.Set(0)
}

func AddRetentionDeleted(count int64) {
	if count <= 0 {
		return
	}
	if retentionDeleted != nil {
		retentionDeleted.Add(float64(count))
	}
}

// HTTPRecorder feeds the request middleware.
type HTTPRecorder struct{}

func (HTTPRecorder) Observe(method, route string, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	if httpRequests != nil {
		httpRequests.WithLabelValues(method, route).Inc()
	}
	if httpLatency != nil {
		httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
	ResultSkipped = resultSkipped

	TransitionOpened = "opened"
	TransitionClosed = "closed"
)
