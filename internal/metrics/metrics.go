// Package metrics exposes the engine's Prometheus instrumentation:
// HTTP request metrics for the query surface and per-stage tick timing
// for the simulation pipeline (spec §4.N, §5).
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "terrasim_http_requests_total",
		Help: "Total HTTP requests handled by the query surface.",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "terrasim_http_request_duration_seconds",
		Help:    "HTTP request latency for the query surface.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "terrasim_tick_duration_seconds",
		Help:    "Total wall-clock duration of one simulation tick.",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "terrasim_tick_stage_duration_seconds",
		Help:    "Duration of one pipeline stage within a tick.",
		Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"stage"})

	ticksSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terrasim_ticks_skipped_total",
		Help: "Ticks skipped because the previous tick was still running.",
	})

	snapshotCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terrasim_snapshot_cache_hits_total",
		Help: "Query-surface requests served from the snapshot cache.",
	})

	snapshotCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terrasim_snapshot_cache_misses_total",
		Help: "Query-surface requests that missed the snapshot cache.",
	})

	tickBroadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terrasim_tick_broadcasts_total",
		Help: "Tick-completed events published to the broadcast channel.",
	})
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency for every HTTP request
// served by the query surface.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		status := statusText(ww.statusCode)
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration.Seconds())
	})
}

func statusText(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// RecordTickDuration records the wall-clock time of one full tick.
func RecordTickDuration(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

// RecordStageDuration records the wall-clock time of one pipeline stage
// within a tick, keyed by stage name (e.g. "temperature", "hydrology").
func RecordStageDuration(stage string, d time.Duration) {
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordTickSkipped records that the external driver found a tick still
// in flight and skipped invoking the next one (spec §5).
func RecordTickSkipped() {
	ticksSkipped.Inc()
}

// RecordCacheHit records a snapshot-cache hit on the query surface.
func RecordCacheHit() {
	snapshotCacheHits.Inc()
}

// RecordCacheMiss records a snapshot-cache miss on the query surface.
func RecordCacheMiss() {
	snapshotCacheMisses.Inc()
}

// RecordTickBroadcast records a tick-completed event published to the
// optional broadcast channel.
func RecordTickBroadcast() {
	tickBroadcasts.Inc()
}
