// Package metrics exposes Prometheus collectors for a fetch run.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal          *prometheus.CounterVec
	savedTotal             prometheus.Counter
	skippedTotal           prometheus.Counter
	errorsTotal            *prometheus.CounterVec
	responseBytesTotal     prometheus.Counter
	inflightTasks          prometheus.Gauge
	requestDurationSeconds prometheus.Histogram

	once sync.Once
)

// Init initializes the Prometheus collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		requestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fff_requests_total",
				Help: "Total number of responses received, labeled by status class.",
			},
			[]string{"class"},
		)

		savedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "fff_saved_total",
				Help: "Total number of responses persisted to disk.",
			},
		)

		skippedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "fff_skipped_total",
				Help: "Total number of responses not persisted by the save policy.",
			},
		)

		errorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fff_errors_total",
				Help: "Total number of per-URL failures, labeled by kind.",
			},
			[]string{"kind"},
		)

		responseBytesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "fff_response_bytes_total",
				Help: "Total number of response body bytes read.",
			},
		)

		inflightTasks = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "fff_inflight_tasks",
				Help: "Number of tasks currently holding a concurrency slot.",
			},
		)

		requestDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fff_request_duration_seconds",
				Help:    "Histogram of request latencies including the body read.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StatusClass groups an HTTP status code into 1xx..5xx or "other".
func StatusClass(code int) string {
	switch {
	case code >= 100 && code < 200:
		return "1xx"
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "other"
	}
}

// ObserveResponse records a received response.
func ObserveResponse(code int, bodyBytes int, duration time.Duration) {
	Init()
	requestsTotal.WithLabelValues(StatusClass(code)).Inc()
	if bodyBytes > 0 {
		responseBytesTotal.Add(float64(bodyBytes))
	}
	requestDurationSeconds.Observe(duration.Seconds())
}

// ObserveSaved increments the persisted counter.
func ObserveSaved() {
	Init()
	savedTotal.Inc()
}

// ObserveSkipped increments the skipped counter.
func ObserveSkipped() {
	Init()
	skippedTotal.Inc()
}

// ObserveError increments the error counter for kind.
func ObserveError(kind string) {
	Init()
	errorsTotal.WithLabelValues(kind).Inc()
}

// IncInflight increments the in-flight task gauge.
func IncInflight() {
	Init()
	inflightTasks.Inc()
}

// DecInflight decrements the in-flight task gauge.
func DecInflight() {
	Init()
	inflightTasks.Dec()
}
