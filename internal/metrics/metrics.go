// Package metrics exposes Prometheus collectors for the jaundice service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	articlesTotal            *prometheus.CounterVec
	fetchDurationSeconds     prometheus.Histogram
	analysisDurationSeconds  prometheus.Histogram
	admissionWaitSeconds     prometheus.Histogram
	activeFetches            prometheus.Gauge
	httpRequestsTotal        *prometheus.CounterVec
	httpRequestDurationSecs  *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		articlesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jaundice_articles_total",
				Help: "Total number of articles processed, labeled by status.",
			},
			[]string{"status"},
		)

		fetchDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "jaundice_fetch_duration_seconds",
				Help:    "Histogram of article fetch latencies.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
		)

		analysisDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "jaundice_analysis_duration_seconds",
				Help:    "Histogram of tokenize-and-score latencies.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 3},
			},
		)

		admissionWaitSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "jaundice_admission_wait_seconds",
				Help:    "Histogram of time spent waiting for a fetch slot.",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15},
			},
		)

		activeFetches = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "jaundice_active_fetches",
				Help: "Number of fetches currently holding an admission slot.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSecs = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveArticle increments the per-status article counter.
func ObserveArticle(status string) {
	if articlesTotal != nil {
		articlesTotal.WithLabelValues(status).Inc()
	}
}

// ObserveFetch records one fetch duration.
func ObserveFetch(duration time.Duration) {
	if fetchDurationSeconds != nil {
		fetchDurationSeconds.Observe(duration.Seconds())
	}
}

// ObserveAnalysis records one analysis duration in seconds.
func ObserveAnalysis(seconds float64) {
	if analysisDurationSeconds != nil {
		analysisDurationSeconds.Observe(seconds)
	}
}

// ObserveAdmissionWait records how long a task waited for a fetch slot.
func ObserveAdmissionWait(duration time.Duration) {
	if admissionWaitSeconds != nil {
		admissionWaitSeconds.Observe(duration.Seconds())
	}
}

// IncActiveFetches increments the in-flight fetch gauge.
func IncActiveFetches() {
	if activeFetches != nil {
		activeFetches.Inc()
	}
}

// DecActiveFetches decrements the in-flight fetch gauge.
func DecActiveFetches() {
	if activeFetches != nil {
		activeFetches.Dec()
	}
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSecs.WithLabelValues(method, route).Observe(duration.Seconds())
}
