// Package metrics exposes Prometheus collectors for the service.
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
	scrapesTotal               *prometheus.CounterVec
	scrapeDurationSeconds      *prometheus.HistogramVec
	syncRowsTotal              *prometheus.CounterVec
	syncRunsTotal              *prometheus.CounterVec
	emailsTotal                *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scrapesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirsvc_scrapes_total",
				Help: "Total number of scrape requests, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		scrapeDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dirsvc_scrape_duration_seconds",
				Help:    "Histogram of scrape pipeline latencies, labeled by outcome.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 45},
			},
			[]string{"outcome"},
		)

		syncRowsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirsvc_sync_rows_total",
				Help: "Total rows reconciled into the mirror, labeled by mapping and operation.",
			},
			[]string{"mapping", "op"},
		)

		syncRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirsvc_sync_runs_total",
				Help: "Total reconciliation passes, labeled by mapping and outcome.",
			},
			[]string{"mapping", "outcome"},
		)

		emailsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dirsvc_emails_total",
				Help: "Total transactional emails attempted, labeled by template and outcome.",
			},
			[]string{"template", "outcome"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 45},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveScrape records one scrape pipeline run.
func ObserveScrape(outcome string, duration time.Duration) {
	Init()
	scrapesTotal.WithLabelValues(outcome).Inc()
	scrapeDurationSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
}

// IncSyncRows counts one reconciled row for a mapping.
func IncSyncRows(mapping, op string) {
	Init()
	syncRowsTotal.WithLabelValues(mapping, op).Inc()
}

// IncSyncRuns counts one reconciliation pass for a mapping.
func IncSyncRuns(mapping, outcome string) {
	Init()
	syncRunsTotal.WithLabelValues(mapping, outcome).Inc()
}

// IncEmail counts one email delivery attempt.
func IncEmail(template, outcome string) {
	Init()
	emailsTotal.WithLabelValues(template, outcome).Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
