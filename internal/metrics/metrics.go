// Package metrics holds the Prometheus collectors shared by the HTTP layer
// and the quoting services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// In-flight HTTP requests
	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// PriceResolutions counts quotes by the level that produced the price.
	PriceResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repairdesk_price_resolutions_total",
			Help: "Price quotes resolved, partitioned by resolution level",
		},
		[]string{"level"},
	)

	// SubmissionsRecorded counts stored repair requests by source.
	SubmissionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repairdesk_submissions_recorded_total",
			Help: "Repair requests recorded, partitioned by source",
		},
		[]string{"source"},
	)

	// SubmitRateLimited counts submissions rejected by the rate limiter.
	SubmitRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "repairdesk_submit_rate_limited_total",
			Help: "Submissions rejected because the client exceeded its window",
		},
	)
)
