package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hls_service_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hls_service_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Pipeline metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hls_service_jobs_total",
			Help: "Pipeline runs by terminal status",
		},
		[]string{"status"},
	)

	PhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "hls_service_phase_duration_seconds",
			Help: "Time spent in each pipeline phase",
			// downloads and encodes run from seconds to tens of minutes
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"phase"},
	)

	DownloadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hls_service_download_bytes_total",
			Help: "Bytes of source video downloaded",
		},
	)
)

// Retention metrics
var (
	RetentionRemovedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hls_service_retention_removed_total",
			Help: "Entries removed by the retention sweep",
		},
		[]string{"root"},
	)
)
