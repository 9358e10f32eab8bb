package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruiter_assistant_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recruiter_assistant_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)

	// Completions counts model calls by prompt mode and outcome (ok, error).
	Completions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruiter_assistant_completions_total",
			Help: "Total number of model completions by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recruiter_assistant_completion_duration_seconds",
			Help:    "Duration of model completions in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"mode"},
	)

	PersistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recruiter_assistant_persist_failures_total",
			Help: "Total number of failed writes to the persistence sink",
		},
		[]string{"kind"},
	)

	PendingWrites = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recruiter_assistant_pending_writes",
			Help: "Number of background assessment writes in flight",
		},
	)
)
