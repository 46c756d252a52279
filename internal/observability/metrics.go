package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClassificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autoai",
		Subsystem: "classifier",
		Name:      "classifications_total",
		Help:      "The total number of classified emails by resulting category",
	}, []string{"category"})

	RateLimitDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autoai",
		Subsystem: "ratelimit",
		Name:      "decisions_total",
		Help:      "The total number of rate limiter decisions",
	}, []string{"result"})

	ModelRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autoai",
		Subsystem: "model",
		Name:      "requests_total",
		Help:      "The total number of calls to external AI models",
	}, []string{"task", "status"})

	ModelRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "autoai",
		Subsystem: "model",
		Name:      "request_duration_seconds",
		Help:      "Latency of calls to external AI models",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"task"})
)
