package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resume_builder"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	aiCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_calls_total",
		Help:      "AI provider calls by provider, operation and outcome.",
	}, []string{"provider", "operation", "outcome"})

	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ai_call_duration_seconds",
		Help:      "AI provider call latency.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"provider", "operation"})

	generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generations_total",
		Help:      "Generation wizard transitions by step and outcome.",
	}, []string{"step", "outcome"})

	blobsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blobs_created_total",
		Help:      "Blobs created, including onboarding submissions.",
	})

	onboardingCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "onboarding_completed_total",
		Help:      "Profiles that finished onboarding.",
	})
)

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveAICall records one provider call. outcome is "ok" or an error kind.
func ObserveAICall(provider, operation, outcome string, elapsed time.Duration) {
	aiCalls.WithLabelValues(provider, operation, outcome).Inc()
	aiDuration.WithLabelValues(provider, operation).Observe(elapsed.Seconds())
}

// IncGeneration counts a generation step outcome.
func IncGeneration(step, outcome string) {
	generationsTotal.WithLabelValues(step, outcome).Inc()
}

// AddBlobsCreated counts n newly persisted blobs.
func AddBlobsCreated(n int) {
	if n > 0 {
		blobsCreated.Add(float64(n))
	}
}

// IncOnboardingCompleted counts a finished onboarding.
func IncOnboardingCompleted() {
	onboardingCompleted.Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
