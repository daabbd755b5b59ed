// Package metrics exposes the Prometheus collectors of the search service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eo_search_http_requests_total",
			Help: "Total number of HTTP requests served.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eo_search_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"method", "route", "status"},
	)

	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eo_search_searches_total",
			Help: "Searches started, by outcome.",
		},
		[]string{"outcome"},
	)

	activeSearches = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eo_search_active_searches",
			Help: "Searches with at least one pending provider.",
		},
	)

	providerSearchSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eo_search_provider_duration_seconds",
			Help:    "Time from launch to terminal state of one provider search.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 13), // 50ms to ~200s
		},
		[]string{"provider", "state"},
	)

	providerFeaturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eo_search_provider_features_total",
			Help: "Normalized features merged, by provider.",
		},
		[]string{"provider"},
	)

	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eo_search_upstream_requests_total",
			Help: "HTTP requests sent to imagery providers.",
		},
		[]string{"provider", "status"},
	)

	upstreamLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eo_search_upstream_latency_seconds",
			Help:    "Latency of provider HTTP calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"provider"},
	)

	pollAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eo_search_poll_attempts_total",
			Help: "Result polling attempts against asynchronous provider jobs.",
		},
		[]string{"provider"},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eo_search_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)
)

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

// SearchStarted counts a search and marks it active. The returned func must be
// called once when the search finishes.
func SearchStarted() func(outcome string) {
	activeSearches.Inc()
	return func(outcome string) {
		activeSearches.Dec()
		searchesTotal.WithLabelValues(outcome).Inc()
	}
}

// SearchRejected counts a search that never launched a provider.
func SearchRejected() {
	searchesTotal.WithLabelValues("rejected").Inc()
}

func ObserveProvider(provider, state string, durationSeconds float64, features int) {
	providerSearchSeconds.WithLabelValues(provider, state).Observe(durationSeconds)
	if features > 0 {
		providerFeaturesTotal.WithLabelValues(provider).Add(float64(features))
	}
}

func ObserveUpstream(provider string, status int, durationSeconds float64) {
	st := "error"
	if status > 0 {
		st = strconv.Itoa(status)
	}
	upstreamRequestsTotal.WithLabelValues(provider, st).Inc()
	upstreamLatencySeconds.WithLabelValues(provider).Observe(durationSeconds)
}

func IncPollAttempt(provider string) {
	pollAttemptsTotal.WithLabelValues(provider).Inc()
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
