// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "campus_marketplace"

var (
	// Registry holds the application collectors exposed on /metrics.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "logins_total",
			Help:      "Logins through the identity provider, by whether the account was new.",
		},
		[]string{"new_account"},
	)

	offersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "negotiation",
			Name:      "offers_created_total",
			Help:      "Offers persisted.",
		},
	)

	offersRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "negotiation",
			Name:      "offers_rejected_total",
			Help:      "Offer attempts refused, by reason.",
		},
		[]string{"reason"},
	)

	ratingsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "moderation",
			Name:      "ratings_total",
			Help:      "Ratings appended.",
		},
	)

	reportsFiled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "moderation",
			Name:      "reports_total",
			Help:      "Reports filed, by target type.",
		},
		[]string{"target"},
	)

	moderationActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "moderation",
			Name:      "actions_total",
			Help:      "Automatic demotions applied, by action.",
		},
		[]string{"action"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		logins,
		offersCreated,
		offersRejected,
		ratingsRecorded,
		reportsFiled,
		moderationActions,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted marks an in-flight request and returns the func that
// records it once the response status is known.
func RequestStarted(method, path string) func(status string) {
	start := time.Now()
	httpInFlight.Inc()

	return func(status string) {
		httpInFlight.Dec()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(method, path, status).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

func RecordLogin(isNew bool) {
	label := "false"
	if isNew {
		label = "true"
	}
	logins.WithLabelValues(label).Inc()
}

func RecordOfferCreated() {
	offersCreated.Inc()
}

// RecordOfferRejected counts a refused offer. reason is one of
// "not_found", "own_product", "duplicate", "invalid_amount".
func RecordOfferRejected(reason string) {
	offersRejected.WithLabelValues(reason).Inc()
}

func RecordRating() {
	ratingsRecorded.Inc()
}

func RecordReport(target string) {
	reportsFiled.WithLabelValues(target).Inc()
}

// RecordModerationAction counts "ban_profile" and "hide_product".
func RecordModerationAction(action string) {
	moderationActions.WithLabelValues(action).Inc()
}
