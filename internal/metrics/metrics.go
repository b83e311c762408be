// Package metrics holds the Prometheus collectors of the catalog service.
// Collectors are registered on the default registry and exposed by
// GET /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Submissions
	RatingsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_ratings_submitted_total",
			Help: "Rating submissions by outcome",
		},
		[]string{"outcome"}, // "created", "updated", "invalid"
	)

	ReviewsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reviews_submitted_total",
			Help: "Review submissions by outcome",
		},
		[]string{"outcome"}, // "created", "reply", "invalid"
	)

	ContactsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_contacts_submitted_total",
			Help: "Contact subscriptions by outcome",
		},
		[]string{"outcome"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_rate_limited_total",
			Help: "Requests rejected by the token bucket",
		},
		[]string{"route"},
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRating counts a rating submission.
func RecordRating(outcome string) {
	RatingsSubmitted.WithLabelValues(outcome).Inc()
}

// RecordReview counts a review submission.
func RecordReview(outcome string) {
	ReviewsSubmitted.WithLabelValues(outcome).Inc()
}

// RecordContact counts a contact subscription.
func RecordContact(outcome string) {
	ContactsSubmitted.WithLabelValues(outcome).Inc()
}

// RecordRateLimited counts a request rejected by the rate limiter.
func RecordRateLimited(route string) {
	RateLimited.WithLabelValues(route).Inc()
}
