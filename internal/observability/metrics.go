// Package observability registers Prometheus metrics for the booking core.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsRequested = promauto.NewCounter(prometheus.CounterOpts{Namespace: "unipool", Name: "bookings_requested_total", Help: "Booking requests created"})
	BookingsAccepted  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "unipool", Name: "bookings_accepted_total", Help: "Bookings accepted by drivers"})
	BookingsRejected  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "unipool", Name: "bookings_rejected_total", Help: "Bookings rejected, including auto-rejects"})
	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{Namespace: "unipool", Name: "bookings_cancelled_total", Help: "Bookings cancelled by passengers or cascades"})

	CapacityConflicts = promauto.NewCounter(prometheus.CounterOpts{Namespace: "unipool", Name: "capacity_conflicts_total", Help: "Optimistic capacity updates that lost the race and retried"})
	CascadeRejects    = promauto.NewHistogram(prometheus.HistogramOpts{Namespace: "unipool", Name: "cascade_reject_fanout", Help: "Pending bookings auto-rejected when a ride filled", Buckets: []float64{0, 1, 2, 3, 5, 8, 13}})

	MatchLatency = promauto.NewHistogram(prometheus.HistogramOpts{Namespace: "unipool", Name: "match_latency_seconds", Help: "Match query latency", Buckets: prometheus.DefBuckets})
	MatchesFound = promauto.NewHistogram(prometheus.HistogramOpts{Namespace: "unipool", Name: "matches_found", Help: "Eligible rides returned per match query", Buckets: []float64{0, 1, 2, 5, 10, 20}})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "unipool", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "unipool",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
