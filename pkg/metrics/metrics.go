package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "todo", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "todo", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	// Requests counts API calls by operation (list|create|update|delete) and
	// outcome (ok|invalid|not_found|error).
	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "todo", Name: "requests_total", Help: "Number of todo API requests by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "todo", Name: "request_duration_seconds", Help: "Todo API latency by operation.", Buckets: prometheus.DefBuckets},
		[]string{"operation"},
	)
	StoreWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "todo", Name: "store_writes_total", Help: "Number of full-set store writes by backend and outcome."},
		[]string{"backend", "outcome"},
	)
	// StoredItems is the size of the todo set as last read or written.
	StoredItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "todo", Name: "stored_items", Help: "Number of todos in the store as last seen."},
		[]string{"backend"},
	)
)

// RegisterCollectors registers every collector of the service on reg.
func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed, RateLimitRejected, Requests, RequestDuration, StoreWrites, StoredItems)
}
