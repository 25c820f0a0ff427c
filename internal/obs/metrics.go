// Package obs holds the Prometheus collectors exported on /metrics.
package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// WorkflowTransitions counts adoption, payment and worker-request
	// transitions by outcome (ok, validation, domain, infrastructure).
	WorkflowTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelter_workflow_transitions_total",
			Help: "Workflow transitions attempted, by transition and outcome.",
		},
		[]string{"transition", "outcome"},
	)
)

// Init registers the collectors in the default registry.
func Init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, WorkflowTransitions)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
