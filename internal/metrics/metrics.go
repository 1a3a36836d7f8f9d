// Package metrics exposes the service's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route and status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callguard_http_requests_total",
		Help: "HTTP requests processed, by route and status code.",
	}, []string{"route", "status"})

	// RequestDuration tracks HTTP handler latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "callguard_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// VerdictsTotal counts analyses by final risk level.
	VerdictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callguard_verdicts_total",
		Help: "Fraud verdicts issued, by final risk.",
	}, []string{"risk"})

	// ClassifierCalls counts successful external classifier calls.
	ClassifierCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "callguard_classifier_calls_total",
		Help: "Successful external classifier consultations.",
	})

	// ClassifierErrors counts failed classifier calls by stage.
	ClassifierErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callguard_classifier_errors_total",
		Help: "External classifier failures, by stage (transport or decode).",
	}, []string{"stage"})

	// ClassifierLatency tracks external classifier round-trip time.
	ClassifierLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "callguard_classifier_duration_seconds",
		Help:    "External classifier round-trip latency.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	// CacheHits counts verdict cache hits and misses.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callguard_verdict_cache_total",
		Help: "Verdict cache lookups, by outcome (hit or miss).",
	}, []string{"outcome"})
)
