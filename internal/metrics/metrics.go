// Package metrics declares the prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LookupAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maxi_profile_lookup_attempts_total",
			Help: "Profile lookup attempts per tier and outcome",
		},
		[]string{"tier", "outcome"},
	)

	SynthesisResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maxi_synthesis_results_total",
			Help: "Profile synthesis results by source (model or fallback)",
		},
		[]string{"source"},
	)

	SynthesisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "maxi_synthesis_duration_seconds",
			Help:    "Duration of profile synthesis calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	CardExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maxi_card_exports_total",
			Help: "Result card exports by kind and delivery method",
		},
		[]string{"kind", "method"},
	)

	CaptureFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "maxi_card_capture_failures_total",
			Help: "Result card captures that failed",
		},
	)

	QuizCompletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maxi_quiz_completions_total",
			Help: "Completed quizzes by rank",
		},
		[]string{"rank"},
	)

	ActiveClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "maxi_ws_clients_active",
			Help: "Connected websocket clients",
		},
	)
)
