// Package metrics defines and registers all custom Prometheus metrics for the
// patient profiling API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry at package init via
// promauto; the /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "profiling"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", or "inactive"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Patient metrics ───────────────────────────────────────────────────────────

// PatientsCreatedTotal counts newly created patient records.
var PatientsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "patients_created_total",
		Help:      "Total number of patient records created.",
	},
)

// ── Prediction metrics ────────────────────────────────────────────────────────

// PredictionsTotal counts model invocations by outcome.
// Label:
//   - result: "success", "unavailable" (backend unreachable/timeout), or "failed"
var PredictionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total number of profile predictions, by result.",
	},
	[]string{"result"},
)

// PredictionDuration measures how long a single model invocation takes.
// Label:
//   - result: "success", "unavailable", or "failed"
var PredictionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_duration_seconds",
		Help:      "Duration of profile prediction calls to the model backend.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"result"},
)

// PredictionCacheTotal counts prediction cache lookups.
// Label:
//   - result: "hit" (cached result reused) or "miss"
var PredictionCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_cache_total",
		Help:      "Total number of prediction cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// RecomputeEnqueuedTotal counts patient records queued for bulk recomputation.
var RecomputeEnqueuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recompute_enqueued_total",
		Help:      "Total number of patient records enqueued for profile recomputation.",
	},
)
