// Package metrics defines and registers all custom Prometheus metrics for the
// agency dashboard API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

// ── Aggregation metrics ───────────────────────────────────────────────────────

// CacheRequestsTotal counts metrics-cache lookups.
// Labels:
//   - result: "hit", "miss" or "error"
var CacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "metrics_cache_requests_total",
		Help:      "Total number of metrics cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// CacheClearsTotal counts explicit cache invalidations.
var CacheClearsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "metrics_cache_clears_total",
		Help:      "Total number of explicit metrics cache clears.",
	},
)

// AggregationDuration measures store round-trips of one aggregation.
// Label:
//   - kind: entry point ("summary", "daily", "by_user", ...)
var AggregationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "aggregation_duration_seconds",
		Help:      "Duration of metrics aggregation queries against the store.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Call metrics ──────────────────────────────────────────────────────────────

// CallsCreatedTotal counts newly logged calls.
// Label:
//   - traffic_source: "organic" or "meta"
var CallsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_created_total",
		Help:      "Total number of calls logged, by traffic source.",
	},
	[]string{"traffic_source"},
)

// StageTransitionsTotal counts Kanban moves.
// Labels:
//   - from, to: the stages involved
var StageTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stage_transitions_total",
		Help:      "Total number of call stage transitions.",
	},
	[]string{"from", "to"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditErrorsTotal counts audit events that could not be persisted.
var AuditErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of stage audit events that failed to persist.",
	},
)
