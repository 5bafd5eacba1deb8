// Package metrics holds the registry/poller-level Prometheus series that
// spec §2.4 adds alongside the teacher's HTTP-layer metrics in
// internal/httpapi/metrics.go. Kept separate so internal/registry never has
// to import the HTTP transport package to report a counter; both packages'
// collectors share the global Prometheus registry, so promhttp.Handler()
// in internal/httpapi serves both without any cross-import.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ModelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jams",
			Subsystem: "registry",
			Name:      "model_loads_total",
			Help:      "Total model load/replace attempts by outcome",
		},
		[]string{"outcome"},
	)

	ModelEvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jams",
			Subsystem: "registry",
			Name:      "model_evictions_total",
			Help:      "Total models removed from the registry",
		},
	)

	PollTicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jams",
			Subsystem: "poller",
			Name:      "ticks_total",
			Help:      "Total reconciliation ticks that completed without error",
		},
	)

	PollFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jams",
			Subsystem: "poller",
			Name:      "failures_total",
			Help:      "Total reconciliation ticks that returned an error",
		},
	)

	PollSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jams",
			Subsystem: "poller",
			Name:      "skipped_total",
			Help:      "Total ticks skipped because a previous reconciliation was still running",
		},
	)
)

func init() {
	prometheus.MustRegister(ModelLoadsTotal, ModelEvictionsTotal, PollTicksTotal, PollFailuresTotal, PollSkippedTotal)
}
