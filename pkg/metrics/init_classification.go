package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initClassificationMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "reasoner_runs_total",
			Help: "Total number of classification runs",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reasoner_run_duration_seconds",
			Help:    "Classification run duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	r.PhaseDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reasoner_phase_duration_seconds",
			Help:    "Duration of each classification phase in seconds",
			Buckets: []float64{0.0005, 0.001, 0.01, 0.1, 1.0, 10.0},
		},
		[]string{"phase"},
	)

	r.RunsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "reasoner_runs_in_flight",
			Help: "Number of classification runs currently executing",
		},
	)

	r.NormalizedAxioms = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reasoner_normalized_axioms",
			Help:    "Number of normalized axioms per run",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
		},
	)

	r.DerivedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "reasoner_derived_total",
			Help: "Total number of derived facts by kind",
		},
		[]string{"kind"},
	)

	r.SyntheticNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reasoner_synthetic_nodes",
			Help:    "Number of synthetic nodes created per run",
			Buckets: []float64{0, 10, 100, 1000, 10000, 100000},
		},
	)

	r.HierarchyVertices = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reasoner_hierarchy_vertices",
			Help: "Number of vertices in the last computed hierarchy",
		},
		[]string{"hierarchy"},
	)

	r.UnsatisfiableTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "reasoner_unsatisfiable_classes_total",
			Help: "Total number of unsatisfiable classes found",
		},
	)
}

func (r *Registry) initCacheMetrics() {
	r.CacheLookupsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "reasoner_cache_lookups_total",
			Help: "Total number of result cache lookups",
		},
		[]string{"result"},
	)

	r.CacheEntries = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "reasoner_cache_entries",
			Help: "Number of classification results held in the cache",
		},
	)
}
