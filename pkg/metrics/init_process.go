package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initProcessMetrics() {
	r.ProcessUptime = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "reasoner_process_uptime_seconds",
			Help: "Seconds since the reasoner process started",
		},
	)

	r.EngineProcs = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "reasoner_engine_procs",
			Help: "GOMAXPROCS available to the completion workers",
		},
	)

	// state: live (allocated heap objects), reserved (obtained from the OS)
	r.HeapBytes = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reasoner_heap_bytes",
			Help: "Heap size by state",
		},
		[]string{"state"},
	)

	r.GCPauseSeconds = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "reasoner_gc_pause_seconds",
			Help: "Cumulative garbage collection pause time",
		},
	)

	// kind: class, role, individual; origin: original, auxiliary
	r.Entities = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reasoner_entities",
			Help: "Entities registered with the manager of the last run",
		},
		[]string{"kind", "origin"},
	)
}
