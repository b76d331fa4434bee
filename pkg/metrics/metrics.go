package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcome labels.
const (
	StatusSuccess     = "success"
	StatusInterrupted = "interrupted"
	StatusError       = "error"
	StatusCached      = "cached"
)

// RunStats summarizes one classification run.
type RunStats struct {
	NormalizedAxioms int
	Subsumptions     int
	Edges            int
	SyntheticNodes   int
	ClassVertices    int
	RoleVertices     int
	Unsatisfiable    int
}

// StartRun marks a run as in flight and returns the function that ends it.
func (r *Registry) StartRun() func() {
	r.RunsInFlight.Inc()
	return r.RunsInFlight.Dec
}

// RecordRun records the outcome and duration of a classification run
func (r *Registry) RecordRun(status string, duration time.Duration) {
	r.RunsTotal.WithLabelValues(status).Inc()
	if status != StatusCached {
		r.RunDuration.Observe(duration.Seconds())
	}
}

// RecordPhase records how long one phase of a run took
func (r *Registry) RecordPhase(phase string, duration time.Duration) {
	r.PhaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordResult records the sizes of a completed run
func (r *Registry) RecordResult(stats RunStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.NormalizedAxioms.Observe(float64(stats.NormalizedAxioms))
	r.DerivedTotal.WithLabelValues("subsumption").Add(float64(stats.Subsumptions))
	r.DerivedTotal.WithLabelValues("edge").Add(float64(stats.Edges))
	r.SyntheticNodes.Observe(float64(stats.SyntheticNodes))
	r.HierarchyVertices.WithLabelValues("class").Set(float64(stats.ClassVertices))
	r.HierarchyVertices.WithLabelValues("role").Set(float64(stats.RoleVertices))
	r.UnsatisfiableTotal.Add(float64(stats.Unsatisfiable))
}

// RecordCacheLookup records a hit or a miss of the result cache
func (r *Registry) RecordCacheLookup(hit bool, entries int) {
	if hit {
		r.CacheLookupsTotal.WithLabelValues("hit").Inc()
	} else {
		r.CacheLookupsTotal.WithLabelValues("miss").Inc()
	}
	r.CacheEntries.Set(float64(entries))
}

// EntityCounts is the population of an entity manager.
type EntityCounts struct {
	Classes     int
	AuxClasses  int
	Roles       int
	AuxRoles    int
	Individuals int
}

// RecordEntities records the entity population after a run
func (r *Registry) RecordEntities(c EntityCounts) {
	r.Entities.WithLabelValues("class", "original").Set(float64(c.Classes))
	r.Entities.WithLabelValues("class", "auxiliary").Set(float64(c.AuxClasses))
	r.Entities.WithLabelValues("role", "original").Set(float64(c.Roles))
	r.Entities.WithLabelValues("role", "auxiliary").Set(float64(c.AuxRoles))
	r.Entities.WithLabelValues("individual", "original").Set(float64(c.Individuals))
}

// UpdateProcessMetrics refreshes the process gauges
func (r *Registry) UpdateProcessMetrics(started time.Time) {
	r.ProcessUptime.Set(time.Since(started).Seconds())
	r.EngineProcs.Set(float64(runtime.GOMAXPROCS(0)))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.HeapBytes.WithLabelValues("live").Set(float64(m.HeapAlloc))
	r.HeapBytes.WithLabelValues("reserved").Set(float64(m.HeapSys))
	r.GCPauseSeconds.Set(time.Duration(m.PauseTotalNs).Seconds())
}

// WriteTextfile writes every metric to path in the text exposition format
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
