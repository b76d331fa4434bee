package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Classification Metrics
	RunsTotal          *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	PhaseDuration      *prometheus.HistogramVec
	RunsInFlight       prometheus.Gauge
	NormalizedAxioms   prometheus.Histogram
	DerivedTotal       *prometheus.CounterVec
	SyntheticNodes     prometheus.Histogram
	HierarchyVertices  *prometheus.GaugeVec
	UnsatisfiableTotal prometheus.Counter

	// Cache Metrics
	CacheLookupsTotal *prometheus.CounterVec
	CacheEntries      prometheus.Gauge

	// Process Metrics
	ProcessUptime  prometheus.Gauge
	EngineProcs    prometheus.Gauge
	HeapBytes      *prometheus.GaugeVec
	GCPauseSeconds prometheus.Gauge
	Entities       *prometheus.GaugeVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initClassificationMetrics()
	r.initCacheMetrics()
	r.initProcessMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
