// Package metrics collects and exposes simulation metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gw31415/eschaton/internal/engine"
)

// Collector collects and exposes simulation metrics.
type Collector struct {
	registry *prometheus.Registry

	// Trial counters
	trialsTotal        prometheus.Counter
	successesTotal     prometheus.Counter
	stuckTotal         prometheus.Counter
	vacantSeatsCurrent prometheus.Gauge

	// Trial shape
	trialDuration prometheus.Histogram
	trialPasses   prometheus.Histogram

	// Worker metrics
	workersActive prometheus.Gauge

	// System metrics
	goroutinesActive prometheus.Gauge
	memoryUsageBytes prometheus.Gauge

	// Cached values for reporting
	cachedGoroutines  int
	cachedMemoryBytes uint64
}

// NewCollector creates a new metrics collector backed by its own
// registry.
//
// Returns:
//   - *Collector: Initialized metrics collector
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		trialsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "eschaton_trials_total",
				Help: "Total number of completed trials",
			},
		),
		successesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "eschaton_successes_total",
				Help: "Total number of trials where every participant completed",
			},
		),
		stuckTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "eschaton_stuck_participants_total",
				Help: "Total number of participants left without a feasible slot, summed over trials",
			},
		),
		vacantSeatsCurrent: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "eschaton_vacant_seats_last_trial",
				Help: "Seats left vacant by the most recent trial",
			},
		),
		trialDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "eschaton_trial_duration_seconds",
				Help:    "Wall time of a single trial",
				Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15), // 10µs .. ~160ms
			},
		),
		trialPasses: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "eschaton_trial_passes",
				Help:    "Number of shuffle passes a trial needed to reach its fixed point",
				Buckets: prometheus.LinearBuckets(1, 1, 12),
			},
		),
		workersActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "eschaton_workers_active",
				Help: "Number of active trial workers",
			},
		),
		goroutinesActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "eschaton_goroutines_active",
				Help: "Number of active goroutines",
			},
		),
		memoryUsageBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "eschaton_memory_usage_bytes",
				Help: "Current memory usage in bytes",
			},
		),
	}
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveTrial records a merged trial outcome.
//
// Parameters:
//   - out: Trial outcome
func (c *Collector) ObserveTrial(out engine.Outcome) {
	c.trialsTotal.Inc()
	if out.Success() {
		c.successesTotal.Inc()
	}
	c.stuckTotal.Add(float64(len(out.Stuck)))
	c.vacantSeatsCurrent.Set(float64(out.Vacants.Total()))
	c.trialPasses.Observe(float64(out.Passes))
}

// ObserveTrialDuration records the wall time of a single trial.
//
// Parameters:
//   - duration: Trial duration
func (c *Collector) ObserveTrialDuration(duration time.Duration) {
	c.trialDuration.Observe(duration.Seconds())
}

// SetWorkersActive sets the number of active trial workers.
//
// Parameters:
//   - count: Number of active workers
func (c *Collector) SetWorkersActive(count int) {
	c.workersActive.Set(float64(count))
}

// UpdateSystemMetrics updates system-level metrics.
//
// Parameters:
//   - goroutines: Number of active goroutines
//   - memoryBytes: Memory usage in bytes
func (c *Collector) UpdateSystemMetrics(goroutines int, memoryBytes uint64) {
	c.goroutinesActive.Set(float64(goroutines))
	c.memoryUsageBytes.Set(float64(memoryBytes))
	c.cachedGoroutines = goroutines
	c.cachedMemoryBytes = memoryBytes
}

// GetSystemMetrics returns current system metrics.
//
// Returns:
//   - int: Number of active goroutines
//   - float64: Memory usage in MiB
func (c *Collector) GetSystemMetrics() (int, float64) {
	memoryMiB := float64(c.cachedMemoryBytes) / (1024 * 1024)
	return c.cachedGoroutines, memoryMiB
}
