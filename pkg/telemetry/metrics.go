package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "trellis").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "trellis",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the runtime collectors. The zero of *Metrics (nil) records nothing.
type Metrics struct {
	flushesTotal  prometheus.Counter
	flushDuration prometheus.Histogram
	flushWatchers prometheus.Histogram
	watcherRuns   *prometheus.CounterVec
	loopAborts    prometheus.Counter
	patchOps      *prometheus.CounterVec
	patchDuration prometheus.Histogram
}

// NewMetrics creates and registers the runtime collectors.
// Registering twice against the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		flushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of scheduler flushes",
			ConstLabels: config.ConstLabels,
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Scheduler flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		flushWatchers: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_watchers",
			Help:        "Number of watcher runs per scheduler flush",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000},
		}),

		watcherRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "watcher_runs_total",
			Help:        "Total number of watcher runs by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		loopAborts: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "update_loop_aborts_total",
			Help:        "Total number of watchers dropped by the update loop guard",
			ConstLabels: config.ConstLabels,
		}),

		patchOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patch_ops_total",
			Help:        "Total number of reconciler operations by op",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		patchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patch_duration_seconds",
			Help:        "Reconciler patch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// ObserveFlush records one completed flush.
func (m *Metrics) ObserveFlush(d time.Duration, runs int) {
	if m == nil {
		return
	}
	m.flushesTotal.Inc()
	m.flushDuration.Observe(d.Seconds())
	m.flushWatchers.Observe(float64(runs))
}

// IncWatcherRun records a watcher run of the given kind.
func (m *Metrics) IncWatcherRun(kind string) {
	if m == nil {
		return
	}
	m.watcherRuns.WithLabelValues(kind).Inc()
}

// IncLoopAbort records a watcher dropped by the update loop guard.
func (m *Metrics) IncLoopAbort() {
	if m == nil {
		return
	}
	m.loopAborts.Inc()
}

// IncPatchOp records one reconciler operation.
func (m *Metrics) IncPatchOp(op string) {
	if m == nil {
		return
	}
	m.patchOps.WithLabelValues(op).Inc()
}

// ObservePatch records the duration of one top-level patch.
func (m *Metrics) ObservePatch(d time.Duration) {
	if m == nil {
		return
	}
	m.patchDuration.Observe(d.Seconds())
}
