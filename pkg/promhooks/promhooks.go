// Package promhooks exports reactive graph activity as Prometheus metrics.
package promhooks

import (
	"time"

	"github.com/delaneyj/signalgraph/reactive"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the Prometheus hooks.
type Config struct {
	// Namespace is the metrics namespace (default: "signalgraph").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for compute and effect durations.
	// Default: 1µs to roughly 4s in powers of four.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "signalgraph",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		Registry:  prometheus.DefaultRegisterer,
	}
}

func newConfig(opts []Option) Config {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

// Hooks implements reactive.Hooks on top of Prometheus collectors.
//
// Metrics collected:
//   - signalgraph_signal_sets_total
//   - signalgraph_derived_computes_total
//   - signalgraph_derived_compute_seconds
//   - signalgraph_effect_runs_total{status}
//   - signalgraph_effect_run_seconds
//   - signalgraph_flushes_total
//   - signalgraph_flush_passes
//   - signalgraph_flush_seconds
type Hooks struct {
	signalSets      prometheus.Counter
	derivedComputes prometheus.Counter
	derivedDuration prometheus.Histogram
	effectRuns      *prometheus.CounterVec
	effectDuration  prometheus.Histogram
	flushes         prometheus.Counter
	flushPasses     prometheus.Histogram
	flushDuration   prometheus.Histogram
}

var _ reactive.Hooks = (*Hooks)(nil)

func New(opts ...Option) *Hooks {
	config := newConfig(opts)
	factory := promauto.With(config.Registry)

	return &Hooks{
		signalSets: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "signal_sets_total",
			Help:        "Total number of signal writes",
			ConstLabels: config.ConstLabels,
		}),

		derivedComputes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "derived_computes_total",
			Help:        "Total number of derived value recomputations",
			ConstLabels: config.ConstLabels,
		}),

		derivedDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "derived_compute_seconds",
			Help:        "Derived value compute duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		effectRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of effect runs by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		effectDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_run_seconds",
			Help:        "Effect run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of completed flushes",
			ConstLabels: config.ConstLabels,
		}),

		flushPasses: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_passes",
			Help:        "Number of passes a flush needed to drain the queue",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 3, 5, 8, 13, 21, 34},
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_seconds",
			Help:        "Flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

func (h *Hooks) SignalSet(reactive.SignalID, uint64) {
	h.signalSets.Inc()
}

func (h *Hooks) DerivedComputed(_ reactive.DerivedID, _ time.Time, took time.Duration) {
	h.derivedComputes.Inc()
	h.derivedDuration.Observe(took.Seconds())
}

func (h *Hooks) EffectRan(_ reactive.EffectID, _ time.Time, took time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	h.effectRuns.WithLabelValues(status).Inc()
	h.effectDuration.Observe(took.Seconds())
}

func (h *Hooks) Flushed(passes, _ int, _ time.Time, took time.Duration) {
	h.flushes.Inc()
	h.flushPasses.Observe(float64(passes))
	h.flushDuration.Observe(took.Seconds())
}
