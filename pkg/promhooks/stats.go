package promhooks

import (
	"github.com/delaneyj/signalgraph/reactive"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StatsSource yields a consistent snapshot of a graph. It is called from
// the scrape goroutine, so pass something that locks, like *state.Shared.
type StatsSource interface {
	Stats() reactive.Stats
}

// RegisterStats exposes graph sizes as gauges read at scrape time.
//
// Metrics collected:
//   - signalgraph_signals
//   - signalgraph_derived
//   - signalgraph_effects
//   - signalgraph_pending_effects
//   - signalgraph_global_version
func RegisterStats(src StatsSource, opts ...Option) {
	config := newConfig(opts)
	factory := promauto.With(config.Registry)

	gauge := func(name, help string, read func(reactive.Stats) float64) {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, func() float64 {
			return read(src.Stats())
		})
	}

	gauge("signals", "Number of live signals", func(s reactive.Stats) float64 {
		return float64(s.SignalCount)
	})
	gauge("derived", "Number of live derived values", func(s reactive.Stats) float64 {
		return float64(s.DerivedCount)
	})
	gauge("effects", "Number of live effects", func(s reactive.Stats) float64 {
		return float64(s.EffectCount)
	})
	gauge("pending_effects", "Number of effects waiting for a flush", func(s reactive.Stats) float64 {
		return float64(s.PendingEffects)
	})
	gauge("global_version", "Total number of signal writes since the graph was created", func(s reactive.Stats) float64 {
		return float64(s.GlobalVersion)
	})
}
