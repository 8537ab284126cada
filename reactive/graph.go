// Package reactive is a push-dirty / pull-compute signal graph.
//
// Signals hold values. Derived values are memoized functions of signals and
// other derived values, recomputed lazily on read once a dependency
// changed. Effects are side-effecting subscribers that the scheduler runs
// after their dependencies change, ordered by depth, once per flush.
//
// A Graph is owned by one goroutine at a time. Sharing it requires an
// external lock (see package state).
package reactive

import (
	"log/slog"
	"reflect"
)

// ErrorHandler receives errors returned by effect runs.
type ErrorHandler func(id EffectID, err error)

type signalNode struct {
	value       any
	typ         reflect.Type
	version     uint64
	subscribers []SubscriberRef
}

type derivedNode struct {
	value         any
	hasValue      bool
	typ           reflect.Type
	cachedVersion uint64
	compute       func(*Graph) any
	dependencies  []Source
	subscribers   []SubscriberRef
	dirty         bool
	computing     bool
	depth         uint32
}

type effectNode struct {
	run          func(*Graph) error
	dependencies []Source
	dirty        bool
	depth        uint32
}

// Graph owns every signal, derived and effect node.
type Graph struct {
	signals arena[signalNode]
	derived arena[derivedNode]
	effects arena[effectNode]

	pending    []EffectID
	batchDepth int
	flushing   bool
	tracking   []*trackingScope

	globalVersion uint64

	logger      *slog.Logger
	hooks       Hooks
	onError     ErrorHandler
	flushBudget int
}

type Option func(*Graph)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithHooks registers observers. Multiple calls accumulate.
func WithHooks(hooks ...Hooks) Option {
	return func(g *Graph) {
		var all multiHooks
		if g.hooks != nil {
			all = append(all, g.hooks)
		}
		for _, h := range hooks {
			if h != nil {
				all = append(all, h)
			}
		}
		switch len(all) {
		case 0:
		case 1:
			g.hooks = all[0]
		default:
			g.hooks = all
		}
	}
}

// WithErrorHandler routes errors returned by effects. Without one they are
// logged at error level.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(g *Graph) {
		g.onError = fn
	}
}

// WithFlushBudget caps the number of passes a single flush may take. Zero
// means unlimited: effects that keep dirtying each other loop forever.
func WithFlushBudget(passes int) Option {
	return func(g *Graph) {
		if passes >= 0 {
			g.flushBudget = passes
		}
	}
}

func New(opts ...Option) *Graph {
	g := &Graph{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.hooks == nil {
		g.hooks = NopHooks{}
	}
	return g
}

// Stats is a snapshot of the graph's size and activity.
type Stats struct {
	SignalCount    int
	DerivedCount   int
	EffectCount    int
	PendingEffects int
	GlobalVersion  uint64
}

func (g *Graph) Stats() Stats {
	return Stats{
		SignalCount:    g.signals.len(),
		DerivedCount:   g.derived.len(),
		EffectCount:    g.effects.len(),
		PendingEffects: len(g.pending),
		GlobalVersion:  g.globalVersion,
	}
}

func (g *Graph) reportError(id EffectID, err error) {
	if g.onError != nil {
		g.onError(id, err)
		return
	}
	g.logger.Error("effect failed", "effect", id.String(), "error", err)
}
