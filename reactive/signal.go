package reactive

import (
	"reflect"
	"slices"
)

// CreateSignal adds a signal holding initial.
func CreateSignal[T any](g *Graph, initial T) Signal[T] {
	k := g.signals.insert(signalNode{
		value: initial,
		typ:   reflect.TypeFor[T](),
	})
	return Signal[T]{id: SignalID{k}}
}

func lookupSignal[T any](g *Graph, s Signal[T]) (*signalNode, error) {
	n := g.signals.get(s.id.key)
	if n == nil {
		return nil, ErrNotFound
	}
	if err := checkType[T]("signal", s.id.key, n.typ); err != nil {
		return nil, err
	}
	return n, nil
}

// Get returns the signal's value and, inside an effect or derived compute,
// records the signal as a dependency.
func Get[T any](g *Graph, s Signal[T]) (T, error) {
	n, err := lookupSignal(g, s)
	if err != nil {
		var zero T
		return zero, err
	}
	g.track(SignalSource(s.id))
	return as[T](n.value), nil
}

// GetUntracked returns the signal's value without subscribing to it.
func GetUntracked[T any](g *Graph, s Signal[T]) (T, error) {
	n, err := lookupSignal(g, s)
	if err != nil {
		var zero T
		return zero, err
	}
	return as[T](n.value), nil
}

// Set stores v, bumps the version and dirties every subscriber. Outside a
// batch, pending effects are flushed before Set returns.
func Set[T any](g *Graph, s Signal[T], v T) error {
	n, err := lookupSignal(g, s)
	if err != nil {
		return err
	}
	n.value = v
	n.version++
	g.globalVersion++
	version := n.version
	subs := slices.Clone(n.subscribers)

	g.hooks.SignalSet(s.id, version)
	g.propagate(subs)
	g.flush()
	return nil
}

// Update sets the signal to f applied to its current, untracked value.
func Update[T any](g *Graph, s Signal[T], f func(T) T) error {
	current, err := GetUntracked(g, s)
	if err != nil {
		return err
	}
	return Set(g, s, f(current))
}

// SignalVersion reports how many times the signal has been set.
func (g *Graph) SignalVersion(id SignalID) (uint64, bool) {
	n := g.signals.get(id.key)
	if n == nil {
		return 0, false
	}
	return n.version, true
}

// SignalSubscribers lists the nodes notified when the signal changes.
func (g *Graph) SignalSubscribers(id SignalID) []SubscriberRef {
	n := g.signals.get(id.key)
	if n == nil {
		return nil
	}
	return slices.Clone(n.subscribers)
}

// DisposeSignal frees the slot and scrubs the signal from every dependent's
// dependency list. Dependents keep their cached state; their next run
// observes ErrNotFound.
func (g *Graph) DisposeSignal(id SignalID) {
	n, ok := g.signals.remove(id.key)
	if !ok {
		return
	}
	g.scrubSource(SignalSource(id), n.subscribers)
	g.logger.Debug("disposed signal", "signal", id.String(), "subscribers", len(n.subscribers))
}

func (g *Graph) scrubSource(src Source, subs []SubscriberRef) {
	drop := func(s Source) bool { return s == src }
	for _, sub := range subs {
		switch sub.Kind {
		case SubscriberDerived:
			if d := g.derived.get(sub.key); d != nil {
				d.dependencies = slices.DeleteFunc(d.dependencies, drop)
			}
		case SubscriberEffect:
			if e := g.effects.get(sub.key); e != nil {
				e.dependencies = slices.DeleteFunc(e.dependencies, drop)
			}
		}
	}
}
