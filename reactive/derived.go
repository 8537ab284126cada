package reactive

import (
	"reflect"
	"slices"
	"time"
)

// CreateDerived adds a memoized value. compute runs lazily on the first
// read and again on the first read after any dependency changed.
func CreateDerived[T any](g *Graph, compute func(*Graph) T) Derived[T] {
	k := g.derived.insert(derivedNode{
		compute: func(g *Graph) any { return compute(g) },
		typ:     reflect.TypeFor[T](),
		dirty:   true,
	})
	return Derived[T]{id: DerivedID{k}}
}

// GetDerived returns the cached value, recomputing it first if dirty. Inside
// an effect or another derived it records d as a dependency.
func GetDerived[T any](g *Graph, d Derived[T]) (T, error) {
	return getDerived(g, d, true)
}

// GetDerivedUntracked is GetDerived without subscribing the caller.
func GetDerivedUntracked[T any](g *Graph, d Derived[T]) (T, error) {
	return getDerived(g, d, false)
}

func getDerived[T any](g *Graph, d Derived[T], tracked bool) (T, error) {
	var zero T
	n := g.derived.get(d.id.key)
	if n == nil {
		return zero, ErrNotFound
	}
	if err := checkType[T]("derived", d.id.key, n.typ); err != nil {
		return zero, err
	}
	if n.computing {
		return zero, ErrCycle
	}

	value := n.value
	if n.dirty || !n.hasValue {
		value = g.recompute(d.id)
	}
	if tracked {
		g.track(DerivedSource(d.id))
	}
	return as[T](value), nil
}

// recompute copies the closure out of the arena, runs it with no node
// pointer held, then commits value, dependencies and depth in one step. A
// panicking compute commits nothing and leaves the node dirty.
func (g *Graph) recompute(id DerivedID) any {
	self := DerivedSubscriber(id)
	n := g.derived.get(id.key)
	compute := n.compute
	n.computing = true
	// cleared up front so a Set issued by compute itself is not lost
	n.dirty = false

	committed := false
	defer func() {
		if n := g.derived.get(id.key); n != nil {
			n.computing = false
			if !committed {
				n.dirty = true
			}
		}
	}()

	scope := g.pushScope(self)
	start := time.Now()
	value := func() any {
		defer g.popScope()
		return compute(g)
	}()
	took := time.Since(start)

	if !g.derived.contains(id.key) {
		// disposed by its own compute
		return value
	}
	prev := g.derived.get(id.key)
	deps, depth := g.resubscribe(self, prev.dependencies, scope.sources)

	n = g.derived.get(id.key)
	prevDepth := n.depth
	n.dependencies = deps
	n.depth = depth
	n.value = value
	n.hasValue = true
	n.cachedVersion = g.globalVersion
	committed = true

	if depth > prevDepth {
		for _, sub := range slices.Clone(n.subscribers) {
			g.raiseDepth(sub, depth+1)
		}
	}
	g.hooks.DerivedComputed(id, start, took)
	return value
}

// DerivedCachedVersion reports the global version the cached value was
// computed at. It is false while the value is dirty.
func (g *Graph) DerivedCachedVersion(id DerivedID) (uint64, bool) {
	n := g.derived.get(id.key)
	if n == nil || n.dirty || !n.hasValue {
		return 0, false
	}
	return n.cachedVersion, true
}

func (g *Graph) DerivedSubscribers(id DerivedID) []SubscriberRef {
	n := g.derived.get(id.key)
	if n == nil {
		return nil
	}
	return slices.Clone(n.subscribers)
}

func (g *Graph) DerivedDependencies(id DerivedID) []Source {
	n := g.derived.get(id.key)
	if n == nil {
		return nil
	}
	return slices.Clone(n.dependencies)
}

// DisposeDerived frees the slot, unsubscribes it from its dependencies and
// scrubs it from its subscribers' dependency lists.
func (g *Graph) DisposeDerived(id DerivedID) {
	n, ok := g.derived.remove(id.key)
	if !ok {
		return
	}
	self := DerivedSubscriber(id)
	for _, dep := range n.dependencies {
		g.unsubscribe(dep, self)
	}
	g.scrubSource(DerivedSource(id), n.subscribers)
	g.logger.Debug("disposed derived", "derived", id.String())
}

// Depth reports the flush rank of a derived or effect.
func (g *Graph) Depth(ref SubscriberRef) (uint32, bool) {
	return g.depthOf(ref)
}
