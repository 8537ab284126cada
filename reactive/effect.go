package reactive

import (
	"slices"
	"time"
)

// CreateEffect adds an effect and schedules its first run. Outside a batch
// or flush it has run once, with its dependencies captured, by the time
// CreateEffect returns. Errors returned by run go to the ErrorHandler.
func (g *Graph) CreateEffect(run func(*Graph) error) Effect {
	k := g.effects.insert(effectNode{
		run:   run,
		dirty: true,
	})
	id := EffectID{k}
	g.pending = append(g.pending, id)
	g.flush()
	return Effect{id: id}
}

// runEffect executes a pending effect if it is still live and dirty. The
// dirty flag is cleared before run so a Set from inside run queues the
// effect for a later pass instead of re-entering it.
func (g *Graph) runEffect(id EffectID) bool {
	n := g.effects.get(id.key)
	if n == nil || !n.dirty {
		return false
	}
	n.dirty = false
	run := n.run
	self := EffectSubscriber(id)

	scope := g.pushScope(self)
	start := time.Now()
	err := func() error {
		defer g.popScope()
		return run(g)
	}()
	took := time.Since(start)

	if n = g.effects.get(id.key); n != nil {
		deps, depth := g.resubscribe(self, n.dependencies, scope.sources)
		n = g.effects.get(id.key)
		n.dependencies = deps
		n.depth = depth
	}

	g.hooks.EffectRan(id, start, took, err)
	if err != nil {
		g.reportError(id, err)
	}
	return true
}

// DisposeEffect removes the effect and every subscription it holds. It is
// safe to call from inside any effect, including the one being disposed,
// and more than once.
func (g *Graph) DisposeEffect(e Effect) {
	n, ok := g.effects.remove(e.id.key)
	if !ok {
		return
	}
	self := EffectSubscriber(e.id)
	for _, dep := range n.dependencies {
		g.unsubscribe(dep, self)
	}
	g.pending = slices.DeleteFunc(g.pending, func(id EffectID) bool { return id == e.id })
	g.logger.Debug("disposed effect", "effect", e.id.String())
}

func (g *Graph) EffectDependencies(id EffectID) []Source {
	n := g.effects.get(id.key)
	if n == nil {
		return nil
	}
	return slices.Clone(n.dependencies)
}
