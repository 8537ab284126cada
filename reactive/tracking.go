package reactive

import mapset "github.com/deckarep/golang-set/v2"

// trackingScope collects the sources read during one compute or effect run.
type trackingScope struct {
	owner   SubscriberRef
	sources []Source
	seen    mapset.Set[Source]
}

func (g *Graph) pushScope(owner SubscriberRef) *trackingScope {
	scope := &trackingScope{
		owner: owner,
		seen:  mapset.NewThreadUnsafeSet[Source](),
	}
	g.tracking = append(g.tracking, scope)
	return scope
}

// pushUntracked hides every enclosing scope until the matching popScope.
func (g *Graph) pushUntracked() {
	g.tracking = append(g.tracking, nil)
}

func (g *Graph) popScope() {
	last := len(g.tracking) - 1
	g.tracking[last] = nil
	g.tracking = g.tracking[:last]
}

func (g *Graph) activeScope() *trackingScope {
	if len(g.tracking) == 0 {
		return nil
	}
	return g.tracking[len(g.tracking)-1]
}

// track records src in the active scope, once. Reading a derived raises
// the owner's provisional depth right away so that flush order is sane
// even before the owner finishes its first run.
func (g *Graph) track(src Source) {
	scope := g.activeScope()
	if scope == nil {
		return
	}
	if !scope.seen.Add(src) {
		return
	}
	scope.sources = append(scope.sources, src)

	if src.Kind == SourceDerived {
		g.raiseDepth(scope.owner, g.sourceDepth(src)+1)
	}
}

// Untracked runs fn without recording any reads as dependencies.
func (g *Graph) Untracked(fn func()) {
	g.pushUntracked()
	defer g.popScope()
	fn()
}

// UntrackedValue is Untracked for callbacks that return a value.
func UntrackedValue[T any](g *Graph, fn func() T) T {
	g.pushUntracked()
	defer g.popScope()
	return fn()
}
