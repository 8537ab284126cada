// Package state layers thread-safe component state on top of a reactive
// graph: a mutex-guarded shared graph, State handles that flag UI rebuilds,
// and a keyed store that hands back the same signal across rebuilds.
package state

import (
	"sync"
	"sync/atomic"

	"github.com/delaneyj/signalgraph/reactive"
	"github.com/petermattis/goid"
)

// Shared guards a graph with a mutex. Calls nested inside Do on the
// goroutine that holds the lock run directly, so an effect may write
// through a State without deadlocking.
type Shared struct {
	mu    sync.Mutex
	owner atomic.Int64
	graph *reactive.Graph
}

func NewShared(g *reactive.Graph) *Shared {
	if g == nil {
		g = reactive.New()
	}
	return &Shared{graph: g}
}

// Do runs fn with exclusive access to the graph.
func (s *Shared) Do(fn func(g *reactive.Graph)) {
	DoValue(s, func(g *reactive.Graph) struct{} {
		fn(g)
		return struct{}{}
	})
}

// DoValue is Do for callbacks that return a value.
func DoValue[R any](s *Shared, fn func(g *reactive.Graph) R) R {
	gid := goid.Get()
	if s.owner.Load() == gid {
		return fn(s.graph)
	}

	s.mu.Lock()
	s.owner.Store(gid)
	defer func() {
		s.owner.Store(0)
		s.mu.Unlock()
	}()
	return fn(s.graph)
}

func (s *Shared) Stats() reactive.Stats {
	return DoValue(s, (*reactive.Graph).Stats)
}
