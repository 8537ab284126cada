package reactive

import (
	"slices"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

func (g *Graph) subscribers(src Source) *[]SubscriberRef {
	switch src.Kind {
	case SourceSignal:
		if n := g.signals.get(src.key); n != nil {
			return &n.subscribers
		}
	case SourceDerived:
		if n := g.derived.get(src.key); n != nil {
			return &n.subscribers
		}
	}
	return nil
}

func (g *Graph) subscribe(src Source, sub SubscriberRef) {
	subs := g.subscribers(src)
	if subs == nil || slices.Contains(*subs, sub) {
		return
	}
	*subs = append(*subs, sub)
}

func (g *Graph) unsubscribe(src Source, sub SubscriberRef) {
	subs := g.subscribers(src)
	if subs == nil {
		return
	}
	*subs = slices.DeleteFunc(*subs, func(s SubscriberRef) bool { return s == sub })
}

// resubscribe diffs the previous dependency set of sub against the one just
// recorded and returns the new set with the depth it implies.
func (g *Graph) resubscribe(sub SubscriberRef, old, next []Source) ([]Source, uint32) {
	nextSet := mapset.NewThreadUnsafeSet(next...)
	for _, src := range old {
		if !nextSet.Contains(src) {
			g.unsubscribe(src, sub)
		}
	}

	var maxDepth uint32
	live := make([]Source, 0, len(next))
	for _, src := range next {
		if g.subscribers(src) == nil {
			// disposed while sub was running
			continue
		}
		g.subscribe(src, sub)
		live = append(live, src)
		maxDepth = max(maxDepth, g.sourceDepth(src))
	}
	return live, maxDepth + 1
}

func (g *Graph) sourceDepth(src Source) uint32 {
	if src.Kind == SourceDerived {
		if n := g.derived.get(src.key); n != nil {
			return n.depth
		}
	}
	return 0
}

func (g *Graph) depthOf(ref SubscriberRef) (uint32, bool) {
	switch ref.Kind {
	case SubscriberDerived:
		if n := g.derived.get(ref.key); n != nil {
			return n.depth, true
		}
	case SubscriberEffect:
		if n := g.effects.get(ref.key); n != nil {
			return n.depth, true
		}
	}
	return 0, false
}

// raiseDepth lifts ref to at least floor and pushes the new lower bound
// down its subscriber chain. A node reached again along a longer path is
// raised again; onPath only stops a walk from looping back into itself.
func (g *Graph) raiseDepth(ref SubscriberRef, floor uint32) {
	onPath := mapset.NewThreadUnsafeSet[SubscriberRef]()
	var raise func(ref SubscriberRef, floor uint32)
	raise = func(ref SubscriberRef, floor uint32) {
		if !onPath.Add(ref) {
			return
		}
		defer onPath.Remove(ref)

		switch ref.Kind {
		case SubscriberEffect:
			if n := g.effects.get(ref.key); n != nil && n.depth < floor {
				n.depth = floor
			}
		case SubscriberDerived:
			n := g.derived.get(ref.key)
			if n == nil || n.depth >= floor {
				return
			}
			n.depth = floor
			for _, sub := range slices.Clone(n.subscribers) {
				raise(sub, floor+1)
			}
		}
	}
	raise(ref, floor)
}

// propagate marks everything reachable from subs dirty. Derived nodes are
// walked even when already dirty, the visited set keeps cycles finite.
func (g *Graph) propagate(subs []SubscriberRef) {
	visited := mapset.NewThreadUnsafeSet[SubscriberRef]()
	for _, sub := range subs {
		g.markDirty(sub, visited)
	}
}

func (g *Graph) markDirty(sub SubscriberRef, visited mapset.Set[SubscriberRef]) {
	if !visited.Add(sub) {
		return
	}
	switch sub.Kind {
	case SubscriberDerived:
		n := g.derived.get(sub.key)
		if n == nil {
			return
		}
		n.dirty = true
		for _, next := range slices.Clone(n.subscribers) {
			g.markDirty(next, visited)
		}
	case SubscriberEffect:
		n := g.effects.get(sub.key)
		if n == nil || n.dirty {
			return
		}
		n.dirty = true
		g.pending = append(g.pending, EffectID{sub.key})
	}
}

// flush runs pending effects until the queue is empty. Re-entrant calls
// (a Set inside an effect, a batch closing inside an effect) return at
// once; the outer loop picks up whatever they queued.
func (g *Graph) flush() {
	if g.flushing || g.batchDepth > 0 || len(g.pending) == 0 {
		return
	}
	g.flushing = true
	defer func() { g.flushing = false }()

	start := time.Now()
	passes, ran := 0, 0
	for len(g.pending) > 0 {
		if g.flushBudget > 0 && passes >= g.flushBudget {
			g.logger.Warn("flush budget exceeded",
				"passes", passes,
				"pending", len(g.pending),
			)
			g.reportError(EffectID{}, ErrFlushBudgetExceeded)
			break
		}
		passes++
		ran += g.flushPass()
	}

	took := time.Since(start)
	g.logger.Debug("flushed effects", "passes", passes, "ran", ran, "took", took)
	g.hooks.Flushed(passes, ran, start, took)
}

func (g *Graph) flushPass() (ran int) {
	queue := g.pending
	g.pending = nil
	slices.SortStableFunc(queue, func(a, b EffectID) int {
		da, _ := g.depthOf(EffectSubscriber(a))
		db, _ := g.depthOf(EffectSubscriber(b))
		return int(da) - int(db)
	})

	defer func() {
		// a panicking effect leaves the rest of this pass for later
		if len(queue) > 0 {
			g.pending = append(queue, g.pending...)
		}
	}()

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if g.runEffect(id) {
			ran++
		}
	}
	return ran
}
