package reactive

// BatchStart opens a batch. Sets inside it dirty their subscribers at once
// but effects wait for the outermost BatchEnd.
func (g *Graph) BatchStart() {
	g.batchDepth++
}

// BatchEnd closes a batch and flushes when it was the outermost one. It is
// a no-op outside any batch.
func (g *Graph) BatchEnd() {
	if g.batchDepth == 0 {
		return
	}
	g.batchDepth--
	if g.batchDepth == 0 {
		g.flush()
	}
}

// Batch runs fn inside a batch, so every effect it dirties runs at most once.
func (g *Graph) Batch(fn func(g *Graph)) {
	BatchValue(g, func(g *Graph) struct{} {
		fn(g)
		return struct{}{}
	})
}

// BatchValue is Batch for callbacks that return a value. If fn panics the
// batch depth is restored and nothing is flushed.
func BatchValue[R any](g *Graph, fn func(g *Graph) R) R {
	g.BatchStart()
	done := false
	defer func() {
		if !done {
			g.batchDepth--
		}
	}()

	result := fn(g)
	done = true
	g.BatchEnd()
	return result
}
