package reactive

// Readable is anything a tracked read can be issued against: Signal[T] or
// Derived[T].
type Readable[T any] interface {
	read(g *Graph) (T, error)
}

func (s Signal[T]) read(g *Graph) (T, error)  { return Get(g, s) }
func (d Derived[T]) read(g *Graph) (T, error) { return GetDerived(g, d) }

// Read performs a tracked read of a signal or a derived value.
func Read[T any](g *Graph, r Readable[T]) (T, error) {
	return r.read(g)
}
