package state

import "sync/atomic"

// DirtyFlag tells a UI layer that its tree must be rebuilt. Any goroutine
// may raise it; the render loop consumes it with Take.
type DirtyFlag struct {
	v atomic.Bool
}

func (f *DirtyFlag) Request() {
	f.v.Store(true)
}

// Take reports whether a rebuild was requested and clears the flag.
func (f *DirtyFlag) Take() bool {
	return f.v.Swap(false)
}

func (f *DirtyFlag) IsSet() bool {
	return f.v.Load()
}
