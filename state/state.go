package state

import "github.com/delaneyj/signalgraph/reactive"

// StatefulCallback is told which signals a State write touched so that
// only the elements depending on them are refreshed.
type StatefulCallback func(ids []reactive.SignalID)

// State is a signal bound to a shared graph. Set and Update change the
// value for the next frame; the Rebuild variants also raise the dirty flag
// for changes that alter tree structure.
type State[T any] struct {
	signal   reactive.Signal[T]
	shared   *Shared
	dirty    *DirtyFlag
	onChange StatefulCallback
}

func NewState[T any](s reactive.Signal[T], shared *Shared, dirty *DirtyFlag, onChange StatefulCallback) State[T] {
	return State[T]{
		signal:   s,
		shared:   shared,
		dirty:    dirty,
		onChange: onChange,
	}
}

// Get returns the current value, or the zero value if the signal is gone.
func (s State[T]) Get() T {
	v, _ := s.TryGet()
	return v
}

func (s State[T]) TryGet() (T, error) {
	var v T
	err := DoValue(s.shared, func(g *reactive.Graph) (err error) {
		v, err = reactive.Get(g, s.signal)
		return err
	})
	return v, err
}

// Set stores v without requesting a rebuild.
func (s State[T]) Set(v T) error {
	if err := s.set(v); err != nil {
		return err
	}
	s.notify()
	return nil
}

// SetRebuild stores v and requests a rebuild.
func (s State[T]) SetRebuild(v T) error {
	if err := s.set(v); err != nil {
		return err
	}
	s.requestRebuild()
	return nil
}

func (s State[T]) Update(f func(T) T) error {
	if err := s.update(f); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s State[T]) UpdateRebuild(f func(T) T) error {
	if err := s.update(f); err != nil {
		return err
	}
	s.requestRebuild()
	return nil
}

func (s State[T]) Signal() reactive.Signal[T] {
	return s.signal
}

func (s State[T]) SignalID() reactive.SignalID {
	return s.signal.ID()
}

func (s State[T]) set(v T) error {
	return DoValue(s.shared, func(g *reactive.Graph) error {
		return reactive.Set(g, s.signal, v)
	})
}

func (s State[T]) update(f func(T) T) error {
	return DoValue(s.shared, func(g *reactive.Graph) error {
		return reactive.Update(g, s.signal, f)
	})
}

func (s State[T]) notify() {
	if s.onChange != nil {
		s.onChange([]reactive.SignalID{s.signal.ID()})
	}
}

func (s State[T]) requestRebuild() {
	if s.dirty != nil {
		s.dirty.Request()
	}
}
