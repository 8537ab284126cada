package reactive

type slot[T any] struct {
	generation uint32
	occupied   bool
	value      T
}

// arena is a slot map: removed slots are recycled through a free list and
// their generation bumped, so stale keys stop resolving.
//
// Pointers returned by get are only valid until the next insert. Never hold
// one across a user callback.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

func (a *arena[T]) insert(v T) key {
	a.count++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.occupied = true
		s.value = v
		return key{index: idx, generation: s.generation}
	}

	a.slots = append(a.slots, slot[T]{generation: 1, occupied: true, value: v})
	return key{index: uint32(len(a.slots) - 1), generation: 1}
}

func (a *arena[T]) get(k key) *T {
	if int(k.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[k.index]
	if !s.occupied || s.generation != k.generation {
		return nil
	}
	return &s.value
}

func (a *arena[T]) contains(k key) bool {
	return a.get(k) != nil
}

func (a *arena[T]) remove(k key) (v T, ok bool) {
	if a.get(k) == nil {
		return v, false
	}
	s := &a.slots[k.index]
	v = s.value

	var zero T
	s.value = zero
	s.occupied = false
	s.generation++
	if s.generation == 0 {
		// wrapped; skip the invalid generation
		s.generation = 1
	}
	a.free = append(a.free, k.index)
	a.count--
	return v, true
}

func (a *arena[T]) len() int {
	return a.count
}
