package reactive

import "fmt"

// key is a generational arena key. Generations start at 1 so the zero
// value never resolves to a live slot.
type key struct {
	index      uint32
	generation uint32
}

func (k key) raw() uint64 {
	return uint64(k.generation)<<32 | uint64(k.index)
}

func keyFromRaw(raw uint64) key {
	return key{index: uint32(raw), generation: uint32(raw >> 32)}
}

func (k key) String() string {
	return fmt.Sprintf("%dv%d", k.index, k.generation)
}

// SignalID identifies a signal slot.
type SignalID struct{ key }

// DerivedID identifies a derived slot.
type DerivedID struct{ key }

// EffectID identifies an effect slot.
type EffectID struct{ key }

// Raw packs the id into a u64 suitable for storage outside the graph.
func (id SignalID) Raw() uint64  { return id.raw() }
func (id DerivedID) Raw() uint64 { return id.raw() }
func (id EffectID) Raw() uint64  { return id.raw() }

func SignalIDFromRaw(raw uint64) SignalID   { return SignalID{keyFromRaw(raw)} }
func DerivedIDFromRaw(raw uint64) DerivedID { return DerivedID{keyFromRaw(raw)} }
func EffectIDFromRaw(raw uint64) EffectID   { return EffectID{keyFromRaw(raw)} }

// Signal is a copyable, non-owning handle to a signal of type T.
type Signal[T any] struct {
	id SignalID
}

func (s Signal[T]) ID() SignalID { return s.id }

// SignalFromID rebuilds a typed handle from a raw id. The type is checked
// when the handle is used, not here.
func SignalFromID[T any](id SignalID) Signal[T] {
	return Signal[T]{id: id}
}

// Derived is a copyable, non-owning handle to a memoized value of type T.
type Derived[T any] struct {
	id DerivedID
}

func (d Derived[T]) ID() DerivedID { return d.id }

func DerivedFromID[T any](id DerivedID) Derived[T] {
	return Derived[T]{id: id}
}

// Effect is a handle to a scheduled side effect.
type Effect struct {
	id EffectID
}

func (e Effect) ID() EffectID { return e.id }

type SubscriberKind uint8

const (
	SubscriberDerived SubscriberKind = iota + 1
	SubscriberEffect
)

// SubscriberRef is what signals and derived nodes keep in their subscriber
// lists. Subscriber lists are the strong edges of the graph.
type SubscriberRef struct {
	Kind SubscriberKind
	key
}

func DerivedSubscriber(id DerivedID) SubscriberRef {
	return SubscriberRef{Kind: SubscriberDerived, key: id.key}
}

func EffectSubscriber(id EffectID) SubscriberRef {
	return SubscriberRef{Kind: SubscriberEffect, key: id.key}
}

func (r SubscriberRef) String() string {
	switch r.Kind {
	case SubscriberDerived:
		return "derived:" + r.key.String()
	case SubscriberEffect:
		return "effect:" + r.key.String()
	default:
		return "subscriber:?"
	}
}

type SourceKind uint8

const (
	SourceSignal SourceKind = iota + 1
	SourceDerived
)

// Source is a dependency recorded while tracking: either a signal or a
// derived value.
type Source struct {
	Kind SourceKind
	key
}

func SignalSource(id SignalID) Source {
	return Source{Kind: SourceSignal, key: id.key}
}

func DerivedSource(id DerivedID) Source {
	return Source{Kind: SourceDerived, key: id.key}
}

func (s Source) String() string {
	switch s.Kind {
	case SourceSignal:
		return "signal:" + s.key.String()
	case SourceDerived:
		return "derived:" + s.key.String()
	default:
		return "source:?"
	}
}
