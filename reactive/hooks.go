package reactive

import "time"

// Hooks observe the graph. They run synchronously on the owning goroutine
// and must not call back into the graph.
type Hooks interface {
	SignalSet(id SignalID, version uint64)
	DerivedComputed(id DerivedID, start time.Time, took time.Duration)
	EffectRan(id EffectID, start time.Time, took time.Duration, err error)
	Flushed(passes, ran int, start time.Time, took time.Duration)
}

// NopHooks can be embedded to implement only part of Hooks.
type NopHooks struct{}

func (NopHooks) SignalSet(SignalID, uint64)                          {}
func (NopHooks) DerivedComputed(DerivedID, time.Time, time.Duration) {}
func (NopHooks) EffectRan(EffectID, time.Time, time.Duration, error) {}
func (NopHooks) Flushed(int, int, time.Time, time.Duration)          {}

type multiHooks []Hooks

func (m multiHooks) SignalSet(id SignalID, version uint64) {
	for _, h := range m {
		h.SignalSet(id, version)
	}
}

func (m multiHooks) DerivedComputed(id DerivedID, start time.Time, took time.Duration) {
	for _, h := range m {
		h.DerivedComputed(id, start, took)
	}
}

func (m multiHooks) EffectRan(id EffectID, start time.Time, took time.Duration, err error) {
	for _, h := range m {
		h.EffectRan(id, start, took, err)
	}
}

func (m multiHooks) Flushed(passes, ran int, start time.Time, took time.Duration) {
	for _, h := range m {
		h.Flushed(passes, ran, start, took)
	}
}
