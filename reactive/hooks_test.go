package reactive_test

import (
	"errors"
	"testing"
	"time"

	"github.com/delaneyj/signalgraph/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHooks struct {
	reactive.NopHooks
	sets     []uint64
	computed []reactive.DerivedID
	ran      []error
	flushes  [][2]int
}

func (h *recordingHooks) SignalSet(id reactive.SignalID, version uint64) {
	h.sets = append(h.sets, version)
}

func (h *recordingHooks) DerivedComputed(id reactive.DerivedID, start time.Time, took time.Duration) {
	h.computed = append(h.computed, id)
}

func (h *recordingHooks) EffectRan(id reactive.EffectID, start time.Time, took time.Duration, err error) {
	h.ran = append(h.ran, err)
}

func (h *recordingHooks) Flushed(passes, ran int, start time.Time, took time.Duration) {
	h.flushes = append(h.flushes, [2]int{passes, ran})
}

type flushCounter struct {
	reactive.NopHooks
	n int
}

func (c *flushCounter) Flushed(int, int, time.Time, time.Duration) { c.n++ }

func TestHooks(t *testing.T) {
	rec := &recordingHooks{}
	counter := &flushCounter{}
	boom := errors.New("boom")
	g := reactive.New(
		reactive.WithHooks(rec),
		reactive.WithHooks(counter, nil),
		reactive.WithErrorHandler(func(reactive.EffectID, error) {}),
	)

	s := reactive.CreateSignal(g, 0)
	d := reactive.CreateDerived(g, func(g *reactive.Graph) int {
		v, _ := reactive.Get(g, s)
		return v * 2
	})
	g.CreateEffect(func(g *reactive.Graph) error {
		if v, _ := reactive.GetDerived(g, d); v > 0 {
			return boom
		}
		return nil
	})
	require.NoError(t, reactive.Set(g, s, 1))
	require.NoError(t, reactive.Set(g, s, 2))

	assert.Equal(t, []uint64{1, 2}, rec.sets)
	assert.Equal(t, []reactive.DerivedID{d.ID(), d.ID(), d.ID()}, rec.computed)
	require.Len(t, rec.ran, 3)
	assert.NoError(t, rec.ran[0])
	assert.ErrorIs(t, rec.ran[1], boom)
	assert.Equal(t, [][2]int{{1, 1}, {1, 1}, {1, 1}}, rec.flushes)
	assert.Equal(t, 3, counter.n, "hooks from separate options accumulate")
}
