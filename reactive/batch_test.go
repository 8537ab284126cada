package reactive_test

import (
	"testing"

	"github.com/delaneyj/signalgraph/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	t.Run("coalesces effect runs", func(t *testing.T) {
		g := newGraph(t)
		s := reactive.CreateSignal(g, 0)
		var seen []int
		g.CreateEffect(func(g *reactive.Graph) error {
			v, _ := reactive.Get(g, s)
			seen = append(seen, v)
			return nil
		})

		g.Batch(func(g *reactive.Graph) {
			for i := 1; i <= 3; i++ {
				reactive.Set(g, s, i)
			}
			assert.Equal(t, []int{0}, seen, "nothing runs inside the batch")
			assert.Equal(t, 3, must(reactive.GetUntracked(g, s))(t))
		})
		assert.Equal(t, []int{0, 3}, seen)
	})

	t.Run("nested batches flush at the outermost end", func(t *testing.T) {
		g := newGraph(t)
		s := reactive.CreateSignal(g, 0)
		runs := 0
		g.CreateEffect(func(g *reactive.Graph) error {
			runs++
			reactive.Get(g, s)
			return nil
		})

		g.BatchStart()
		g.BatchStart()
		require.NoError(t, reactive.Set(g, s, 1))
		g.BatchEnd()
		assert.Equal(t, 1, runs)
		g.BatchEnd()
		assert.Equal(t, 2, runs)
	})

	t.Run("end without start is a no-op", func(t *testing.T) {
		g := newGraph(t)
		s := reactive.CreateSignal(g, 0)
		runs := 0
		g.CreateEffect(func(g *reactive.Graph) error {
			runs++
			reactive.Get(g, s)
			return nil
		})

		g.BatchEnd()
		g.BatchEnd()
		require.NoError(t, reactive.Set(g, s, 1))
		assert.Equal(t, 2, runs, "depth did not go negative")
	})

	t.Run("derived reads inside a batch are current", func(t *testing.T) {
		g := newGraph(t)
		s := reactive.CreateSignal(g, 1)
		d := reactive.CreateDerived(g, func(g *reactive.Graph) int {
			v, _ := reactive.Get(g, s)
			return v * 100
		})

		g.Batch(func(g *reactive.Graph) {
			reactive.Set(g, s, 2)
			assert.Equal(t, 200, must(reactive.GetDerived(g, d))(t))
		})
	})

	t.Run("value", func(t *testing.T) {
		g := newGraph(t)
		s := reactive.CreateSignal(g, 1)
		got := reactive.BatchValue(g, func(g *reactive.Graph) string {
			reactive.Set(g, s, 2)
			return "done"
		})
		assert.Equal(t, "done", got)
		assert.Equal(t, 2, must(reactive.Get(g, s))(t))
	})

	t.Run("panic restores depth without flushing", func(t *testing.T) {
		g := newGraph(t)
		s := reactive.CreateSignal(g, 0)
		var seen []int
		g.CreateEffect(func(g *reactive.Graph) error {
			v, _ := reactive.Get(g, s)
			seen = append(seen, v)
			return nil
		})

		assert.Panics(t, func() {
			g.Batch(func(g *reactive.Graph) {
				reactive.Set(g, s, 1)
				panic("abort")
			})
		})
		assert.Equal(t, []int{0}, seen)
		assert.Equal(t, 1, g.Stats().PendingEffects)

		require.NoError(t, reactive.Set(g, s, 2))
		assert.Equal(t, []int{0, 2}, seen)
	})
}

// An effect that batches its own reads still sees writes made by a derived
// it pulls in, one pass later.
func TestShouldCustomEffectSupportBatch(t *testing.T) {
	g := newGraph(t)

	batchEffect := func(fn func(g *reactive.Graph) error) reactive.Effect {
		return g.CreateEffect(func(g *reactive.Graph) error {
			g.BatchStart()
			defer g.BatchEnd()
			return fn(g)
		})
	}

	var logs []string
	a := reactive.CreateSignal(g, 0)
	b := reactive.CreateSignal(g, 0)

	aa := reactive.CreateDerived(g, func(g *reactive.Graph) int {
		logs = append(logs, "aa-0")
		if v, _ := reactive.Get(g, a); v == 0 {
			reactive.Set(g, b, 1)
		}
		logs = append(logs, "aa-1")
		return 0
	})
	bb := reactive.CreateDerived(g, func(g *reactive.Graph) int {
		logs = append(logs, "bb")
		v, _ := reactive.Get(g, b)
		return v
	})

	batchEffect(func(g *reactive.Graph) error {
		_, err := reactive.GetDerived(g, bb)
		return err
	})
	batchEffect(func(g *reactive.Graph) error {
		_, err := reactive.GetDerived(g, aa)
		return err
	})

	assert.Equal(t, []string{"bb", "aa-0", "aa-1", "bb"}, logs)
}
