package reactive_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/signalgraph/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerived(t *testing.T) {
	t.Run("recomputes after a dependency changes", func(t *testing.T) {
		g := newGraph(t)
		count := reactive.CreateSignal(g, 5)
		doubled := reactive.CreateDerived(g, func(g *reactive.Graph) int {
			v, _ := reactive.Get(g, count)
			return v * 2
		})

		assert.Equal(t, 10, must(reactive.GetDerived(g, doubled))(t))
		require.NoError(t, reactive.Set(g, count, 7))
		assert.Equal(t, 14, must(reactive.GetDerived(g, doubled))(t))
	})

	t.Run("two signals", func(t *testing.T) {
		g := newGraph(t)
		a := reactive.CreateSignal(g, 7)
		b := reactive.CreateSignal(g, 1)
		computeCount := 0
		c := reactive.CreateDerived(g, func(g *reactive.Graph) int {
			computeCount++
			va, _ := reactive.Get(g, a)
			vb, _ := reactive.Get(g, b)
			return va * vb
		})

		require.NoError(t, reactive.Set(g, a, 2))
		assert.Equal(t, 2, must(reactive.GetDerived(g, c))(t))
		require.NoError(t, reactive.Set(g, b, 3))
		assert.Equal(t, 6, must(reactive.GetDerived(g, c))(t))
		assert.Equal(t, 2, computeCount)
		reactive.GetDerived(g, c)
		assert.Equal(t, 2, computeCount)
	})

	t.Run("lazy until read", func(t *testing.T) {
		g := newGraph(t)
		s := reactive.CreateSignal(g, 1)
		computeCount := 0
		d := reactive.CreateDerived(g, func(g *reactive.Graph) int {
			computeCount++
			v, _ := reactive.Get(g, s)
			return v
		})

		assert.Equal(t, 0, computeCount)
		require.NoError(t, reactive.Set(g, s, 2))
		assert.Equal(t, 0, computeCount)
		assert.Equal(t, 2, must(reactive.GetDerived(g, d))(t))
		assert.Equal(t, 1, computeCount)
	})

	t.Run("memoized between changes", func(t *testing.T) {
		g := newGraph(t)
		s := reactive.CreateSignal(g, 1)
		computeCount := 0
		d := reactive.CreateDerived(g, func(g *reactive.Graph) int {
			computeCount++
			v, _ := reactive.Get(g, s)
			return v + 1
		})

		reactive.GetDerived(g, d)
		reactive.GetDerived(g, d)
		reactive.GetDerivedUntracked(g, d)
		assert.Equal(t, 1, computeCount)

		require.NoError(t, reactive.Set(g, s, 2))
		require.NoError(t, reactive.Set(g, s, 3))
		assert.Equal(t, 4, must(reactive.GetDerived(g, d))(t))
		assert.Equal(t, 2, computeCount)
	})

	t.Run("duplicate reads record one edge", func(t *testing.T) {
		g := newGraph(t)
		s := reactive.CreateSignal(g, 3)
		d := reactive.CreateDerived(g, func(g *reactive.Graph) int {
			a, _ := reactive.Get(g, s)
			b, _ := reactive.Get(g, s)
			return a * b
		})

		assert.Equal(t, 9, must(reactive.GetDerived(g, d))(t))
		assert.Equal(t, []reactive.Source{reactive.SignalSource(s.ID())}, g.DerivedDependencies(d.ID()))
		assert.Equal(t, []reactive.SubscriberRef{reactive.DerivedSubscriber(d.ID())}, g.SignalSubscribers(s.ID()))
	})

	t.Run("cached version", func(t *testing.T) {
		g := newGraph(t)
		s := reactive.CreateSignal(g, 0)
		other := reactive.CreateSignal(g, 0)
		d := reactive.CreateDerived(g, func(g *reactive.Graph) int {
			v, _ := reactive.Get(g, s)
			return v
		})

		_, ok := g.DerivedCachedVersion(d.ID())
		assert.False(t, ok)

		require.NoError(t, reactive.Set(g, other, 1))
		reactive.GetDerived(g, d)
		v, ok := g.DerivedCachedVersion(d.ID())
		require.True(t, ok)
		assert.Equal(t, uint64(1), v)

		require.NoError(t, reactive.Set(g, s, 1))
		_, ok = g.DerivedCachedVersion(d.ID())
		assert.False(t, ok)

		reactive.GetDerived(g, d)
		v, _ = g.DerivedCachedVersion(d.ID())
		assert.Equal(t, uint64(2), v)
	})
}

//	a
//	|
//	b
//	|
//	c
func TestDerivedOnDerived(t *testing.T) {
	g := newGraph(t)
	a := reactive.CreateSignal(g, 1)
	bCount, cCount := 0, 0
	b := reactive.CreateDerived(g, func(g *reactive.Graph) int {
		bCount++
		v, _ := reactive.Get(g, a)
		return v * 2
	})
	c := reactive.CreateDerived(g, func(g *reactive.Graph) int {
		cCount++
		v, _ := reactive.GetDerived(g, b)
		return v + 1
	})

	assert.Equal(t, 3, must(reactive.GetDerived(g, c))(t))
	assert.Equal(t, []reactive.SubscriberRef{reactive.DerivedSubscriber(c.ID())}, g.DerivedSubscribers(b.ID()))
	assert.Equal(t, []reactive.Source{reactive.DerivedSource(b.ID())}, g.DerivedDependencies(c.ID()))

	depth, ok := g.Depth(reactive.DerivedSubscriber(b.ID()))
	require.True(t, ok)
	assert.Equal(t, uint32(1), depth)
	depth, _ = g.Depth(reactive.DerivedSubscriber(c.ID()))
	assert.Equal(t, uint32(2), depth)

	require.NoError(t, reactive.Set(g, a, 2))
	assert.Equal(t, 5, must(reactive.GetDerived(g, c))(t))
	assert.Equal(t, 2, bCount)
	assert.Equal(t, 2, cCount)
}

func TestDerivedDynamicDependencies(t *testing.T) {
	g := newGraph(t)
	a := reactive.CreateSignal(g, 1)
	b := reactive.CreateSignal(g, 2)
	cA := reactive.CreateDerived(g, func(g *reactive.Graph) int {
		v, _ := reactive.Get(g, a)
		return v
	})
	cB := reactive.CreateDerived(g, func(g *reactive.Graph) int {
		v, _ := reactive.Get(g, b)
		return v
	})
	computeCount := 0
	cAB := reactive.CreateDerived(g, func(g *reactive.Graph) int {
		computeCount++
		if v, _ := reactive.GetDerived(g, cA); v != 0 {
			return v
		}
		v, _ := reactive.GetDerived(g, cB)
		return v
	})

	assert.Equal(t, 1, must(reactive.GetDerived(g, cAB))(t))
	assert.Empty(t, g.DerivedSubscribers(cB.ID()))

	require.NoError(t, reactive.Set(g, a, 0))
	assert.Equal(t, 2, must(reactive.GetDerived(g, cAB))(t))
	assert.Equal(t, []reactive.SubscriberRef{reactive.DerivedSubscriber(cAB.ID())}, g.DerivedSubscribers(cB.ID()))

	require.NoError(t, reactive.Set(g, a, 5))
	assert.Equal(t, 5, must(reactive.GetDerived(g, cAB))(t))
	assert.Empty(t, g.DerivedSubscribers(cB.ID()), "unused branch is unsubscribed")

	// b is no longer a dependency
	require.NoError(t, reactive.Set(g, b, 10))
	reactive.GetDerived(g, cAB)
	assert.Equal(t, 3, computeCount)
}

func TestDerivedCycle(t *testing.T) {
	g := newGraph(t)

	var b reactive.Derived[int]
	a := reactive.CreateDerived(g, func(g *reactive.Graph) int {
		v, err := reactive.GetDerived(g, b)
		if errors.Is(err, reactive.ErrCycle) {
			return -1
		}
		return v + 1
	})
	b = reactive.CreateDerived(g, func(g *reactive.Graph) int {
		v, err := reactive.GetDerived(g, a)
		if errors.Is(err, reactive.ErrCycle) {
			return 100
		}
		return v * 2
	})

	assert.Equal(t, 101, must(reactive.GetDerived(g, a))(t))
	assert.Equal(t, 100, must(reactive.GetDerived(g, b))(t))

	// the rejected read leaves no edge behind
	assert.Empty(t, g.DerivedDependencies(b.ID()))
	assert.Empty(t, g.DerivedSubscribers(a.ID()))
	assert.Equal(t, []reactive.Source{reactive.DerivedSource(b.ID())}, g.DerivedDependencies(a.ID()))
}

func TestDerivedSelfRead(t *testing.T) {
	g := newGraph(t)

	var self reactive.Derived[int]
	var readErr error
	self = reactive.CreateDerived(g, func(g *reactive.Graph) int {
		_, readErr = reactive.GetDerived(g, self)
		return 7
	})

	assert.Equal(t, 7, must(reactive.GetDerived(g, self))(t))
	assert.ErrorIs(t, readErr, reactive.ErrCycle)
	assert.Empty(t, g.DerivedDependencies(self.ID()))
}

func TestDerivedPanicKeepsGraphValid(t *testing.T) {
	g := newGraph(t)
	s := reactive.CreateSignal(g, 1)
	d := reactive.CreateDerived(g, func(g *reactive.Graph) int {
		v, _ := reactive.Get(g, s)
		if v == 13 {
			panic("unlucky")
		}
		return v * 10
	})
	assert.Equal(t, 10, must(reactive.GetDerived(g, d))(t))

	require.NoError(t, reactive.Set(g, s, 13))
	assert.PanicsWithValue(t, "unlucky", func() {
		reactive.GetDerived(g, d)
	})

	// previous subscriptions survive and the node stays dirty
	assert.Equal(t, []reactive.SubscriberRef{reactive.DerivedSubscriber(d.ID())}, g.SignalSubscribers(s.ID()))
	_, ok := g.DerivedCachedVersion(d.ID())
	assert.False(t, ok)

	// tracking was unwound: a plain read records nothing
	other := reactive.CreateSignal(g, 0)
	reactive.Get(g, other)
	assert.Empty(t, g.SignalSubscribers(other.ID()))

	require.NoError(t, reactive.Set(g, s, 2))
	assert.Equal(t, 20, must(reactive.GetDerived(g, d))(t))
}

func TestDerivedTypeMismatch(t *testing.T) {
	g := newGraph(t)
	computed := false
	d := reactive.CreateDerived(g, func(g *reactive.Graph) int {
		computed = true
		return 1
	})

	_, err := reactive.GetDerived(g, reactive.DerivedFromID[float64](d.ID()))
	assert.ErrorIs(t, err, reactive.ErrTypeMismatch)
	assert.False(t, computed)
}

func TestDisposeDerived(t *testing.T) {
	g := newGraph(t)
	s := reactive.CreateSignal(g, 1)
	d := reactive.CreateDerived(g, func(g *reactive.Graph) int {
		v, _ := reactive.Get(g, s)
		return v
	})

	var errs []error
	e := g.CreateEffect(func(g *reactive.Graph) error {
		_, err := reactive.GetDerived(g, d)
		errs = append(errs, err)
		return nil
	})
	require.Equal(t, []reactive.Source{reactive.DerivedSource(d.ID())}, g.EffectDependencies(e.ID()))

	g.DisposeDerived(d.ID())
	g.DisposeDerived(d.ID())

	assert.Empty(t, g.SignalSubscribers(s.ID()))
	assert.Empty(t, g.EffectDependencies(e.ID()))
	assert.Nil(t, g.DerivedSubscribers(d.ID()))
	assert.Equal(t, 0, g.Stats().DerivedCount)

	_, err := reactive.GetDerived(g, d)
	assert.ErrorIs(t, err, reactive.ErrNotFound)

	require.NoError(t, reactive.Set(g, s, 2))
	assert.Len(t, errs, 1, "effect no longer depends on anything")
}

func TestGetDerivedUntrackedInsideEffect(t *testing.T) {
	g := newGraph(t)
	s := reactive.CreateSignal(g, 1)
	d := reactive.CreateDerived(g, func(g *reactive.Graph) int {
		v, _ := reactive.Get(g, s)
		return v
	})

	runs := 0
	e := g.CreateEffect(func(g *reactive.Graph) error {
		runs++
		reactive.GetDerivedUntracked(g, d)
		return nil
	})

	assert.Empty(t, g.EffectDependencies(e.ID()))
	assert.Empty(t, g.DerivedSubscribers(d.ID()))
	require.NoError(t, reactive.Set(g, s, 2))
	assert.Equal(t, 1, runs)
}
