package state

import (
	"errors"
	"log/slog"
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/signalgraph/reactive"
)

// Key identifies a keyed signal by the hash of its name and its value
// type, so the same name may back signals of different types.
type Key struct {
	Hash uint64
	Type reflect.Type
}

func KeyFor[T any](name string) Key {
	return Key{
		Hash: xxhash.Sum64String(name),
		Type: reflect.TypeFor[T](),
	}
}

// Context owns the keyed signal store for one shared graph. Keyed signals
// survive rebuilds: asking for the same key and type again returns the
// signal created the first time.
type Context struct {
	shared   *Shared
	dirty    *DirtyFlag
	onChange StatefulCallback
	logger   *slog.Logger

	mu    sync.Mutex
	hooks map[Key]uint64
}

type ContextOption func(*Context)

func WithDirtyFlag(f *DirtyFlag) ContextOption {
	return func(c *Context) {
		if f != nil {
			c.dirty = f
		}
	}
}

func WithStatefulCallback(fn StatefulCallback) ContextOption {
	return func(c *Context) {
		c.onChange = fn
	}
}

func WithContextLogger(logger *slog.Logger) ContextOption {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewContext(shared *Shared, opts ...ContextOption) *Context {
	c := &Context{
		shared: shared,
		dirty:  &DirtyFlag{},
		logger: slog.New(slog.DiscardHandler),
		hooks:  map[Key]uint64{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Context) Shared() *Shared {
	return c.shared
}

func (c *Context) DirtyFlag() *DirtyFlag {
	return c.dirty
}

// RequestRebuild raises the dirty flag.
func (c *Context) RequestRebuild() {
	c.dirty.Request()
}

// NotifyStatefulDeps forwards ids to the stateful callback, if any.
func (c *Context) NotifyStatefulDeps(ids ...reactive.SignalID) {
	if c.onChange != nil && len(ids) > 0 {
		c.onChange(ids)
	}
}

// UseSignalKeyed returns the signal stored under name, creating it from
// init the first time. A stored signal that has since been disposed is
// replaced.
//
// The store lock is only taken under Shared and never held across init, so
// init may itself ask for keyed signals.
func UseSignalKeyed[T any](c *Context, name string, init func() T) reactive.Signal[T] {
	k := KeyFor[T](name)

	return DoValue(c.shared, func(g *reactive.Graph) reactive.Signal[T] {
		c.mu.Lock()
		raw, ok := c.hooks[k]
		c.mu.Unlock()

		if ok {
			s := reactive.SignalFromID[T](reactive.SignalIDFromRaw(raw))
			_, err := reactive.GetUntracked(g, s)
			if err == nil {
				return s
			}
			if !errors.Is(err, reactive.ErrNotFound) {
				// KeyFor includes T, so only ErrNotFound is expected
				panic(err)
			}
			c.logger.Debug("recreating disposed keyed signal", "key", name)
		}

		s := reactive.CreateSignal(g, init())
		c.mu.Lock()
		c.hooks[k] = s.ID().Raw()
		c.mu.Unlock()
		return s
	})
}

// UseStateKeyed is UseSignalKeyed wrapped in a State bound to this
// context's dirty flag and stateful callback.
func UseStateKeyed[T any](c *Context, name string, init func() T) State[T] {
	s := UseSignalKeyed(c, name, init)
	return NewState(s, c.shared, c.dirty, c.onChange)
}

// UseSignal creates an unkeyed signal. Each call makes a new one.
func UseSignal[T any](c *Context, initial T) reactive.Signal[T] {
	return DoValue(c.shared, func(g *reactive.Graph) reactive.Signal[T] {
		return reactive.CreateSignal(g, initial)
	})
}

func GetSignal[T any](c *Context, s reactive.Signal[T]) (T, error) {
	var v T
	err := DoValue(c.shared, func(g *reactive.Graph) (err error) {
		v, err = reactive.Get(g, s)
		return err
	})
	return v, err
}

func SetSignal[T any](c *Context, s reactive.Signal[T], v T) error {
	return DoValue(c.shared, func(g *reactive.Graph) error {
		return reactive.Set(g, s, v)
	})
}

func UpdateSignal[T any](c *Context, s reactive.Signal[T], f func(T) T) error {
	return DoValue(c.shared, func(g *reactive.Graph) error {
		return reactive.Update(g, s, f)
	})
}

// WatchRebuild registers an effect over whatever read touches and raises
// the dirty flag each time one of those dependencies changes. The initial
// run only records dependencies.
func (c *Context) WatchRebuild(read func(g *reactive.Graph)) reactive.Effect {
	first := true
	return DoValue(c.shared, func(g *reactive.Graph) reactive.Effect {
		return g.CreateEffect(func(g *reactive.Graph) error {
			read(g)
			if first {
				first = false
				return nil
			}
			c.dirty.Request()
			return nil
		})
	})
}

// Len reports how many keyed signals are stored.
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.hooks)
}
