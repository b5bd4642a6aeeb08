package builder

import (
	"fmt"
	"slices"

	"github.com/syssam/forge"
	"github.com/syssam/forge/graph"
	"github.com/syssam/forge/modifier"
	"github.com/syssam/forge/schema/field"
)

// Builder builds instances of T with their related instances.
// A Builder is immutable: With returns a new one.
type Builder[T any] struct {
	opts  options
	err   error
	items []any
}

// New returns a builder of T.
func New[T any](opts ...Option) *Builder[T] {
	b := &Builder[T]{opts: defaults()}
	for _, opt := range opts {
		if err := opt(&b.opts); err != nil {
			b.err = err
			break
		}
	}
	return b
}

// With returns a copy of the builder with more modifiers. Items are
// flattened with modifier.Flatten when the build starts.
func (b *Builder[T]) With(items ...any) *Builder[T] {
	c := *b
	c.items = append(slices.Clip(b.items), items...)
	return &c
}

// Build builds an instance of T.
func (b *Builder[T]) Build() (*T, error) {
	v, _, err := b.BuildWithGraph()
	return v, err
}

// BuildWithGraph builds an instance of T and returns it with the
// instance graph of the build. The graph may be given to
// modifier.HavingIn to add its root to a collection of another build.
func (b *Builder[T]) BuildWithGraph() (*T, *graph.Objects, error) {
	if b.err != nil {
		return nil, nil, b.err
	}
	mods, err := modifier.Flatten(b.items...)
	if err != nil {
		return nil, nil, err
	}
	t, err := graph.TypeFor[T](b.opts.registry)
	if err != nil {
		return nil, nil, fmt.Errorf("forge: building %T: %w", *new(T), err)
	}
	e := newEngine(&b.opts)
	objs, err := e.build(t, append(slices.Clip(b.opts.profile), mods...))
	if err != nil {
		return nil, nil, fmt.Errorf("forge: building %s: %w", t.Name, err)
	}
	return objs.Root().Value.(*T), objs, nil
}

// MustBuild is like Build but panics if the build fails.
func (b *Builder[T]) MustBuild() *T {
	v, err := b.Build()
	if err != nil {
		panic(err)
	}
	return v
}

// Build builds an instance of T with the default options.
func Build[T any](mods ...any) (*T, error) {
	return New[T]().With(mods...).Build()
}

// Reset forgets the state shared between builds: the global reuse
// cache, the local caches of the default registry, and the values
// emitted by Key providers.
func Reset() {
	forge.GlobalCache.Clear()
	graph.Default.ClearCaches()
	field.ResetKeys()
}
