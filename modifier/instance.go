package modifier

import (
	"maps"
	"reflect"
	"slices"

	"github.com/syssam/forge"
	"github.com/syssam/forge/graph"
)

// Attrs maps attribute names to values. Names are declared field names
// or exported struct field names, e.g. "hp" or "HP".
type Attrs map[string]any

// Selection selects the instances an instance modifier acts on.
type Selection[T any] struct {
	label string
	pick  func(*graph.Object) (*T, bool)
}

// Instances selects every instance of T built by the engine.
func Instances[T any]() Selection[T] {
	return Selection[T]{
		label: reflect.TypeFor[T]().Name(),
		pick: func(o *graph.Object) (*T, bool) {
			v, ok := o.Value.(*T)
			return v, ok
		},
	}
}

// InstancesOf selects every instance of the type registered under name.
func InstancesOf(name string) Selection[graph.Object] {
	return Selection[graph.Object]{
		label: name,
		pick: func(o *graph.Object) (*graph.Object, bool) {
			return o, o.Type.Name == name
		},
	}
}

// Does returns a modifier calling fn with every selected instance.
func (s Selection[T]) Does(fn func(*T)) graph.Modifier {
	return &action[T]{base: newBase(), sel: s, fn: func(v *T, _ *graph.Object) error {
		fn(v)
		return nil
	}}
}

// Sets returns a modifier setting attrs on every selected instance.
// Names the instance has no attribute for are ignored.
func (s Selection[T]) Sets(attrs Attrs) graph.Modifier {
	return s.setter(attrs, false)
}

// CarefullySets is like Sets, but fails with a MissingAttributeError
// naming the first attribute the instance does not have.
func (s Selection[T]) CarefullySets(attrs Attrs) graph.Modifier {
	return s.setter(attrs, true)
}

func (s Selection[T]) setter(attrs Attrs, careful bool) graph.Modifier {
	names := slices.Sorted(maps.Keys(attrs))
	return &action[T]{base: newBase(), sel: s, fn: func(_ *T, o *graph.Object) error {
		for _, name := range names {
			ok, err := o.Type.SetAttr(o.Value, name, attrs[name])
			switch {
			case err != nil:
				return forge.NewModifierError("Sets", s.label+"."+name, "", err)
			case !ok && careful:
				return forge.NewMissingAttributeError(o.Type.Name, name)
			case ok:
				o.MarkSet(name)
			}
		}
		return nil
	}}
}

// Values is shorthand for Instances[T]().CarefullySets(attrs).
func Values[T any](attrs Attrs) graph.Modifier {
	return Instances[T]().CarefullySets(attrs)
}

type action[T any] struct {
	base
	sel Selection[T]
	fn  func(*T, *graph.Object) error
}

func (m *action[T]) ShouldRun(c *graph.Context) bool {
	if c.Object == nil || c.Object.External {
		return false
	}
	_, ok := m.sel.pick(c.Object)
	return ok
}

func (m *action[T]) Apply(c *graph.Context) error {
	v, ok := m.sel.pick(c.Object)
	if !ok {
		return nil
	}
	return m.fn(v, c.Object)
}

type inspect struct {
	base
	fn func(*graph.Objects) error
}

// Inspect calls fn with the linked instance graph, before instance
// modifiers run and before providers fill fields.
func Inspect(fn func(*graph.Objects) error) graph.Modifier {
	return inspect{base: newBase(), fn: fn}
}

func (m inspect) ShouldRun(c *graph.Context) bool { return c.Linked() }

func (m inspect) Apply(c *graph.Context) error { return m.fn(c.Objects) }
