package modifier

import (
	"fmt"
	"reflect"

	"github.com/syssam/forge"
	"github.com/syssam/forge/graph"
	"github.com/syssam/forge/schema/edge"
	"github.com/syssam/forge/schema/field"
)

// given supplies a pre-built instance for a single edge or an uplink.
type given struct {
	base
	id    edge.Ident
	value any
}

func (m given) ShouldRun(c *graph.Context) bool { return c.Shaping() }

func (m given) Apply(c *graph.Context) error {
	e, s, err := target("Given", c, m.id)
	if err != nil || s == nil {
		return err
	}
	if e.IsMany() {
		return forge.NewModifierError("Given", e.String(), "collections take instances with HavingIn", nil)
	}
	if !e.Target.Is(m.value) {
		return forge.NewTypeMismatchError(e.String(), "*"+e.Target.Name, typeName(m.value))
	}
	s.Supply(m.value)
	return nil
}

// givenField sets a field on every instance of its owner.
type givenField struct {
	base
	id    field.Ident
	value any
}

func (m givenField) ShouldRun(c *graph.Context) bool {
	return c.Object != nil && !c.Object.External && c.Object.Type.Go == m.id.Owner
}

func (m givenField) Apply(c *graph.Context) error {
	ok, err := c.Object.Type.SetAttr(c.Object.Value, m.id.Name, m.value)
	switch {
	case err != nil:
		return forge.NewModifierError("Given", m.id.String(), "", err)
	case !ok:
		return forge.NewMissingAttributeError(c.Object.Type.Name, m.id.Name)
	}
	c.Object.MarkSet(m.id.Name)
	return nil
}

// Given forces a value. With an edge.Ident, value is an instance linked
// in place of the one the edge would build; collections take instances
// with HavingIn instead. With a field.Ident, value is set on every
// instance of the field's owner and its provider is not run.
func Given(ref, value any) graph.Modifier {
	switch id := ref.(type) {
	case edge.Ident:
		return given{base: newBase(), id: id, value: value}
	case field.Ident:
		return givenField{base: newBase(), id: id, value: value}
	default:
		return fail(forge.NewModifierError("Given", fmt.Sprint(ref), fmt.Sprintf("unexpected reference of type %T", ref), nil))
	}
}

type numberOf struct {
	base
	id edge.Ident
	n  int
}

// NumberOf sets the size of a collection to exactly n. It fails if n is
// smaller than the number of elements already requested for it by
// HavingIn or an earlier NumberOf. The declared count is not a floor:
// NumberOf(id, 0) empties a collection that defaults to one element.
func NumberOf(id edge.Ident, n int) graph.Modifier {
	return numberOf{base: newBase(), id: id, n: n}
}

func (m numberOf) ShouldRun(c *graph.Context) bool { return c.Shaping() }

func (m numberOf) Apply(c *graph.Context) error {
	e, s, err := target("NumberOf", c, m.id)
	if err != nil || s == nil {
		return err
	}
	switch {
	case !e.IsMany():
		return forge.NewModifierError("NumberOf", e.String(), "edge is not a collection", nil)
	case m.n < s.Pinned():
		return forge.NewShrinkError(e.String(), m.n, s.Pinned())
	}
	s.Resize(m.n)
	return nil
}

type havingIn struct {
	base
	id    edge.Ident
	items []any
}

// HavingIn adds elements to a collection. An int item requests that many
// more fresh elements. An instance of the target type, or a
// *graph.Objects holding one as its root, is added as a pre-built member.
func HavingIn(id edge.Ident, items ...any) graph.Modifier {
	return havingIn{base: newBase(), id: id, items: items}
}

func (m havingIn) ShouldRun(c *graph.Context) bool { return c.Shaping() }

func (m havingIn) Apply(c *graph.Context) error {
	e, s, err := target("HavingIn", c, m.id)
	if err != nil || s == nil {
		return err
	}
	if !e.IsMany() {
		return forge.NewModifierError("HavingIn", e.String(), "edge is not a collection", nil)
	}
	for _, item := range m.items {
		if g, ok := item.(*graph.Objects); ok {
			root := g.Root()
			if root == nil {
				return forge.NewModifierError("HavingIn", e.String(), "empty instance graph", nil)
			}
			item = root.Value
		}
		switch {
		case isCount(item):
			n := reflect.ValueOf(item).Int()
			if n < 0 {
				return forge.NewModifierError("HavingIn", e.String(), fmt.Sprintf("negative count %d", n), nil)
			}
			s.Grow(int(n))
		case e.Target.Is(item):
			s.Inject(item)
		default:
			return forge.NewTypeMismatchError(e.String(), "count or *"+e.Target.Name, typeName(item))
		}
	}
	return nil
}

func isCount(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

type oneOf struct {
	base
	id   edge.Ident
	mods []graph.Modifier
}

// OneOf applies mods to a single fresh element of a collection and to
// the instances built beneath it. Each OneOf claims the next unclaimed
// element, in the order given. A OneOf left without an element does
// nothing.
func OneOf(id edge.Ident, mods ...any) graph.Modifier {
	flat, err := Flatten(mods...)
	if err != nil {
		return fail(err)
	}
	return oneOf{base: newBase(), id: id, mods: flat}
}

func (m oneOf) ShouldRun(c *graph.Context) bool { return c.Shaping() }

func (m oneOf) Apply(c *graph.Context) error {
	e, s, err := target("OneOf", c, m.id)
	if err != nil || s == nil {
		return err
	}
	if !e.IsMany() {
		return forge.NewModifierError("OneOf", e.String(), "edge is not a collection", nil)
	}
	s.Enqueue(m.mods)
	return nil
}

// Another adds one more element to a collection and applies mods to it.
func Another(id edge.Ident, mods ...any) []graph.Modifier {
	return []graph.Modifier{HavingIn(id, 1), OneOf(id, mods...)}
}

type toggle struct {
	base
	id edge.Ident
	on bool
}

// Enabled builds an optional edge for one build.
func Enabled(id edge.Ident) graph.Modifier {
	return toggle{base: newBase(), id: id, on: true}
}

// Disabled leaves an optional edge out of one build.
func Disabled(id edge.Ident) graph.Modifier {
	return toggle{base: newBase(), id: id}
}

func (m toggle) ShouldRun(c *graph.Context) bool { return c.Shaping() }

func (m toggle) Apply(c *graph.Context) error {
	name := "Disabled"
	if m.on {
		name = "Enabled"
	}
	e, s, err := target(name, c, m.id)
	if err != nil || s == nil {
		return err
	}
	if !e.Optional() {
		return forge.NewModifierError(name, e.String(), "edge is not optional", nil)
	}
	s.Enabled = m.on
	return nil
}

type lambda struct {
	base
	id    field.Ident
	fn    any
	owner reflect.Type
	want  reflect.Type
}

// Lambda replaces, for one build, the function of a field filled by a
// field.Lambda provider.
func Lambda[O, V any](id field.Ident, fn func(*O) V) graph.Modifier {
	return lambda{base: newBase(), id: id, fn: fn, owner: reflect.TypeFor[O](), want: reflect.TypeFor[V]()}
}

func (m lambda) ShouldRun(c *graph.Context) bool { return c.Shaping() }

func (m lambda) Apply(c *graph.Context) error {
	f, err := c.Registry.Field(m.id)
	if err != nil {
		return forge.NewModifierError("Lambda", m.id.String(), "", err)
	}
	switch {
	case !f.Lambda:
		return forge.NewTypeMismatchError(m.id.String(), "lambda provider", typeName(f.Provider))
	case f.Owner != m.owner || f.Type != m.want:
		return forge.NewTypeMismatchError(m.id.String(), "func returning "+f.Type.String(), typeName(m.fn))
	}
	c.Plan.SetLambda(m.id, m.fn)
	return nil
}
