package modifier

import (
	"fmt"
	"sync/atomic"

	"github.com/syssam/forge"
	"github.com/syssam/forge/graph"
	"github.com/syssam/forge/schema/edge"
)

var ids atomic.Uint64

// base gives every modifier a distinct identity.
type base struct {
	id uint64
}

func newBase() base {
	return base{id: ids.Add(1)}
}

// ID returns the identity of the modifier.
func (b base) ID() uint64 {
	return b.id
}

type prioritized struct {
	graph.Modifier
	priority int
}

// WithPriority returns m running at priority p. Modifiers default to
// priority 0 and lower priorities run first.
func WithPriority(m graph.Modifier, p int) graph.Modifier {
	if pm, ok := m.(prioritized); ok {
		m = pm.Modifier
	}
	return prioritized{Modifier: m, priority: p}
}

func (m prioritized) Priority() int {
	return m.priority
}

// Flatten returns the modifiers of items in order. An item is a
// graph.Modifier, a slice of modifiers or items, or a function
// returning one of those.
func Flatten(items ...any) ([]graph.Modifier, error) {
	var mods []graph.Modifier
	for _, item := range items {
		switch v := item.(type) {
		case nil:
		case graph.Modifier:
			mods = append(mods, v)
		case []graph.Modifier:
			mods = append(mods, v...)
		case []any:
			sub, err := Flatten(v...)
			if err != nil {
				return nil, err
			}
			mods = append(mods, sub...)
		case func() graph.Modifier:
			mods = append(mods, v())
		case func() []graph.Modifier:
			mods = append(mods, v()...)
		case func() []any:
			sub, err := Flatten(v()...)
			if err != nil {
				return nil, err
			}
			mods = append(mods, sub...)
		default:
			return nil, forge.NewModifierError("Flatten", "", fmt.Sprintf("unexpected item of type %T", item), nil)
		}
	}
	return mods, nil
}

// invalid fails the build as soon as it starts.
type invalid struct {
	base
	err error
}

func fail(err error) graph.Modifier {
	return invalid{base: newBase(), err: err}
}

func (m invalid) ShouldRun(c *graph.Context) bool { return c.Shaping() }

func (m invalid) Apply(*graph.Context) error { return m.err }

// target resolves the edge id in the plan of c. It returns a nil state
// when the edge is outside the plan.
func target(name string, c *graph.Context, id edge.Ident) (*graph.Edge, *graph.EdgeState, error) {
	e, err := c.Registry.Edge(id)
	if err != nil {
		return nil, nil, forge.NewModifierError(name, id.String(), "", err)
	}
	return e, c.Plan.State(e), nil
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
