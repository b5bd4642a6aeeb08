package graph

import (
	"cmp"
	"slices"
)

// Modifier reshapes a build. The engine offers it a Context at each
// phase and applies it where ShouldRun accepts the context.
type Modifier interface {
	ShouldRun(*Context) bool
	Apply(*Context) error
}

// Context is what a modifier sees of the build in progress.
type Context struct {
	Registry *Registry
	Plan     *Plan
	Objects  *Objects
	Object   *Object
}

// Shaping reports whether the context is the plan phase.
func (c *Context) Shaping() bool {
	return c.Plan != nil && c.Objects == nil
}

// Linked reports whether the context is the graph phase.
func (c *Context) Linked() bool {
	return c.Objects != nil && c.Object == nil
}

// Instance returns the instance being finalized, or nil outside the
// instance phase.
func (c *Context) Instance() any {
	if c.Object == nil {
		return nil
	}
	return c.Object.Value
}

// PriorityOf returns the priority of m. Modifiers without a Priority
// method have priority 0.
func PriorityOf(m Modifier) int {
	if p, ok := m.(interface{ Priority() int }); ok {
		return p.Priority()
	}
	return 0
}

// Sort returns the modifiers ordered by ascending priority. Modifiers of
// equal priority keep their order.
func Sort(mods []Modifier) []Modifier {
	sorted := slices.Clone(mods)
	slices.SortStableFunc(sorted, func(a, b Modifier) int {
		return cmp.Compare(PriorityOf(a), PriorityOf(b))
	})
	return sorted
}
