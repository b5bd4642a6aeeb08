package graph

import (
	"maps"
	"slices"

	"github.com/syssam/forge"
	"github.com/syssam/forge/schema/field"
)

// EdgeState is the per-build shape of one edge.
type EdgeState struct {
	// Size is the number of elements of a collection, injected ones included.
	Size int
	// Enabled reports whether an optional edge is built. Required edges
	// are always enabled.
	Enabled bool
	// Supplied holds caller-built instances: the single instance of a
	// One edge or an uplink, or the injected members of a collection.
	Supplied []any
	// Queue holds the sub-modifier sets routed to distinct fresh
	// elements of a collection, in order.
	Queue [][]Modifier

	pinned int
}

// Pinned returns the number of elements requested explicitly, which
// the collection can no longer drop below.
func (s *EdgeState) Pinned() int {
	return s.pinned
}

// Grow requests n more fresh elements.
func (s *EdgeState) Grow(n int) {
	s.Size += n
	s.pinned += n
}

// Resize sets the collection size to exactly n and pins it. Callers
// check n against Pinned first.
func (s *EdgeState) Resize(n int) {
	s.Size = n
	s.pinned = n
}

// Inject adds a caller-built member to the collection.
func (s *EdgeState) Inject(v any) {
	s.Supplied = append(s.Supplied, v)
	s.Size++
	s.pinned++
}

// Supply sets the caller-built instance of a single edge.
func (s *EdgeState) Supply(v any) {
	s.Supplied = []any{v}
}

// Enqueue routes mods to the next fresh element without one.
func (s *EdgeState) Enqueue(mods []Modifier) {
	s.Queue = append(s.Queue, mods)
}

// Fresh returns the number of elements the engine builds itself.
func (s *EdgeState) Fresh() int {
	return max(0, s.Size-len(s.Supplied))
}

func (s *EdgeState) clone() *EdgeState {
	c := *s
	c.Supplied = slices.Clone(s.Supplied)
	c.Queue = slices.Clone(s.Queue)
	return &c
}

// Plan is the per-build copy of the model graph, pruned to the types
// connected to the root.
type Plan struct {
	root    *Type
	types   []*Type
	nodes   map[*Type]struct{}
	states  map[*Edge]*EdgeState
	lambdas map[field.Ident]any
}

// Subgraph returns the plan of a build rooted at root. Types are kept if
// they are connected to root in either direction. An uplink that was
// never paired with a forward edge fails the build here.
func (r *Registry) Subgraph(root *Type) (*Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p := &Plan{
		root:    root,
		nodes:   map[*Type]struct{}{root: {}},
		states:  make(map[*Edge]*EdgeState),
		lambdas: make(map[field.Ident]any),
	}
	queue := []*Type{root}
	visit := func(n *Type) {
		if _, ok := p.nodes[n]; !ok {
			p.nodes[n] = struct{}{}
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		p.types = append(p.types, t)
		for _, e := range t.Edges {
			if e.IsUplink() && e.Ref == nil {
				return nil, forge.NewUnresolvedAttachmentError(t.Name, e.Name)
			}
			visit(e.Target)
		}
		for _, e := range t.in {
			visit(e.Owner)
		}
	}
	for _, t := range p.types {
		for _, e := range t.Edges {
			p.states[e] = &EdgeState{
				Size:    e.desc.Count,
				Enabled: !e.desc.Optional || e.desc.Enabled,
			}
		}
	}
	return p, nil
}

// Root returns the root type.
func (p *Plan) Root() *Type {
	return p.root
}

// Types returns the types of the plan in breadth-first order from the root.
func (p *Plan) Types() []*Type {
	return p.types
}

// Has reports whether t is part of the plan.
func (p *Plan) Has(t *Type) bool {
	_, ok := p.nodes[t]
	return ok
}

// State returns the state of e, or nil if e is not part of the plan.
func (p *Plan) State(e *Edge) *EdgeState {
	return p.states[e]
}

// SetLambda replaces the function of a lambda field for the build.
func (p *Plan) SetLambda(id field.Ident, fn any) {
	p.lambdas[id] = fn
}

// Lambda returns the replacement function of a lambda field, or nil.
func (p *Plan) Lambda(id field.Ident) any {
	return p.lambdas[id]
}

// Derive returns a copy of the plan that can be reshaped without
// affecting p.
func (p *Plan) Derive() *Plan {
	d := &Plan{
		root:    p.root,
		types:   p.types,
		nodes:   p.nodes,
		states:  make(map[*Edge]*EdgeState, len(p.states)),
		lambdas: maps.Clone(p.lambdas),
	}
	for e, s := range p.states {
		d.states[e] = s.clone()
	}
	return d
}
