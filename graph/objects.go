package graph

import "slices"

// ID addresses an instance in an Objects arena.
type ID int

// NoID is the ID of no instance.
const NoID ID = -1

// Object is an instance of the instance graph.
type Object struct {
	ID    ID
	Type  *Type
	Value any // Pointer to the model struct
	// External marks instances supplied by the caller or taken from a
	// reuse cache. They are linked but never modified or filled.
	External bool
	// Removed marks instances pruned after reuse resolution.
	Removed bool

	set map[string]struct{}
}

// MarkSet records that the attribute name was set explicitly, so its
// provider will not overwrite it.
func (o *Object) MarkSet(name string) {
	if o.set == nil {
		o.set = make(map[string]struct{})
	}
	o.set[name] = struct{}{}
}

// IsSet reports whether the attribute name was set explicitly.
func (o *Object) IsSet(name string) bool {
	_, ok := o.set[name]
	return ok
}

// Link is an edge of the instance graph, realizing Edge from one
// instance to another.
type Link struct {
	From ID
	Edge *Edge
	To   ID
}

type visit struct {
	id   ID
	edge *Edge
}

// Objects is the instance graph of one build: an arena of instances
// and the links between them.
type Objects struct {
	objects []*Object
	index   map[any]ID
	links   []Link
	visited map[visit]struct{}
	root    ID
}

// NewObjects returns an empty instance graph.
func NewObjects() *Objects {
	return &Objects{
		index:   make(map[any]ID),
		visited: make(map[visit]struct{}),
		root:    NoID,
	}
}

// Add adds a new instance built by the engine.
func (g *Objects) Add(t *Type, v any) *Object {
	o := &Object{ID: ID(len(g.objects)), Type: t, Value: v}
	g.objects = append(g.objects, o)
	g.index[v] = o.ID
	if g.root == NoID {
		g.root = o.ID
	}
	return o
}

// Attach adds an instance the engine did not build. Attaching an
// instance already in the graph returns it unchanged.
func (g *Objects) Attach(t *Type, v any) *Object {
	if o, ok := g.Lookup(v); ok {
		return o
	}
	o := g.Add(t, v)
	o.External = true
	return o
}

// Get returns the instance with the given ID, or nil.
func (g *Objects) Get(id ID) *Object {
	if id < 0 || int(id) >= len(g.objects) {
		return nil
	}
	return g.objects[id]
}

// Lookup returns the live instance holding v.
func (g *Objects) Lookup(v any) (*Object, bool) {
	id, ok := g.index[v]
	if !ok {
		return nil, false
	}
	o := g.objects[id]
	return o, !o.Removed
}

// Root returns the instance the build was requested for.
func (g *Objects) Root() *Object {
	return g.Get(g.root)
}

// Len returns the number of live instances.
func (g *Objects) Len() int {
	n := 0
	for _, o := range g.objects {
		if !o.Removed {
			n++
		}
	}
	return n
}

// All returns the live instances in creation order.
func (g *Objects) All() []*Object {
	all := make([]*Object, 0, len(g.objects))
	for _, o := range g.objects {
		if !o.Removed {
			all = append(all, o)
		}
	}
	return all
}

// Instances returns the live instances of t in creation order.
func (g *Objects) Instances(t *Type) []*Object {
	var objs []*Object
	for _, o := range g.objects {
		if !o.Removed && o.Type == t {
			objs = append(objs, o)
		}
	}
	return objs
}

// Link records that e links from to to.
func (g *Objects) Link(from ID, e *Edge, to ID) {
	g.links = append(g.links, Link{From: from, Edge: e, To: to})
}

// Unlink removes the link of e from from to to.
func (g *Objects) Unlink(from ID, e *Edge, to ID) {
	g.links = slices.DeleteFunc(g.links, func(l Link) bool {
		return l.From == from && l.Edge == e && l.To == to
	})
}

// Links returns the links between live instances.
func (g *Objects) Links() []Link {
	links := make([]Link, 0, len(g.links))
	for _, l := range g.links {
		if !g.objects[l.From].Removed && !g.objects[l.To].Removed {
			links = append(links, l)
		}
	}
	return links
}

// Out returns the instances linked from id through e, in link order.
func (g *Objects) Out(id ID, e *Edge) []*Object {
	var objs []*Object
	for _, l := range g.links {
		if l.From == id && l.Edge == e && !g.objects[l.To].Removed {
			objs = append(objs, g.objects[l.To])
		}
	}
	return objs
}

// Visit marks e as traversed from id. It returns false if it already was.
func (g *Objects) Visit(id ID, e *Edge) bool {
	k := visit{id: id, edge: e}
	if _, ok := g.visited[k]; ok {
		return false
	}
	g.visited[k] = struct{}{}
	return true
}

// Prune removes the instances no longer reachable from the root and
// returns them.
func (g *Objects) Prune() []*Object {
	if g.root == NoID {
		return nil
	}
	out := make(map[ID][]ID)
	for _, l := range g.links {
		out[l.From] = append(out[l.From], l.To)
	}
	reached := map[ID]bool{g.root: true}
	for queue := []ID{g.root}; len(queue) > 0; {
		id := queue[0]
		queue = queue[1:]
		for _, to := range out[id] {
			if !reached[to] {
				reached[to] = true
				queue = append(queue, to)
			}
		}
	}
	var pruned []*Object
	for _, o := range g.objects {
		if !o.Removed && !reached[o.ID] {
			o.Removed = true
			pruned = append(pruned, o)
		}
	}
	return pruned
}

// Of returns the live instances of type T in creation order.
func Of[T any](g *Objects) []*T {
	var vs []*T
	for _, o := range g.objects {
		if v, ok := o.Value.(*T); ok && !o.Removed {
			vs = append(vs, v)
		}
	}
	return vs
}
