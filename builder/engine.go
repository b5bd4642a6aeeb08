package builder

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/syssam/forge"
	"github.com/syssam/forge/graph"
	"github.com/syssam/forge/schema/field"
)

// direction is how the engine reached an instance of the path.
type direction uint8

const (
	origin direction = iota // root of the build
	down                    // through a forward edge
	up                      // through an uplink
)

type frame struct {
	obj *graph.Object
	dir direction
}

// scope is a set of instances sharing a plan and instance modifiers.
// The root scope holds the modifiers of the builder. Elements claimed
// by OneOf open a scope of their own, inheriting from their parent.
type scope struct {
	plan    *graph.Plan
	mods    []graph.Modifier // inherited and own, sorted
	own     []graph.Modifier
	members []*graph.Object
}

// reused is a link of a reused edge made by the engine.
type reused struct {
	owner  *graph.Object
	edge   *graph.Edge
	target *graph.Object
}

// engine runs a single build.
type engine struct {
	reg      *graph.Registry
	log      *slog.Logger
	cache    forge.ReuseCache
	attempts int

	objs    *graph.Objects
	scopes  []*scope
	scopeOf map[graph.ID]*scope
	reused  []reused
}

func newEngine(o *options) *engine {
	return &engine{
		reg:      o.registry,
		log:      o.log(),
		cache:    o.cache,
		attempts: o.config.KeyAttempts,
		objs:     graph.NewObjects(),
		scopeOf:  make(map[graph.ID]*scope),
	}
}

func (e *engine) build(t *graph.Type, mods []graph.Modifier) (*graph.Objects, error) {
	e.log.Debug("build started", slog.String("type", t.Name), slog.Int("modifiers", len(mods)))
	plan, err := e.reg.Subgraph(t)
	if err != nil {
		return nil, err
	}
	mods = graph.Sort(mods)
	if err := e.shape(plan, mods); err != nil {
		return nil, err
	}
	sc := e.newScope(plan, mods, mods)
	root := e.spawn(sc, t)
	if err := e.explore(sc, root, nil, nil, []frame{{obj: root}}); err != nil {
		return nil, err
	}
	if err := e.modify(); err != nil {
		return nil, err
	}
	if err := e.fill(); err != nil {
		return nil, err
	}
	if err := e.reuse(); err != nil {
		return nil, err
	}
	e.log.Debug("build finished", slog.String("type", t.Name), slog.Int("instances", e.objs.Len()))
	return e.objs, nil
}

// shape runs the shaping modifiers on plan.
func (e *engine) shape(plan *graph.Plan, mods []graph.Modifier) error {
	c := &graph.Context{Registry: e.reg, Plan: plan}
	for _, m := range mods {
		if !m.ShouldRun(c) {
			continue
		}
		if err := m.Apply(c); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) newScope(plan *graph.Plan, mods, own []graph.Modifier) *scope {
	sc := &scope{plan: plan, mods: mods, own: own}
	e.scopes = append(e.scopes, sc)
	return sc
}

// fork opens the scope of a collection element claimed by OneOf.
func (e *engine) fork(parent *scope, mods []graph.Modifier) (*scope, error) {
	mods = graph.Sort(mods)
	plan := parent.plan.Derive()
	if err := e.shape(plan, mods); err != nil {
		return nil, err
	}
	all := graph.Sort(append(slices.Clone(parent.mods), mods...))
	return e.newScope(plan, all, mods), nil
}

func (e *engine) spawn(sc *scope, t *graph.Type) *graph.Object {
	o := e.objs.Add(t, t.New())
	sc.members = append(sc.members, o)
	e.scopeOf[o.ID] = sc
	e.log.Debug("instance created", slog.String("type", t.Name), slog.Int("id", int(o.ID)))
	return o
}

// explore links the edges of o in declaration order. The instance was
// reached from "from" through the paired edge of arrival.
func (e *engine) explore(sc *scope, o *graph.Object, arrival *graph.Edge, from *graph.Object, path []frame) error {
	for _, ed := range o.Type.Edges {
		if !e.objs.Visit(o.ID, ed) {
			continue
		}
		var err error
		switch {
		case ed == arrival:
			err = e.arrive(sc, o, ed, from, path)
		case ed.IsUplink():
			err = e.climb(sc, o, ed, path)
		case ed.IsMany():
			err = e.many(sc, o, ed, path)
		default:
			err = e.one(sc, o, ed, path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// arrive links o back to the instance it was reached from. A parent
// reached through the uplink of one element gets the rest of its
// collection built around that element.
func (e *engine) arrive(sc *scope, o *graph.Object, ed *graph.Edge, from *graph.Object, path []frame) error {
	if err := e.link(o, ed, from); err != nil {
		return err
	}
	if !ed.IsMany() {
		return nil
	}
	s := sc.plan.State(ed)
	if err := e.fresh(sc, o, ed, s.Size-1-len(s.Supplied), path); err != nil {
		return err
	}
	return e.supply(o, ed, s.Supplied)
}

func (e *engine) one(sc *scope, o *graph.Object, ed *graph.Edge, path []frame) error {
	s := sc.plan.State(ed)
	switch {
	case len(s.Supplied) > 0:
		return e.supply(o, ed, s.Supplied)
	case !s.Enabled:
		return nil
	}
	if anc := closing(path, down, ed.Target); anc != nil {
		e.log.Debug("cycle closed", slog.String("edge", ed.String()), slog.Int("id", int(anc.ID)))
		return e.link(o, ed, anc)
	}
	return e.descend(sc, o, ed, path)
}

func (e *engine) many(sc *scope, o *graph.Object, ed *graph.Edge, path []frame) error {
	s := sc.plan.State(ed)
	if s.Enabled && s.Fresh() > 0 {
		if anc := closing(path, down, ed.Target); anc != nil {
			e.log.Debug("cycle closed", slog.String("edge", ed.String()), slog.Int("id", int(anc.ID)))
			if err := e.link(o, ed, anc); err != nil {
				return err
			}
		} else if err := e.fresh(sc, o, ed, s.Fresh(), path); err != nil {
			return err
		}
	}
	return e.supply(o, ed, s.Supplied)
}

// climb builds the parent of o through the uplink u, unless the parent
// was supplied or its collection is empty.
func (e *engine) climb(sc *scope, o *graph.Object, u *graph.Edge, path []frame) error {
	s := sc.plan.State(u)
	if len(s.Supplied) > 0 {
		return e.supply(o, u, s.Supplied)
	}
	fwd := u.Ref
	if fs := sc.plan.State(fwd); !fs.Enabled || (fwd.IsMany() && fs.Size == 0) {
		return nil
	}
	if anc := closing(path, up, u.Target); anc != nil {
		e.log.Debug("cycle closed", slog.String("edge", u.String()), slog.Int("id", int(anc.ID)))
		return e.link(o, u, anc)
	}
	p := e.spawn(sc, u.Target)
	if err := e.link(o, u, p); err != nil {
		return err
	}
	return e.explore(sc, p, fwd, o, append(slices.Clip(path), frame{obj: p, dir: up}))
}

// fresh builds n new elements of the collection ed of o. Element i
// takes the modifiers of OneOf entry i.
func (e *engine) fresh(sc *scope, o *graph.Object, ed *graph.Edge, n int, path []frame) error {
	queue := sc.plan.State(ed).Queue
	for i := range max(0, n) {
		esc := sc
		if i < len(queue) {
			var err error
			if esc, err = e.fork(sc, queue[i]); err != nil {
				return err
			}
		}
		if err := e.descend(esc, o, ed, path); err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) descend(sc *scope, o *graph.Object, ed *graph.Edge, path []frame) error {
	child := e.spawn(sc, ed.Target)
	if err := e.link(o, ed, child); err != nil {
		return err
	}
	if ed.Reused() {
		e.reused = append(e.reused, reused{owner: o, edge: ed, target: child})
	}
	return e.explore(sc, child, ed.Ref, o, append(slices.Clip(path), frame{obj: child, dir: down}))
}

// supply links caller-built instances. They are linked back to o
// through the paired edge but never explored.
func (e *engine) supply(o *graph.Object, ed *graph.Edge, vs []any) error {
	for _, v := range vs {
		ext := e.objs.Attach(ed.Target, v)
		if err := e.link(o, ed, ext); err != nil {
			return err
		}
		if ed.Ref != nil {
			if err := e.link(ext, ed.Ref, o); err != nil {
				return err
			}
		}
	}
	return nil
}

// link sets to as the target of ed on from, appending to collections.
func (e *engine) link(from *graph.Object, ed *graph.Edge, to *graph.Object) error {
	if err := ed.Append(from.Value, to.Value); err != nil {
		return err
	}
	e.objs.Link(from.ID, ed, to.ID)
	return nil
}

// closing returns the instance of t closing a cycle on the path: the
// nearest one reached in the same direction as the next step.
func closing(path []frame, dir direction, t *graph.Type) *graph.Object {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].obj.Type == t {
			return path[i].obj
		}
		if path[i].dir != dir {
			break
		}
	}
	return nil
}

// modify runs the modifiers of every scope, in creation order, on the
// linked instance graph and then on each instance of the scope.
func (e *engine) modify() error {
	for _, sc := range e.scopes {
		c := &graph.Context{Registry: e.reg, Plan: sc.plan, Objects: e.objs}
		for _, m := range sc.own {
			if !m.ShouldRun(c) {
				continue
			}
			if err := m.Apply(c); err != nil {
				return err
			}
		}
		for _, m := range sc.mods {
			for _, o := range sc.members {
				if o.External || o.Removed {
					continue
				}
				c := &graph.Context{Registry: e.reg, Plan: sc.plan, Objects: e.objs, Object: o}
				if !m.ShouldRun(c) {
					continue
				}
				if err := m.Apply(c); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// fill runs the providers of fields left unset.
func (e *engine) fill() error {
	for _, o := range e.objs.All() {
		if o.External {
			continue
		}
		plan := e.scopeOf[o.ID].plan
		for _, f := range o.Type.Fields {
			if f.Provide == nil || o.IsSet(f.Name) || !f.IsZero(o.Value) {
				continue
			}
			v, err := f.Provide(&field.Env{
				Instance: o.Value,
				Field:    f,
				Attempts: e.attempts,
				Override: plan.Lambda(f.Ident()),
			})
			if err != nil {
				return fmt.Errorf("filling %s: %w", f.Ident(), err)
			}
			if err := f.Set(o.Value, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// reuse swaps the targets of reused edges for cached instances with
// the same key, then drops what is no longer reachable from the root.
func (e *engine) reuse() error {
	slices.SortStableFunc(e.reused, func(a, b reused) int {
		return cmp.Compare(a.target.ID, b.target.ID)
	})
	for _, r := range e.reused {
		if r.owner.Removed || r.target.Removed {
			continue
		}
		keys := r.edge.ReuseKeys()
		values := make([]any, 0, len(keys))
		for _, k := range keys {
			v, _ := r.target.Type.Attr(r.target.Value, k)
			values = append(values, v)
		}
		key, err := forge.NewReuseKey(r.target.Type.Name, values...)
		if err != nil {
			return err
		}
		cache := r.edge.LocalCache()
		if cache == nil {
			cache = e.cache
		}
		cached, ok := cache.Load(key)
		switch {
		case !ok:
			cache.Store(key, r.target.Value)
			e.log.Debug("reuse stored", slog.String("edge", r.edge.String()), slog.String("key", key.String()))
		case cached != r.target.Value:
			if err := e.relink(r, cached); err != nil {
				return err
			}
			e.log.Debug("reuse hit", slog.String("edge", r.edge.String()), slog.String("key", key.String()))
		}
	}
	return nil
}

// relink replaces the target of r with cached and points the uplink of
// cached to the owner of r.
func (e *engine) relink(r reused, cached any) error {
	if err := r.edge.Replace(r.owner.Value, r.target.Value, cached); err != nil {
		return err
	}
	e.objs.Unlink(r.owner.ID, r.edge, r.target.ID)
	c := e.objs.Attach(r.edge.Target, cached)
	e.objs.Link(r.owner.ID, r.edge, c.ID)
	if u := r.edge.Ref; u != nil {
		if err := u.Assign(cached, r.owner.Value); err != nil {
			return err
		}
		for _, old := range e.objs.Out(c.ID, u) {
			e.objs.Unlink(c.ID, u, old.ID)
		}
		e.objs.Link(c.ID, u, r.owner.ID)
	}
	for _, o := range e.objs.Prune() {
		e.log.Debug("instance pruned", slog.String("type", o.Type.Name), slog.Int("id", int(o.ID)))
	}
	return nil
}
