package graph

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/syssam/forge"
	"github.com/syssam/forge/schema/edge"
	"github.com/syssam/forge/schema/field"
)

// Registry holds the model graph: every registered type and its edges.
// Types are added by Register, or implicitly when first referenced, and
// never removed.
type Registry struct {
	mu     sync.RWMutex
	types  map[reflect.Type]*Type
	byName map[string]*Type
	order  []*Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:  make(map[reflect.Type]*Type),
		byName: make(map[string]*Type),
	}
}

// Default is the registry used when none is given.
var Default = NewRegistry()

// Register adds models to the default registry.
func Register(schemas ...forge.Interface) error {
	return Default.Register(schemas...)
}

// Register adds the models and every model reachable through their edges.
// Registering a type again is a no-op. On error, none of the types first
// seen by this call are kept.
func (r *Registry) Register(schemas ...forge.Interface) error {
	gts := make([]reflect.Type, 0, len(schemas))
	for _, s := range schemas {
		if s == nil {
			return NewSchemaError("", "", "nil schema", nil)
		}
		gts = append(gts, reflect.TypeOf(s))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.register(gts...)
	return err
}

// Type returns the type of the model struct t, registering it if needed.
// Pointer types are dereferenced.
func (r *Registry) Type(t reflect.Type) (*Type, error) {
	if t == nil {
		return nil, NewSchemaError("", "", "nil type", nil)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r.mu.RLock()
	typ, ok := r.types[t]
	r.mu.RUnlock()
	if ok {
		return typ, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	types, err := r.register(t)
	if err != nil {
		return nil, err
	}
	return types[0], nil
}

// TypeOf returns the type of v, a model value or pointer.
func (r *Registry) TypeOf(v any) (*Type, error) {
	return r.Type(reflect.TypeOf(v))
}

// TypeFor returns the type of T in r.
func TypeFor[T any](r *Registry) (*Type, error) {
	return r.Type(reflect.TypeFor[T]())
}

// TypeByName returns a registered type by its Go name.
func (r *Registry) TypeByName(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Type(nil), r.order...)
}

// Edge resolves an edge reference.
func (r *Registry) Edge(id edge.Ident) (*Edge, error) {
	t, err := r.Type(id.Owner)
	if err != nil {
		return nil, err
	}
	e, ok := t.Edge(id.Name)
	if !ok {
		return nil, &UnknownError{Kind: "edge", Ref: id.String()}
	}
	return e, nil
}

// Field resolves a field reference.
func (r *Registry) Field(id field.Ident) (*field.Descriptor, error) {
	t, err := r.Type(id.Owner)
	if err != nil {
		return nil, err
	}
	f, ok := t.Field(id.Name)
	if !ok {
		return nil, &UnknownError{Kind: "field", Ref: id.String()}
	}
	return f, nil
}

// ClearCaches empties the local reuse caches of all edges.
func (r *Registry) ClearCaches() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.order {
		for _, e := range t.Edges {
			if e.cache != nil {
				e.cache.Clear()
			}
		}
	}
}

// register loads the given types with r.mu held and resolves pairs.
func (r *Registry) register(gts ...reflect.Type) ([]*Type, error) {
	l := &loader{Registry: r}
	types := make([]*Type, 0, len(gts))
	for _, gt := range gts {
		t, err := l.load(gt)
		if err != nil {
			l.rollback()
			return nil, err
		}
		types = append(types, t)
	}
	if err := l.pair(); err != nil {
		l.rollback()
		return nil, err
	}
	return types, nil
}

type loader struct {
	*Registry
	added []*Type
}

func (l *loader) load(gt reflect.Type) (*Type, error) {
	if gt.Kind() == reflect.Pointer {
		gt = gt.Elem()
	}
	if t, ok := l.types[gt]; ok {
		return t, nil
	}
	if gt.Kind() != reflect.Struct {
		return nil, NewSchemaError(gt.String(), "", "model must be a struct", nil)
	}
	t := newType(gt)
	l.types[gt] = t
	if _, ok := l.byName[t.Name]; !ok {
		l.byName[t.Name] = t
	}
	l.order = append(l.order, t)
	l.added = append(l.added, t)

	fields, edges := declarations(gt)
	for _, f := range fields {
		d := f.Descriptor()
		switch {
		case d.Err != nil:
			return nil, NewSchemaError(t.Name, d.Name, "", d.Err)
		case d.Owner != gt:
			return nil, NewSchemaError(t.Name, d.Name, fmt.Sprintf("field is declared for %s", d.Owner), nil)
		case t.fields[d.Name] != nil:
			return nil, NewSchemaError(t.Name, d.Name, "duplicate field name", nil)
		}
		t.fields[d.Name] = d
		t.Fields = append(t.Fields, d)
	}
	for _, e := range edges {
		d := e.Descriptor()
		switch {
		case d.Err != nil:
			return nil, NewEdgeError(t.Name, "", d.Name, "", d.Err)
		case d.Owner != gt:
			return nil, NewEdgeError(t.Name, "", d.Name, fmt.Sprintf("edge is declared for %s", d.Owner), nil)
		case t.edges[d.Name] != nil:
			return nil, NewEdgeError(t.Name, "", d.Name, "duplicate edge name", nil)
		case t.fields[d.Name] != nil:
			return nil, NewEdgeError(t.Name, "", d.Name, "edge name is used by a field", nil)
		case d.Reuse != nil && d.Kind != edge.KindOne:
			return nil, NewEdgeError(t.Name, "", d.Name, "only One edges can be reused", nil)
		}
		ge := &Edge{Name: d.Name, Kind: d.Kind, Owner: t, desc: d}
		if d.Reuse != nil && d.Reuse.Local {
			ge.cache = forge.NewReuseCache()
		}
		t.edges[d.Name] = ge
		t.Edges = append(t.Edges, ge)
	}
	for _, e := range t.Edges {
		target, err := l.load(e.desc.Target)
		if err != nil {
			return nil, err
		}
		e.Target = target
		target.in = append(target.in, e)
		for _, k := range e.ReuseKeys() {
			if !target.HasAttr(k) {
				return nil, NewEdgeError(t.Name, target.Name, e.Name, fmt.Sprintf("unknown reuse key %q", k), nil)
			}
		}
	}
	return t, nil
}

// pair links every unpaired edge that names its counterpart. Uplinks
// nobody names stay open until a build reaches them.
func (l *loader) pair() error {
	type match struct{ a, b *Edge }
	var matches []match
	pending := make(map[*Edge]*Edge)
	for _, t := range l.order {
		for _, e := range t.Edges {
			name := e.desc.RefName
			if e.Ref != nil || name == "" {
				continue
			}
			if _, ok := pending[e]; ok {
				continue
			}
			other, ok := e.Target.Edge(name)
			if !ok {
				return NewEdgeError(t.Name, e.Target.Name, e.Name, fmt.Sprintf("paired edge %q not found", name), nil)
			}
			switch {
			case e.IsUplink() == other.IsUplink():
				return NewEdgeError(t.Name, e.Target.Name, e.Name, fmt.Sprintf("%s must pair an uplink with a forward edge", other), nil)
			case other.Target != t:
				return NewEdgeError(t.Name, e.Target.Name, e.Name, fmt.Sprintf("%s targets %s", other, other.Target), nil)
			case other.desc.RefName != "" && other.desc.RefName != e.Name:
				return NewEdgeError(t.Name, e.Target.Name, e.Name, fmt.Sprintf("%s pairs with %q", other, other.desc.RefName), nil)
			case other.Ref != nil && other.Ref != e:
				return NewEdgeError(t.Name, e.Target.Name, e.Name, fmt.Sprintf("%s is already paired with %s", other, other.Ref), nil)
			}
			if p, ok := pending[other]; ok && p != e {
				return NewEdgeError(t.Name, e.Target.Name, e.Name, fmt.Sprintf("%s is already paired with %s", other, p), nil)
			}
			pending[e], pending[other] = other, e
			matches = append(matches, match{a: e, b: other})
		}
	}
	for _, m := range matches {
		m.a.Ref, m.b.Ref = m.b, m.a
	}
	return nil
}

func (l *loader) rollback() {
	if len(l.added) == 0 {
		return
	}
	added := make(map[*Type]bool, len(l.added))
	for _, t := range l.added {
		added[t] = true
		delete(l.types, t.Go)
		if l.byName[t.Name] == t {
			delete(l.byName, t.Name)
		}
	}
	order := l.order[:0]
	for _, t := range l.order {
		if added[t] {
			continue
		}
		in := t.in[:0]
		for _, e := range t.in {
			if !added[e.Owner] {
				in = append(in, e)
			}
		}
		t.in = in
		order = append(order, t)
	}
	l.order = order
	l.added = nil
}

// declarations collects the fields and edges of a model, mixins first.
func declarations(gt reflect.Type) ([]forge.Field, []forge.Edge) {
	s, ok := reflect.New(gt).Elem().Interface().(forge.Interface)
	if !ok {
		if s, ok = reflect.New(gt).Interface().(forge.Interface); !ok {
			return nil, nil
		}
	}
	var (
		fields []forge.Field
		edges  []forge.Edge
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		edges = append(edges, m.Edges()...)
	}
	fields = append(fields, s.Fields()...)
	edges = append(edges, s.Edges()...)
	return fields, edges
}
