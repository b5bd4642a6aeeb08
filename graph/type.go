package graph

import (
	"fmt"
	"reflect"

	"github.com/go-openapi/inflect"

	"github.com/syssam/forge"
	"github.com/syssam/forge/schema/edge"
	"github.com/syssam/forge/schema/field"
)

// Type is a node of the model graph.
type Type struct {
	// Name is the Go type name, e.g. "Squad".
	Name string
	// Go is the model struct type.
	Go reflect.Type
	// Fields lists the declared fields in declaration order, mixins first.
	Fields []*field.Descriptor
	// Edges lists the declared edges in declaration order, mixins first.
	Edges []*Edge

	fields map[string]*field.Descriptor
	edges  map[string]*Edge
	in     []*Edge // edges targeting the type
}

func newType(t reflect.Type) *Type {
	return &Type{
		Name:   t.Name(),
		Go:     t,
		fields: make(map[string]*field.Descriptor),
		edges:  make(map[string]*Edge),
	}
}

// Label returns the snake-case name of the type, e.g. "squad_member".
func (t *Type) Label() string {
	return inflect.Underscore(t.Name)
}

// String implements fmt.Stringer.
func (t *Type) String() string {
	return t.Name
}

// New returns a pointer to a new zero instance.
func (t *Type) New() any {
	return reflect.New(t.Go).Interface()
}

// Is reports whether v is a pointer to an instance of the type.
func (t *Type) Is(v any) bool {
	rt := reflect.TypeOf(v)
	return rt != nil && rt.Kind() == reflect.Pointer && rt.Elem() == t.Go && !reflect.ValueOf(v).IsNil()
}

// Field returns the declared field with the given name.
func (t *Type) Field(name string) (*field.Descriptor, bool) {
	f, ok := t.fields[name]
	return f, ok
}

// Edge returns the declared edge with the given name.
func (t *Type) Edge(name string) (*Edge, bool) {
	e, ok := t.edges[name]
	return e, ok
}

// In returns the edges of other types targeting this one.
func (t *Type) In() []*Edge {
	return t.in
}

// HasAttr reports whether the type has an attribute with the given name.
// Attributes are declared fields and exported struct fields, the latter
// matched by exact name or by the camelized name ("created_at" matches
// CreatedAt).
func (t *Type) HasAttr(name string) bool {
	if _, ok := t.fields[name]; ok {
		return true
	}
	_, ok := t.structField(name)
	return ok
}

// Attr returns the value of the attribute name of v.
func (t *Type) Attr(v any, name string) (any, bool) {
	if f, ok := t.fields[name]; ok {
		return f.Get(v), true
	}
	sf, ok := t.structField(name)
	if !ok || !t.Is(v) {
		return nil, false
	}
	return reflect.ValueOf(v).Elem().FieldByIndex(sf.Index).Interface(), true
}

// SetAttr sets the attribute name of v. It returns false if the type has
// no such attribute.
func (t *Type) SetAttr(v any, name string, val any) (bool, error) {
	if f, ok := t.fields[name]; ok {
		return true, f.Set(v, val)
	}
	sf, ok := t.structField(name)
	if !ok {
		return false, nil
	}
	if !t.Is(v) {
		return true, field.NewMismatchError(t.Name+"."+name+" owner", reflect.PointerTo(t.Go), v)
	}
	rv, err := field.ConvertValue(val, sf.Type)
	if err != nil {
		return true, field.NewMismatchError(t.Name+"."+name, sf.Type, val)
	}
	reflect.ValueOf(v).Elem().FieldByIndex(sf.Index).Set(rv)
	return true, nil
}

func (t *Type) structField(name string) (reflect.StructField, bool) {
	for _, n := range []string{name, inflect.Camelize(name)} {
		if sf, ok := t.Go.FieldByName(n); ok && sf.IsExported() && !sf.Anonymous {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}

// Edge is a relationship of the model graph.
type Edge struct {
	Name   string
	Kind   edge.Kind
	Owner  *Type
	Target *Type
	// Ref is the paired edge on Target: the uplink of a forward edge,
	// or the forward edge of an uplink. It is nil for unpaired edges.
	Ref *Edge

	desc  *edge.Descriptor
	cache forge.ReuseCache
}

// Descriptor returns the declaration of the edge.
func (e *Edge) Descriptor() *edge.Descriptor {
	return e.desc
}

// Ident returns the reference identifying the edge.
func (e *Edge) Ident() edge.Ident {
	return edge.Ident{Owner: e.Owner.Go, Name: e.Name}
}

// String returns the edge as Type.name.
func (e *Edge) String() string {
	return e.Owner.Name + "." + e.Name
}

// IsUplink reports whether the edge is a back-reference.
func (e *Edge) IsUplink() bool { return e.Kind == edge.KindUplink }

// IsMany reports whether the edge is a collection.
func (e *Edge) IsMany() bool { return e.Kind == edge.KindMany }

// IsOne reports whether the edge is a single forward relationship.
func (e *Edge) IsOne() bool { return e.Kind == edge.KindOne }

// Optional reports whether the edge may be left out of a build.
func (e *Edge) Optional() bool { return e.desc.Optional }

// Reused reports whether the edge shares instances through a reuse cache.
func (e *Edge) Reused() bool { return e.desc.Reuse != nil }

// ReuseKeys returns the key attributes of a reused edge.
func (e *Edge) ReuseKeys() []string {
	if e.desc.Reuse == nil {
		return nil
	}
	return e.desc.Reuse.Keys
}

// LocalCache returns the private reuse cache of the edge, or nil when
// the edge uses the global cache.
func (e *Edge) LocalCache() forge.ReuseCache {
	return e.cache
}

// Values returns the instances linked from owner.
func (e *Edge) Values(owner any) []any {
	return e.desc.Values(owner)
}

// Assign replaces the instances linked from owner.
func (e *Edge) Assign(owner any, targets ...any) error {
	if err := e.desc.Assign(owner, targets); err != nil {
		return fmt.Errorf("assigning %s: %w", e, err)
	}
	return nil
}

// Append links one more target from owner. Single edges are replaced.
func (e *Edge) Append(owner, target any) error {
	if !e.IsMany() {
		return e.Assign(owner, target)
	}
	return e.Assign(owner, append(e.Values(owner), target)...)
}

// Replace swaps old for v in the instances linked from owner.
func (e *Edge) Replace(owner, old, v any) error {
	vs := e.Values(owner)
	for i := range vs {
		if vs[i] == old {
			vs[i] = v
		}
	}
	return e.Assign(owner, vs...)
}
