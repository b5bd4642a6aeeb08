package edge

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/syssam/forge/schema/field"
)

// Kind is the relationship kind of an edge.
type Kind uint8

// Relationship kinds.
const (
	KindOne    Kind = iota + 1 // single related instance
	KindMany                   // collection of related instances
	KindUplink                 // back-reference to the building parent
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindOne:
		return "One"
	case KindMany:
		return "Many"
	case KindUplink:
		return "Uplink"
	default:
		return "Kind(" + fmt.Sprint(uint8(k)) + ")"
	}
}

// Reuse describes the reuse policy of a single relationship.
type Reuse struct {
	Keys  []string // Key attributes of the target, besides its type
	Local bool     // Cache is private to the edge
}

// Descriptor holds the declaration of an edge.
type Descriptor struct {
	Name     string
	Kind     Kind
	Owner    reflect.Type // Struct type declaring the edge
	Target   reflect.Type // Struct type of the related instances
	RefName  string       // Name of the paired edge on Target
	Count    int          // Default size of a collection
	Optional bool
	Enabled  bool // Optional edge is built unless disabled
	Reuse    *Reuse
	Comment  string

	// Values returns the instances currently linked from owner.
	Values func(owner any) []any
	// Assign replaces the instances linked from owner.
	Assign func(owner any, targets []any) error

	Err error
}

// Ident returns the reference identifying the edge.
func (d *Descriptor) Ident() Ident {
	return Ident{Owner: d.Owner, Name: d.Name}
}

// Forward reports whether the edge is a One or Many edge.
func (d *Descriptor) Forward() bool {
	return d.Kind == KindOne || d.Kind == KindMany
}

// Ident references an edge by owner type and name.
type Ident struct {
	Owner reflect.Type
	Name  string
}

// Of returns the reference of the edge name declared by O.
func Of[O any](name string) Ident {
	return Ident{Owner: reflect.TypeFor[O](), Name: name}
}

// String returns the edge reference as Type.name.
func (i Ident) String() string {
	if i.Owner == nil {
		return "<nil>." + i.Name
	}
	return i.Owner.Name() + "." + i.Name
}

// OneBuilder is the builder for single-instance edges.
type OneBuilder struct {
	desc *Descriptor
}

// One returns a builder for an edge holding one instance of T.
func One[O, T any](name string, ref func(*O) **T) *OneBuilder {
	d := newDescriptor[O, T](name, KindOne)
	if ref == nil {
		d.Err = errors.New("nil accessor")
		return &OneBuilder{desc: d}
	}
	d.Values = func(owner any) []any {
		o, ok := owner.(*O)
		if !ok || o == nil {
			return nil
		}
		if v := *ref(o); v != nil {
			return []any{v}
		}
		return nil
	}
	d.Assign = func(owner any, targets []any) error {
		o, err := ownerOf[O](d, owner)
		if err != nil {
			return err
		}
		switch len(targets) {
		case 0:
			*ref(o) = nil
		case 1:
			t, ok := targets[0].(*T)
			if !ok {
				return field.NewMismatchError(d.Ident().String(), reflect.TypeFor[*T](), targets[0])
			}
			*ref(o) = t
		default:
			return fmt.Errorf("edge %s holds one instance, got %d", d.Ident(), len(targets))
		}
		return nil
	}
	return &OneBuilder{desc: d}
}

// Maybe returns a builder for an optional single-instance edge.
// The edge is not built unless enabled by declaration or modifier.
func Maybe[O, T any](name string, ref func(*O) **T) *OneBuilder {
	return One(name, ref).Optional()
}

// Optional marks the edge as optional and disabled by default.
func (b *OneBuilder) Optional() *OneBuilder {
	b.desc.Optional = true
	return b
}

// Enabled marks the edge as optional and built by default.
func (b *OneBuilder) Enabled() *OneBuilder {
	b.desc.Optional = true
	b.desc.Enabled = true
	return b
}

// Reused shares the target through the reuse cache. Instances with
// equal values of the given key attributes are built once.
func (b *OneBuilder) Reused(keys ...string) *OneBuilder {
	b.desc.Reuse = &Reuse{Keys: keys}
	return b
}

// Local keeps the reuse cache private to this edge.
func (b *OneBuilder) Local() *OneBuilder {
	if b.desc.Reuse == nil {
		b.desc.Reuse = &Reuse{}
	}
	b.desc.Reuse.Local = true
	return b
}

// Ref names the uplink on the target that points back to this edge.
func (b *OneBuilder) Ref(name string) *OneBuilder {
	b.desc.RefName = name
	return b
}

// Comment sets the comment of the edge.
func (b *OneBuilder) Comment(c string) *OneBuilder {
	b.desc.Comment = c
	return b
}

// Descriptor implements the forge.Edge interface.
func (b *OneBuilder) Descriptor() *Descriptor {
	return b.desc
}

// ManyBuilder is the builder for collection edges.
type ManyBuilder struct {
	desc *Descriptor
}

// Many returns a builder for an edge holding a collection of T.
// The collection holds one element unless Count says otherwise. A
// collection that closes a cycle on an instance already on the build
// path holds that instance once, whatever its count.
func Many[O, T any](name string, ref func(*O) *[]*T) *ManyBuilder {
	d := newDescriptor[O, T](name, KindMany)
	d.Count = 1
	if ref == nil {
		d.Err = errors.New("nil accessor")
		return &ManyBuilder{desc: d}
	}
	d.Values = func(owner any) []any {
		o, ok := owner.(*O)
		if !ok || o == nil {
			return nil
		}
		items := *ref(o)
		vs := make([]any, 0, len(items))
		for _, v := range items {
			vs = append(vs, v)
		}
		return vs
	}
	d.Assign = func(owner any, targets []any) error {
		o, err := ownerOf[O](d, owner)
		if err != nil {
			return err
		}
		items := make([]*T, 0, len(targets))
		for _, v := range targets {
			t, ok := v.(*T)
			if !ok {
				return field.NewMismatchError(d.Ident().String(), reflect.TypeFor[*T](), v)
			}
			items = append(items, t)
		}
		*ref(o) = items
		return nil
	}
	return &ManyBuilder{desc: d}
}

// Count sets the default number of elements.
func (b *ManyBuilder) Count(n int) *ManyBuilder {
	if n < 0 {
		b.desc.Err = fmt.Errorf("negative count %d", n)
		return b
	}
	b.desc.Count = n
	return b
}

// Optional marks the collection as optional and disabled by default.
func (b *ManyBuilder) Optional() *ManyBuilder {
	b.desc.Optional = true
	return b
}

// Enabled marks the collection as optional and built by default.
func (b *ManyBuilder) Enabled() *ManyBuilder {
	b.desc.Optional = true
	b.desc.Enabled = true
	return b
}

// Ref names the uplink on the target that points back to this edge.
func (b *ManyBuilder) Ref(name string) *ManyBuilder {
	b.desc.RefName = name
	return b
}

// Comment sets the comment of the edge.
func (b *ManyBuilder) Comment(c string) *ManyBuilder {
	b.desc.Comment = c
	return b
}

// Descriptor implements the forge.Edge interface.
func (b *ManyBuilder) Descriptor() *Descriptor {
	return b.desc
}

// UplinkBuilder is the builder for back-reference edges.
type UplinkBuilder struct {
	desc *Descriptor
}

// Uplink returns a builder for a back-reference to the instance of T
// that builds the owner through a forward edge.
func Uplink[O, T any](name string, ref func(*O) **T) *UplinkBuilder {
	one := One(name, ref)
	one.desc.Kind = KindUplink
	return &UplinkBuilder{desc: one.desc}
}

// Ref names the forward edge on the target this uplink pairs with.
func (b *UplinkBuilder) Ref(name string) *UplinkBuilder {
	b.desc.RefName = name
	return b
}

// Comment sets the comment of the edge.
func (b *UplinkBuilder) Comment(c string) *UplinkBuilder {
	b.desc.Comment = c
	return b
}

// Descriptor implements the forge.Edge interface.
func (b *UplinkBuilder) Descriptor() *Descriptor {
	return b.desc
}

func newDescriptor[O, T any](name string, kind Kind) *Descriptor {
	d := &Descriptor{
		Name:   name,
		Kind:   kind,
		Owner:  reflect.TypeFor[O](),
		Target: reflect.TypeFor[T](),
	}
	switch {
	case name == "":
		d.Err = errors.New("missing edge name")
	case d.Owner.Kind() != reflect.Struct:
		d.Err = fmt.Errorf("owner %s is not a struct", d.Owner)
	case d.Target.Kind() != reflect.Struct:
		d.Err = fmt.Errorf("target %s is not a struct", d.Target)
	}
	return d
}

func ownerOf[O any](d *Descriptor, owner any) (*O, error) {
	o, ok := owner.(*O)
	if !ok || o == nil {
		return nil, field.NewMismatchError(d.Ident().String()+" owner", reflect.TypeFor[*O](), owner)
	}
	return o, nil
}
