package field

import (
	"errors"
	"math"
	"reflect"
)

// Descriptor holds the declaration of a field.
type Descriptor struct {
	Name    string
	Owner   reflect.Type // Struct type declaring the field
	Type    reflect.Type // Value type
	Comment string

	// Provider is the declared Provider[V], or nil.
	Provider any
	// Lambda reports whether Provider accepts per-build overrides.
	Lambda bool

	// Get returns the current value held by owner.
	Get func(owner any) any
	// Set stores v in owner, converting numeric and string kinds.
	Set func(owner any, v any) error
	// IsZero reports whether owner holds the zero value.
	IsZero func(owner any) bool
	// Provide computes a value with Provider, or is nil.
	Provide func(env *Env) (any, error)

	Err error
}

// Ident returns the reference identifying the field.
func (d *Descriptor) Ident() Ident {
	return Ident{Owner: d.Owner, Name: d.Name}
}

// Ident references a field by owner type and name.
type Ident struct {
	Owner reflect.Type
	Name  string
}

// Of returns the reference of the field name declared by O.
func Of[O any](name string) Ident {
	return Ident{Owner: reflect.TypeFor[O](), Name: name}
}

// String returns the field reference as Type.name.
func (i Ident) String() string {
	if i.Owner == nil {
		return "<nil>." + i.Name
	}
	return i.Owner.Name() + "." + i.Name
}

// Builder is the builder for fields of type V declared by O.
type Builder[O, V any] struct {
	desc *Descriptor
}

// Attr returns a builder for the field whose address ref returns.
func Attr[O, V any](name string, ref func(*O) *V) *Builder[O, V] {
	d := &Descriptor{
		Name:  name,
		Owner: reflect.TypeFor[O](),
		Type:  reflect.TypeFor[V](),
	}
	switch {
	case name == "":
		d.Err = errors.New("missing field name")
	case ref == nil:
		d.Err = errors.New("nil accessor")
	case d.Owner.Kind() != reflect.Struct:
		d.Err = errors.New("owner " + d.Owner.String() + " is not a struct")
	}
	if d.Err != nil {
		return &Builder[O, V]{desc: d}
	}
	d.Get = func(owner any) any {
		if o, ok := owner.(*O); ok && o != nil {
			return *ref(o)
		}
		return nil
	}
	d.Set = func(owner any, v any) error {
		o, ok := owner.(*O)
		if !ok || o == nil {
			return NewMismatchError(d.Ident().String()+" owner", reflect.TypeFor[*O](), owner)
		}
		val, err := Convert[V](v)
		if err != nil {
			return NewMismatchError(d.Ident().String(), d.Type, v)
		}
		*ref(o) = val
		return nil
	}
	d.IsZero = func(owner any) bool {
		o, ok := owner.(*O)
		if !ok || o == nil {
			return true
		}
		return reflect.ValueOf(ref(o)).Elem().IsZero()
	}
	return &Builder[O, V]{desc: d}
}

// From sets the provider filling the field on build.
func (b *Builder[O, V]) From(p Provider[V]) *Builder[O, V] {
	if p == nil {
		b.desc.Provider, b.desc.Provide, b.desc.Lambda = nil, nil, false
		return b
	}
	b.desc.Provider = p
	b.desc.Lambda = isOverridable(p)
	b.desc.Provide = func(env *Env) (any, error) {
		return p.Provide(env)
	}
	return b
}

// Fixed fills the field with v.
func (b *Builder[O, V]) Fixed(v V) *Builder[O, V] {
	return b.From(Fixed(v))
}

// Comment sets the comment of the field.
func (b *Builder[O, V]) Comment(c string) *Builder[O, V] {
	b.desc.Comment = c
	return b
}

// Descriptor implements the forge.Field interface.
func (b *Builder[O, V]) Descriptor() *Descriptor {
	return b.desc
}

// Convert converts v to V. Values of V are returned as is, nil gives
// the zero value, and values of the same kind family (numbers, strings,
// booleans) are converted. A number converts only if the target holds
// it exactly, so fractions and out of range values are rejected.
func Convert[V any](v any) (V, error) {
	var zero V
	if v == nil {
		return zero, nil
	}
	if t, ok := v.(V); ok {
		return t, nil
	}
	rv, err := ConvertValue(v, reflect.TypeFor[V]())
	if err != nil {
		return zero, err
	}
	return rv.Interface().(V), nil
}

// ConvertValue is the reflective form of Convert.
func ConvertValue(v any, want reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(want), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(want) {
		return rv, nil
	}
	if !convertible(rv, want) {
		return reflect.Value{}, ErrTypeMismatch
	}
	return rv.Convert(want), nil
}

func convertible(rv reflect.Value, want reflect.Type) bool {
	from := rv.Type()
	switch {
	case isNumber(from.Kind()) && isNumber(want.Kind()):
		return fits(rv, want)
	case from.Kind() == reflect.String && want.Kind() == reflect.String,
		from.Kind() == reflect.Bool && want.Kind() == reflect.Bool:
		return true
	default:
		return from.ConvertibleTo(want) && from.Kind() == want.Kind()
	}
}

// fits reports whether the number rv converts to want without losing
// its value.
func fits(rv reflect.Value, want reflect.Type) bool {
	z := reflect.Zero(want)
	switch k := rv.Kind(); {
	case isFloat(k):
		f := rv.Float()
		switch {
		case isFloat(want.Kind()):
			return !z.OverflowFloat(f)
		case f != math.Trunc(f):
			return false
		case isUnsigned(want.Kind()):
			return f >= 0 && f < math.Exp2(64) && !z.OverflowUint(uint64(f))
		default:
			return f >= -math.Exp2(63) && f < math.Exp2(63) && !z.OverflowInt(int64(f))
		}
	case isUnsigned(k):
		u := rv.Uint()
		switch {
		case isFloat(want.Kind()):
			return true
		case isUnsigned(want.Kind()):
			return !z.OverflowUint(u)
		default:
			return u <= math.MaxInt64 && !z.OverflowInt(int64(u))
		}
	default:
		i := rv.Int()
		switch {
		case isFloat(want.Kind()):
			return true
		case isUnsigned(want.Kind()):
			return i >= 0 && !z.OverflowUint(uint64(i))
		default:
			return !z.OverflowInt(i)
		}
	}
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isNumber(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
