package field

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Env is passed to providers when a field is filled.
type Env struct {
	// Instance is the instance owning the field.
	Instance any
	// Field is the field being filled.
	Field *Descriptor
	// Attempts bounds Key retries. Zero means KeyAttempts.
	Attempts int
	// Override replaces the function of a Lambda provider for this build.
	Override any
}

// Provider produces field values.
type Provider[V any] interface {
	Provide(*Env) (V, error)
}

// ProviderFunc is an adapter to allow the use of ordinary functions
// as providers.
type ProviderFunc[V any] func(*Env) (V, error)

// Provide returns f(env).
func (f ProviderFunc[V]) Provide(env *Env) (V, error) {
	return f(env)
}

// overridable is implemented by providers that may accept per-build overrides.
type overridable interface {
	overridable() bool
}

func isOverridable(p any) bool {
	o, ok := p.(overridable)
	return ok && o.overridable()
}

type fixed[V any] struct{ v V }

// Fixed returns a provider that always yields v.
func Fixed[V any](v V) Provider[V] {
	return fixed[V]{v: v}
}

func (p fixed[V]) Provide(*Env) (V, error) {
	return p.v, nil
}

// Integer is the constraint of Random.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type random[V Integer] struct {
	start, end V
}

// Random returns a provider of uniformly distributed integers
// in [start, end].
func Random[V Integer](start, end V) Provider[V] {
	return random[V]{start: start, end: end}
}

func (p random[V]) Provide(*Env) (V, error) {
	if p.end < p.start {
		return 0, fmt.Errorf("forge: random range [%v, %v] is empty", p.start, p.end)
	}
	// Widened before subtracting; the sum below wraps back into range.
	span := uint64(p.end) - uint64(p.start) + 1
	if span == 0 {
		return p.start + V(rand.Uint64()), nil
	}
	return p.start + V(rand.Uint64N(span)), nil
}

// RandomString returns a provider formatting a random integer in
// [start, end] with pattern, e.g. RandomString("foo_%d", 1, 10).
func RandomString(pattern string, start, end int) Provider[string] {
	r := Random(start, end)
	return ProviderFunc[string](func(env *Env) (string, error) {
		n, err := r.Provide(env)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(pattern, n), nil
	})
}

// UID returns a provider of fresh random UUID strings.
func UID() Provider[string] {
	return ProviderFunc[string](func(*Env) (string, error) {
		return uuid.NewString(), nil
	})
}

// UUID returns a provider of fresh random UUIDs.
func UUID() Provider[uuid.UUID] {
	return ProviderFunc[uuid.UUID](func(*Env) (uuid.UUID, error) {
		return uuid.New(), nil
	})
}

// Now returns a provider of the current time.
func Now() Provider[time.Time] {
	return ProviderFunc[time.Time](func(*Env) (time.Time, error) {
		return time.Now(), nil
	})
}

type lambda[O, V any] struct {
	fn func(*O) V
}

// Lambda returns a provider computing the value from the instance
// being built. The function can be replaced for one build with the
// Lambda modifier.
func Lambda[O, V any](fn func(*O) V) Provider[V] {
	return lambda[O, V]{fn: fn}
}

func (p lambda[O, V]) Provide(env *Env) (V, error) {
	var zero V
	fn := p.fn
	if env.Override != nil {
		f, ok := env.Override.(func(*O) V)
		if !ok {
			return zero, NewMismatchError(refOf(env), reflect.TypeFor[func(*O) V](), env.Override)
		}
		fn = f
	}
	o, ok := env.Instance.(*O)
	if !ok {
		return zero, NewMismatchError(refOf(env), reflect.TypeFor[*O](), env.Instance)
	}
	return fn(o), nil
}

func (lambda[O, V]) overridable() bool { return true }

func refOf(env *Env) string {
	if env.Field == nil {
		return "lambda"
	}
	return env.Field.Ident().String()
}
