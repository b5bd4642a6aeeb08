package field

import (
	"reflect"
	"sync"
)

// KeyAttempts is the default number of attempts of a Key provider.
const KeyAttempts = 1000

type slot struct {
	owner reflect.Type
	name  string
}

// keys remembers the values emitted by Key providers per type and field.
var keys = struct {
	mu   sync.Mutex
	seen map[slot]map[any]struct{}
}{seen: make(map[slot]map[any]struct{})}

// ResetKeys forgets every value emitted by Key providers.
func ResetKeys() {
	keys.mu.Lock()
	defer keys.mu.Unlock()
	clear(keys.seen)
}

func claim(s slot, v any) bool {
	keys.mu.Lock()
	defer keys.mu.Unlock()
	seen, ok := keys.seen[s]
	if !ok {
		seen = make(map[any]struct{})
		keys.seen[s] = seen
	}
	if _, ok := seen[v]; ok {
		return false
	}
	seen[v] = struct{}{}
	return true
}

type key[V comparable] struct {
	p Provider[V]
}

// Key returns a provider yielding values of p never returned before
// for the same type and field.
func Key[V comparable](p Provider[V]) Provider[V] {
	return key[V]{p: p}
}

func (k key[V]) Provide(env *Env) (V, error) {
	var (
		zero     V
		s        slot
		attempts = env.Attempts
	)
	if attempts <= 0 {
		attempts = KeyAttempts
	}
	if env.Field != nil {
		s = slot{owner: env.Field.Owner, name: env.Field.Name}
	}
	for range attempts {
		v, err := k.p.Provide(env)
		if err != nil {
			return zero, err
		}
		if claim(s, v) {
			return v, nil
		}
	}
	return zero, &ExhaustedError{Field: refOf(env), Attempts: attempts}
}

// Key passes overrides through to a wrapped Lambda.
func (k key[V]) overridable() bool { return isOverridable(k.p) }
