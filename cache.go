package forge

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/mitchellh/hashstructure/v2"
)

// ReuseCache stores instances built for reused relationships.
// Entries are only added; Clear empties the cache between tests.
type ReuseCache interface {
	// Load returns the instance stored under key.
	Load(key ReuseKey) (any, bool)

	// Store saves the instance under key.
	Store(key ReuseKey, v any)

	// Clear removes all entries.
	Clear()

	// Len returns the number of entries.
	Len() int
}

// ReuseKey identifies a reused instance by its type and the values
// of its declared key attributes. Hash selects the cache slot; Values
// are compared on a hit so that colliding tuples stay apart.
type ReuseKey struct {
	Type   string
	Hash   uint64
	Values []any
}

// NewReuseKey hashes the key attribute values of an instance of typ.
// Values are hashed in order, so the same values under a different
// key declaration order give a different key.
func NewReuseKey(typ string, values ...any) (ReuseKey, error) {
	if values == nil {
		values = []any{}
	}
	h, err := hashstructure.Hash(values, hashstructure.FormatV2, nil)
	if err != nil {
		return ReuseKey{}, fmt.Errorf("forge: hashing reuse key of %s: %w", typ, err)
	}
	return ReuseKey{Type: typ, Hash: h, Values: values}, nil
}

// String returns the string representation of the reuse key.
func (k ReuseKey) String() string {
	return k.Type + ":" + strconv.FormatUint(k.Hash, 16)
}

type (
	slot struct {
		typ  string
		hash uint64
	}
	entry struct {
		values []any
		v      any
	}
)

// MemoryCache is an in-memory ReuseCache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[slot][]entry
	n       int
}

// NewReuseCache returns an empty in-memory cache.
func NewReuseCache() *MemoryCache {
	return &MemoryCache{entries: make(map[slot][]entry)}
}

func (k ReuseKey) slot() slot {
	return slot{typ: k.Type, hash: k.Hash}
}

func (k ReuseKey) matches(values []any) bool {
	return len(k.Values) == len(values) && (len(values) == 0 || reflect.DeepEqual(k.Values, values))
}

// Load implements ReuseCache.
func (c *MemoryCache) Load(key ReuseKey) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries[key.slot()] {
		if key.matches(e.values) {
			return e.v, true
		}
	}
	return nil, false
}

// Store implements ReuseCache.
func (c *MemoryCache) Store(key ReuseKey, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := key.slot()
	for i, e := range c.entries[s] {
		if key.matches(e.values) {
			c.entries[s][i].v = v
			return
		}
	}
	c.entries[s] = append(c.entries[s], entry{values: key.Values, v: v})
	c.n++
}

// Clear implements ReuseCache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.n = 0
}

// Len implements ReuseCache.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// GlobalCache is the process-wide cache used by reused relationships
// that are not declared local.
var GlobalCache ReuseCache = NewReuseCache()

var _ ReuseCache = (*MemoryCache)(nil)
