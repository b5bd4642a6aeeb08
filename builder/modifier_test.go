package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/forge"
	"github.com/syssam/forge/graph"
	"github.com/syssam/forge/modifier"
	"github.com/syssam/forge/schema/edge"
	"github.com/syssam/forge/schema/field"
)

type (
	Leaf struct {
		forge.Schema
		Value int
		Foo   int
		Bar   int
	}
	Stem struct {
		forge.Schema
		Leaf  *Leaf
		Value int
	}
	Root struct {
		forge.Schema
		Stem *Stem
	}
	Bush struct {
		forge.Schema
		Leaves []*Leaf
	}
)

func (Leaf) Fields() []forge.Field {
	return []forge.Field{
		field.Attr("value", func(l *Leaf) *int { return &l.Value }).Fixed(1),
	}
}

func (Stem) Edges() []forge.Edge {
	return []forge.Edge{edge.One("leaf", func(s *Stem) **Leaf { return &s.Leaf })}
}

func (Root) Edges() []forge.Edge {
	return []forge.Edge{edge.One("stem", func(r *Root) **Stem { return &r.Stem })}
}

func (Bush) Edges() []forge.Edge {
	return []forge.Edge{edge.Many("leaves", func(b *Bush) *[]*Leaf { return &b.Leaves })}
}

// TestChains tests plain forward relationships.
func TestChains(t *testing.T) {
	t.Parallel()

	t.Run("single", func(t *testing.T) {
		t.Parallel()
		l := build[Leaf](t)
		assert.Equal(t, 1, l.Value)
	})

	t.Run("longer", func(t *testing.T) {
		t.Parallel()
		r := build[Root](t)
		require.NotNil(t, r.Stem)
		require.NotNil(t, r.Stem.Leaf)
		assert.Equal(t, 1, r.Stem.Leaf.Value)
	})

	t.Run("collection", func(t *testing.T) {
		t.Parallel()
		b := build[Bush](t)
		require.Len(t, b.Leaves, 1)
		assert.NotNil(t, b.Leaves[0])
	})
}

// TestDoes tests instance modifiers calling functions.
func TestDoes(t *testing.T) {
	t.Parallel()
	set8 := modifier.Instances[Leaf]().Does(func(l *Leaf) { l.Value = 8 })

	t.Run("root", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 8, build[Leaf](t, set8).Value)
	})

	t.Run("over_collection", func(t *testing.T) {
		t.Parallel()
		b := build[Bush](t, modifier.NumberOf(edge.Of[Bush]("leaves"), 3), set8)
		require.Len(t, b.Leaves, 3)
		for _, l := range b.Leaves {
			assert.Equal(t, 8, l.Value)
		}
	})

	t.Run("other_type", func(t *testing.T) {
		t.Parallel()
		s := build[Stem](t, modifier.Instances[Stem]().Does(func(s *Stem) { s.Value = 2 }))
		assert.Equal(t, 2, s.Value)
		assert.Equal(t, 1, s.Leaf.Value)
	})
}

// TestGiven tests supplying instances for single edges.
func TestGiven(t *testing.T) {
	t.Parallel()
	leaf := edge.Of[Stem]("leaf")

	t.Run("direct", func(t *testing.T) {
		t.Parallel()
		l := &Leaf{Value: 7}
		assert.Same(t, l, build[Stem](t, modifier.Given(leaf, l)).Leaf)
	})

	t.Run("deeper", func(t *testing.T) {
		t.Parallel()
		l := &Leaf{}
		r := build[Root](t, modifier.Given(leaf, l))
		assert.Same(t, l, r.Stem.Leaf)
	})

	t.Run("chains", func(t *testing.T) {
		t.Parallel()
		r := build[Root](t)
		r2 := build[Root](t, modifier.Given(leaf, r.Stem.Leaf))
		assert.Same(t, r.Stem.Leaf, r2.Stem.Leaf)
		r3 := build[Root](t, modifier.Given(edge.Of[Root]("stem"), r.Stem))
		assert.Same(t, r.Stem, r3.Stem)
	})

	t.Run("not_kept", func(t *testing.T) {
		t.Parallel()
		r := graph.NewRegistry()
		c := forge.NewReuseCache()
		l := &Leaf{}
		s1, err := newBuilder[Stem](r, c).With(modifier.Given(leaf, l)).Build()
		require.NoError(t, err)
		s2, err := newBuilder[Stem](r, c).Build()
		require.NoError(t, err)
		assert.Same(t, l, s1.Leaf)
		assert.NotSame(t, l, s2.Leaf)
	})

	t.Run("not_modified", func(t *testing.T) {
		t.Parallel()
		l := &Leaf{Value: 1}
		s := build[Stem](t,
			modifier.Given(leaf, l),
			modifier.Instances[Leaf]().Sets(modifier.Attrs{"value": 5}),
		)
		assert.Same(t, l, s.Leaf)
		assert.Equal(t, 1, s.Leaf.Value)
	})

	t.Run("zero_values_kept", func(t *testing.T) {
		t.Parallel()
		l := &Leaf{}
		s := build[Stem](t, modifier.Given(leaf, l))
		assert.Zero(t, s.Leaf.Value)
	})

	t.Run("field", func(t *testing.T) {
		t.Parallel()
		b := build[Bush](t,
			modifier.NumberOf(edge.Of[Bush]("leaves"), 2),
			modifier.Given(field.Of[Leaf]("value"), 0),
		)
		for _, l := range b.Leaves {
			assert.Zero(t, l.Value)
		}
	})

	t.Run("wrong_type", func(t *testing.T) {
		t.Parallel()
		err := buildErr[Stem](t, modifier.Given(leaf, 8))
		assert.True(t, forge.IsTypeMismatch(err))
	})

	t.Run("collection", func(t *testing.T) {
		t.Parallel()
		err := buildErr[Bush](t, modifier.Given(edge.Of[Bush]("leaves"), &Leaf{}))
		assert.True(t, forge.IsModifierError(err))
	})
}

// TestHaving tests sizing and filling collections.
func TestHaving(t *testing.T) {
	t.Parallel()
	leaves := edge.Of[Bush]("leaves")

	t.Run("number_of", func(t *testing.T) {
		t.Parallel()
		r := graph.NewRegistry()
		c := forge.NewReuseCache()
		b1, err := newBuilder[Bush](r, c).Build()
		require.NoError(t, err)
		b2, err := newBuilder[Bush](r, c).With(modifier.NumberOf(leaves, 3)).Build()
		require.NoError(t, err)
		b3, err := newBuilder[Bush](r, c).Build()
		require.NoError(t, err)

		assert.Len(t, b1.Leaves, 1)
		assert.Len(t, b2.Leaves, 3)
		assert.Len(t, b3.Leaves, 1)
		assert.NotSame(t, b2.Leaves[0], b2.Leaves[1])
		assert.NotSame(t, b2.Leaves[0], b2.Leaves[2])
	})

	t.Run("instances", func(t *testing.T) {
		t.Parallel()
		mine := &Leaf{Value: 42}
		b := build[Bush](t, modifier.HavingIn(leaves, mine))
		assert.Contains(t, b.Leaves, mine)

		b2 := build[Bush](t, modifier.HavingIn(leaves, mine), modifier.NumberOf(leaves, 3))
		assert.Contains(t, b2.Leaves, mine)
		assert.Len(t, b2.Leaves, 3)
		assert.Equal(t, 42, mine.Value)
	})

	t.Run("shrink", func(t *testing.T) {
		t.Parallel()
		err := buildErr[Bush](t, modifier.HavingIn(leaves, 2), modifier.NumberOf(leaves, 1))
		require.Error(t, err)
		assert.True(t, forge.IsShrink(err))
		assert.ErrorIs(t, err, forge.ErrCollectionShrink)
	})

	t.Run("over_default", func(t *testing.T) {
		t.Parallel()
		assert.Len(t, build[Bush](t, modifier.HavingIn(leaves, 2)).Leaves, 3)
		assert.Len(t, build[Bush](t, modifier.HavingIn(leaves, 2), modifier.NumberOf(leaves, 2)).Leaves, 2)
		assert.Empty(t, build[Bush](t, modifier.NumberOf(leaves, 0)).Leaves)
	})

	t.Run("instance_graph", func(t *testing.T) {
		t.Parallel()
		r := graph.NewRegistry()
		c := forge.NewReuseCache()
		leaf, g, err := newBuilder[Leaf](r, c).BuildWithGraph()
		require.NoError(t, err)
		assert.Equal(t, []*Leaf{leaf}, graph.Of[Leaf](g))
		b, err := newBuilder[Bush](r, c).With(modifier.HavingIn(leaves, g)).Build()
		require.NoError(t, err)
		assert.Contains(t, b.Leaves, leaf)
		assert.Len(t, b.Leaves, 2)
	})
}

type (
	Slot struct {
		forge.Schema
		A    int
		Rack *Rack
	}
	Rack struct {
		forge.Schema
		Values []*Slot
	}
)

func (Slot) Edges() []forge.Edge {
	return []forge.Edge{edge.Uplink("rack", func(s *Slot) **Rack { return &s.Rack })}
}

func (Rack) Edges() []forge.Edge {
	return []forge.Edge{edge.Many("values", func(r *Rack) *[]*Slot { return &r.Values }).Ref("rack")}
}

func countSlots(slots []*Slot, a int) int {
	n := 0
	for _, s := range slots {
		if s.A == a {
			n++
		}
	}
	return n
}

// TestOneOf tests routing modifiers to single collection elements.
func TestOneOf(t *testing.T) {
	t.Parallel()
	values := edge.Of[Rack]("values")
	sets := func(a int) graph.Modifier {
		return modifier.Instances[Slot]().Sets(modifier.Attrs{"a": a})
	}

	t.Run("claims_distinct_elements", func(t *testing.T) {
		t.Parallel()
		r := build[Rack](t,
			modifier.NumberOf(values, 3),
			modifier.OneOf(values, sets(8)),
			modifier.OneOf(values, sets(5)),
		)
		require.Len(t, r.Values, 3)
		assert.Equal(t, 1, countSlots(r.Values, 8))
		assert.Equal(t, 1, countSlots(r.Values, 5))
		assert.Equal(t, 1, countSlots(r.Values, 0))
		for _, s := range r.Values {
			assert.Same(t, r, s.Rack)
		}
	})

	t.Run("from_element", func(t *testing.T) {
		t.Parallel()
		s := build[Slot](t,
			modifier.NumberOf(values, 2),
			modifier.OneOf(values, sets(1)),
			modifier.OneOf(values, sets(2)),
		)
		r := s.Rack
		require.NotNil(t, r)
		require.Len(t, r.Values, 2)
		assert.Same(t, s, r.Values[0])
		assert.Equal(t, 1, countSlots(r.Values, 0))
		assert.Equal(t, 1, countSlots(r.Values, 1))
		assert.Zero(t, countSlots(r.Values, 2))
	})

	t.Run("more_than_elements", func(t *testing.T) {
		t.Parallel()
		r := build[Rack](t,
			modifier.OneOf(values, sets(3)),
			modifier.OneOf(values, sets(4)),
		)
		require.Len(t, r.Values, 1)
		assert.Equal(t, 3, r.Values[0].A)
	})

	t.Run("another", func(t *testing.T) {
		t.Parallel()
		r := build[Rack](t,
			modifier.NumberOf(values, 1),
			modifier.Another(values, sets(4)),
			modifier.Another(values, sets(28)),
		)
		require.Len(t, r.Values, 3)
		assert.Equal(t, 1, countSlots(r.Values, 0))
		assert.Equal(t, 1, countSlots(r.Values, 4))
		assert.Equal(t, 1, countSlots(r.Values, 28))
	})

	t.Run("inner_modifiers_win", func(t *testing.T) {
		t.Parallel()
		r := build[Rack](t,
			modifier.NumberOf(values, 2),
			sets(6),
			modifier.OneOf(values, sets(9)),
		)
		assert.Equal(t, 1, countSlots(r.Values, 9))
		assert.Equal(t, 1, countSlots(r.Values, 6))
	})
}

type (
	Lamp struct {
		forge.Schema
		Shade *Shade
	}
	Shade struct {
		forge.Schema
		Lamp *Lamp
	}
	Desk struct {
		forge.Schema
		Lamp *Lamp
	}
)

func (Lamp) Edges() []forge.Edge {
	return []forge.Edge{edge.Maybe("shade", func(l *Lamp) **Shade { return &l.Shade }).Ref("lamp")}
}

func (Shade) Edges() []forge.Edge {
	return []forge.Edge{edge.Uplink("lamp", func(s *Shade) **Lamp { return &s.Lamp })}
}

func (Desk) Edges() []forge.Edge {
	return []forge.Edge{edge.One("lamp", func(d *Desk) **Lamp { return &d.Lamp }).Enabled()}
}

// TestMaybe tests optional relationships.
func TestMaybe(t *testing.T) {
	t.Parallel()
	shade := edge.Of[Lamp]("shade")

	t.Run("disabled_by_default", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, build[Lamp](t).Shade)
	})

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()
		l := build[Lamp](t, modifier.Enabled(shade))
		require.NotNil(t, l.Shade)
		assert.Same(t, l, l.Shade.Lamp)
	})

	t.Run("enabled_from_child", func(t *testing.T) {
		t.Parallel()
		s := build[Shade](t, modifier.Enabled(shade))
		require.NotNil(t, s.Lamp)
		assert.Same(t, s, s.Lamp.Shade)
	})

	t.Run("disabled_from_child", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, build[Shade](t).Lamp)
	})

	t.Run("enabled_by_default", func(t *testing.T) {
		t.Parallel()
		assert.NotNil(t, build[Desk](t).Lamp)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		r := graph.NewRegistry()
		c := forge.NewReuseCache()
		d1, err := newBuilder[Desk](r, c).With(modifier.Disabled(edge.Of[Desk]("lamp"))).Build()
		require.NoError(t, err)
		d2, err := newBuilder[Desk](r, c).Build()
		require.NoError(t, err)
		assert.Nil(t, d1.Lamp)
		assert.NotNil(t, d2.Lamp)
	})

	t.Run("required", func(t *testing.T) {
		t.Parallel()
		err := buildErr[Stem](t, modifier.Disabled(edge.Of[Stem]("leaf")))
		assert.True(t, forge.IsModifierError(err))
	})
}

type Careful struct {
	forge.Schema
	Ololo  int
	Hahaha int
}

// TestSets tests setting attributes on built instances.
func TestSets(t *testing.T) {
	t.Parallel()

	t.Run("sets", func(t *testing.T) {
		t.Parallel()
		c := build[Careful](t, modifier.Instances[Careful]().Sets(modifier.Attrs{"ololo": 1, "hahaha": 2, "unknown": 3}))
		assert.Equal(t, 1, c.Ololo)
		assert.Equal(t, 2, c.Hahaha)
	})

	t.Run("carefully", func(t *testing.T) {
		t.Parallel()
		c := build[Careful](t, modifier.Instances[Careful]().CarefullySets(modifier.Attrs{"ololo": 1, "hahaha": 2}))
		assert.Equal(t, 1, c.Ololo)
		assert.Equal(t, 2, c.Hahaha)
	})

	t.Run("carefully_fails", func(t *testing.T) {
		t.Parallel()
		err := buildErr[Careful](t, modifier.Instances[Careful]().CarefullySets(modifier.Attrs{"foo": "bar"}))
		require.Error(t, err)
		assert.True(t, forge.IsMissingAttribute(err))
		assert.Contains(t, err.Error(), "foo")
		assert.Contains(t, err.Error(), "missing")
	})

	t.Run("values", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 1, build[Careful](t, modifier.Values[Careful](modifier.Attrs{"ololo": 1})).Ololo)
		assert.Equal(t, 3, build[Careful](t, modifier.Values[Careful](modifier.Attrs{"Hahaha": 3})).Hahaha)
	})

	t.Run("overrides_provider", func(t *testing.T) {
		t.Parallel()
		l := build[Leaf](t, modifier.Values[Leaf](modifier.Attrs{"value": 0}))
		assert.Zero(t, l.Value)
	})
}

// TestFlattenedItems tests the ways of passing modifiers to a builder.
func TestFlattenedItems(t *testing.T) {
	t.Parallel()
	foo := modifier.Instances[Leaf]().Sets(modifier.Attrs{"foo": 1})
	bar := modifier.Instances[Leaf]().Sets(modifier.Attrs{"bar": 1})

	tests := []struct {
		name  string
		items []any
	}{
		{name: "args", items: []any{foo, bar}},
		{name: "slice", items: []any{[]graph.Modifier{foo, bar}}},
		{name: "slices", items: []any{[]graph.Modifier{foo}, []graph.Modifier{bar}}},
		{name: "mixed", items: []any{[]any{foo}, bar}},
		{name: "func", items: []any{func() []graph.Modifier { return []graph.Modifier{foo, bar} }}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := build[Stem](t, tt.items...)
			assert.Equal(t, 1, s.Leaf.Foo)
			assert.Equal(t, 1, s.Leaf.Bar)
		})
	}

	t.Run("bad_item", func(t *testing.T) {
		t.Parallel()
		err := buildErr[Stem](t, "leaf")
		assert.True(t, forge.IsModifierError(err))
	})
}

type Gauge struct {
	forge.Schema
	A int
	B int
}

func (Gauge) Fields() []forge.Field {
	return []forge.Field{
		field.Attr("b", func(g *Gauge) *int { return &g.B }).From(field.Random(1, 5)),
		field.Attr("a", func(g *Gauge) *int { return &g.A }).From(field.Lambda(func(*Gauge) int { return 1 })),
	}
}

// TestLambda tests replacing lambda providers for one build.
func TestLambda(t *testing.T) {
	t.Parallel()
	a := field.Of[Gauge]("a")

	t.Run("changes_function", func(t *testing.T) {
		t.Parallel()
		g := build[Gauge](t, modifier.Lambda(a, func(*Gauge) int { return 2 }))
		assert.Equal(t, 2, g.A)
	})

	t.Run("function_is_set_back", func(t *testing.T) {
		t.Parallel()
		r := graph.NewRegistry()
		c := forge.NewReuseCache()
		g1, err := newBuilder[Gauge](r, c).With(modifier.Lambda(a, func(*Gauge) int { return 2 })).Build()
		require.NoError(t, err)
		g2, err := newBuilder[Gauge](r, c).Build()
		require.NoError(t, err)
		assert.Equal(t, 2, g1.A)
		assert.Equal(t, 1, g2.A)
	})

	t.Run("sees_instance", func(t *testing.T) {
		t.Parallel()
		g := build[Gauge](t, modifier.Lambda(a, func(g *Gauge) int { return g.B * 10 }))
		assert.Equal(t, g.B*10, g.A)
	})

	t.Run("not_lambda", func(t *testing.T) {
		t.Parallel()
		err := buildErr[Gauge](t, modifier.Lambda(field.Of[Gauge]("b"), func(*Gauge) int { return 2 }))
		assert.True(t, forge.IsTypeMismatch(err))
	})
}

// TestInspect tests looking at the linked graph before values are set.
func TestInspect(t *testing.T) {
	t.Parallel()
	var (
		instances int
		value     int
	)
	b := build[Bush](t,
		modifier.NumberOf(edge.Of[Bush]("leaves"), 2),
		modifier.Inspect(func(g *graph.Objects) error {
			instances = g.Len()
			value = graph.Of[Leaf](g)[0].Value
			return nil
		}),
	)
	assert.Len(t, b.Leaves, 2)
	assert.Equal(t, 3, instances)
	assert.Zero(t, value)
	assert.Equal(t, 1, b.Leaves[0].Value)
}
