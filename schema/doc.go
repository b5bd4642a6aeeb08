// Package schema holds the building blocks for declaring forge models.
//
// A model is a struct embedding forge.Schema. It declares its scalar
// fields and their value providers with Fields, its relationships with
// Edges, and reusable parts with Mixin:
//
//   - [field]: field builders and value providers
//   - [edge]: relationship builders (one, many, maybe, uplink)
//   - [mixin]: reusable fields and edges
//
// # Quick Start
//
//	type Squad struct {
//	    forge.Schema
//	    ID     string
//	    Name   string
//	    Units  []*Unit
//	    Leader *Hero
//	}
//
//	func (Squad) Mixin() []forge.Mixin {
//	    return []forge.Mixin{
//	        mixin.ID[Squad]{Ref: func(s *Squad) *string { return &s.ID }},
//	    }
//	}
//
//	func (Squad) Fields() []forge.Field {
//	    return []forge.Field{
//	        field.Attr("name", func(s *Squad) *string { return &s.Name }).
//	            From(field.RandomString("squad-%d", 1, 1000)),
//	    }
//	}
//
//	func (Squad) Edges() []forge.Edge {
//	    return []forge.Edge{
//	        edge.Many("units", func(s *Squad) *[]*Unit { return &s.Units }).Count(3).Ref("squad"),
//	        edge.One("leader", func(s *Squad) **Hero { return &s.Leader }).Reused("epic_name"),
//	    }
//	}
//
//	func (Unit) Edges() []forge.Edge {
//	    return []forge.Edge{
//	        edge.Uplink("squad", func(u *Unit) **Squad { return &u.Squad }),
//	    }
//	}
//
// # Relationships
//
// One and Many edges build their targets. An Uplink receives the
// instance that built its owner; it pairs with the forward edge whose
// Ref names it, or names that edge with its own Ref. Building a model
// that sits below an uplink builds its parent too, along with the
// parent's other children.
//
// # Values
//
// Providers fill fields left at their zero value once the instance
// graph is linked and modified:
//
//	field.Attr("hp", func(u *Unit) *int { return &u.HP }).From(field.Random(1, 100))
//	field.Attr("code", func(u *Unit) *string { return &u.Code }).From(field.Key(field.RandomString("u%d", 1, 1000000)))
//	field.Attr("rank", func(u *Unit) *string { return &u.Rank }).From(field.Lambda(rankOf))
package schema
