// Package forge declares the contracts shared by the fixture builder packages.
//
// A model is a plain Go struct whose schema is declared with value-receiver
// methods, the same way a schema is declared for code generation:
//
//	type Squad struct {
//	    forge.Schema
//	    Name  string
//	    Units []*Unit
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
//	    }
//	}
//
// The graph package turns these declarations into the model graph, and the
// builder package expands that graph into populated instances.
package forge

import (
	"github.com/syssam/forge/schema/edge"
	"github.com/syssam/forge/schema/field"
)

type (
	// Interface is implemented by every model that declares a schema.
	// Models embed Schema to inherit empty defaults.
	Interface interface {
		// Fields returns the value-producing fields of the model.
		Fields() []Field
		// Edges returns the relationships of the model.
		Edges() []Edge
		// Mixin returns reusable schema parts merged into the model.
		Mixin() []Mixin
	}

	// Field is implemented by field builders.
	Field interface {
		Descriptor() *field.Descriptor
	}

	// Edge is implemented by edge builders.
	Edge interface {
		Descriptor() *edge.Descriptor
	}

	// Mixin is a reusable set of fields and edges.
	Mixin interface {
		Fields() []Field
		Edges() []Edge
	}

	// Schema is the default implementation of Interface.
	Schema struct{}
)

// Fields returns nil.
func (Schema) Fields() []Field { return nil }

// Edges returns nil.
func (Schema) Edges() []Edge { return nil }

// Mixin returns nil.
func (Schema) Mixin() []Mixin { return nil }

var _ Interface = (*Schema)(nil)
