package mixin

import (
	"time"

	"github.com/syssam/forge"
	"github.com/syssam/forge/schema/field"
)

// Schema is the default implementation for the forge.Mixin interface.
// It should be embedded in all custom mixin definitions.
type Schema struct{}

// Fields returns the fields of the mixin.
func (Schema) Fields() []forge.Field { return nil }

// Edges returns the edges of the mixin.
func (Schema) Edges() []forge.Edge { return nil }

var _ forge.Mixin = (*Schema)(nil)

// ID adds an "id" field filled with a fresh UUID string.
type ID[O any] struct {
	Schema
	Ref func(*O) *string
}

// Fields returns the id field.
func (m ID[O]) Fields() []forge.Field {
	return []forge.Field{
		field.Attr("id", m.Ref).From(field.Key(field.UID())).Comment("Unique identifier"),
	}
}

// Timestamps adds created_at and updated_at fields set to the build time.
// Either accessor may be nil to skip its field.
type Timestamps[O any] struct {
	Schema
	Created func(*O) *time.Time
	Updated func(*O) *time.Time
}

// Fields returns the timestamp fields.
func (m Timestamps[O]) Fields() []forge.Field {
	var fields []forge.Field
	if m.Created != nil {
		fields = append(fields, field.Attr("created_at", m.Created).From(field.Now()))
	}
	if m.Updated != nil {
		fields = append(fields, field.Attr("updated_at", m.Updated).From(field.Now()))
	}
	return fields
}

// Comment wraps a mixin and sets the comment of all its fields and edges.
func Comment(m forge.Mixin, comment string) forge.Mixin {
	return commenter{Mixin: m, comment: comment}
}

type commenter struct {
	forge.Mixin
	comment string
}

func (c commenter) Fields() []forge.Field {
	fields := c.Mixin.Fields()
	for _, f := range fields {
		f.Descriptor().Comment = c.comment
	}
	return fields
}

func (c commenter) Edges() []forge.Edge {
	edges := c.Mixin.Edges()
	for _, e := range edges {
		e.Descriptor().Comment = c.comment
	}
	return edges
}
