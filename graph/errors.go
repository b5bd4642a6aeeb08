package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for registration failures.
var (
	// ErrInvalidSchema indicates a model declaration error.
	ErrInvalidSchema = errors.New("forge: invalid schema")
	// ErrInvalidEdge indicates an edge declaration or pairing error.
	ErrInvalidEdge = errors.New("forge: invalid edge definition")
	// ErrUnknown indicates a reference to an undeclared field or edge.
	ErrUnknown = errors.New("forge: unknown reference")
)

// SchemaError represents a model declaration error.
type SchemaError struct {
	Type    string // Model type name
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("forge: schema error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(typeName, fieldName, message string, cause error) *SchemaError {
	return &SchemaError{
		Type:    typeName,
		Field:   fieldName,
		Message: message,
		Cause:   cause,
	}
}

// EdgeError represents an edge declaration or pairing error.
type EdgeError struct {
	From    string
	To      string
	Edge    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *EdgeError) Error() string {
	var b strings.Builder
	b.WriteString("forge: edge error")
	if e.Edge != "" {
		b.WriteString(" on edge ")
		b.WriteString(e.Edge)
	}
	if e.From != "" && e.To != "" {
		fmt.Fprintf(&b, " (%s -> %s)", e.From, e.To)
	} else if e.From != "" {
		b.WriteString(" from ")
		b.WriteString(e.From)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *EdgeError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for EdgeError.
func (e *EdgeError) Is(target error) bool {
	return target == ErrInvalidEdge
}

// NewEdgeError creates a new EdgeError.
func NewEdgeError(from, to, edgeName, message string, cause error) *EdgeError {
	return &EdgeError{
		From:    from,
		To:      to,
		Edge:    edgeName,
		Message: message,
		Cause:   cause,
	}
}

// UnknownError reports a reference to a field or edge the model
// does not declare.
type UnknownError struct {
	Kind string // "field", "edge" or "type"
	Ref  string
}

// Error implements the error interface.
func (e *UnknownError) Error() string {
	return fmt.Sprintf("forge: unknown %s %s", e.Kind, e.Ref)
}

// Is reports whether the target matches ErrUnknown.
func (e *UnknownError) Is(target error) bool {
	return target == ErrUnknown
}

// IsUnknown returns true if the error is an UnknownError.
func IsUnknown(err error) bool {
	return err != nil && errors.Is(err, ErrUnknown)
}
