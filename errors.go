package forge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/forge/schema/field"
)

// Sentinel errors for build failures.
var (
	// ErrUnresolvedAttachment is returned when an uplink has no forward
	// relationship paired with it at build time.
	ErrUnresolvedAttachment = errors.New("forge: missing attachment")

	// ErrCollectionShrink is returned when a collection is asked to hold
	// fewer elements than were already requested for it.
	ErrCollectionShrink = errors.New("forge: collection cannot shrink")

	// ErrKeyExhausted is returned when a Key provider runs out of attempts.
	ErrKeyExhausted = field.ErrKeyExhausted

	// ErrMissingAttribute is returned by careful setters when the
	// instance has no attribute with the given name.
	ErrMissingAttribute = errors.New("forge: missing attribute")

	// ErrTypeMismatch is returned when a supplied value does not fit the
	// field or relationship it was given for.
	ErrTypeMismatch = field.ErrTypeMismatch

	// ErrInvalidModifier is returned when a modifier is applied to a
	// relationship of the wrong kind.
	ErrInvalidModifier = errors.New("forge: invalid modifier")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("forge: invalid configuration")
)

// UnresolvedAttachmentError reports an uplink without a forward counterpart.
type UnresolvedAttachmentError struct {
	Type string // Owner of the uplink
	Edge string // Uplink name
}

// Error returns the error string.
func (e *UnresolvedAttachmentError) Error() string {
	return fmt.Sprintf("forge: uplink %s.%s is missing attachment: no forward relationship references it", e.Type, e.Edge)
}

// Is reports whether the target error matches ErrUnresolvedAttachment.
func (e *UnresolvedAttachmentError) Is(err error) bool {
	return err == ErrUnresolvedAttachment
}

// NewUnresolvedAttachmentError returns a new UnresolvedAttachmentError.
func NewUnresolvedAttachmentError(typ, edge string) *UnresolvedAttachmentError {
	return &UnresolvedAttachmentError{Type: typ, Edge: edge}
}

// IsUnresolvedAttachment returns true if the error is an UnresolvedAttachmentError.
func IsUnresolvedAttachment(err error) bool {
	if err == nil {
		return false
	}
	var e *UnresolvedAttachmentError
	return errors.As(err, &e) || errors.Is(err, ErrUnresolvedAttachment)
}

// ShrinkError reports a NumberOf request below the collection's
// already requested size.
type ShrinkError struct {
	Edge string // Collection, as Type.edge
	Want int    // Requested size
	Have int    // Elements already requested
}

// Error returns the error string.
func (e *ShrinkError) Error() string {
	return fmt.Sprintf("forge: number of %s elements (%d) can't be smaller than already exist (%d)", e.Edge, e.Want, e.Have)
}

// Is reports whether the target error matches ErrCollectionShrink.
func (e *ShrinkError) Is(err error) bool {
	return err == ErrCollectionShrink
}

// NewShrinkError returns a new ShrinkError.
func NewShrinkError(edge string, want, have int) *ShrinkError {
	return &ShrinkError{Edge: edge, Want: want, Have: have}
}

// IsShrink returns true if the error is a ShrinkError.
func IsShrink(err error) bool {
	if err == nil {
		return false
	}
	var e *ShrinkError
	return errors.As(err, &e) || errors.Is(err, ErrCollectionShrink)
}

// IsKeyExhausted returns true if a Key provider ran out of attempts.
func IsKeyExhausted(err error) bool {
	return err != nil && errors.Is(err, ErrKeyExhausted)
}

// MissingAttributeError reports a careful set of an unknown attribute.
type MissingAttributeError struct {
	Type string // Instance type
	Attr string // Attribute name
}

// Error returns the error string.
func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("forge: <%s> is missing attribute <%s>", e.Type, e.Attr)
}

// Is reports whether the target error matches ErrMissingAttribute.
func (e *MissingAttributeError) Is(err error) bool {
	return err == ErrMissingAttribute
}

// NewMissingAttributeError returns a new MissingAttributeError.
func NewMissingAttributeError(typ, attr string) *MissingAttributeError {
	return &MissingAttributeError{Type: typ, Attr: attr}
}

// IsMissingAttribute returns true if the error is a MissingAttributeError.
func IsMissingAttribute(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingAttributeError
	return errors.As(err, &e) || errors.Is(err, ErrMissingAttribute)
}

// TypeMismatchError reports a value or instance of the wrong type.
type TypeMismatchError struct {
	Ref  string // Field or relationship, as Type.name
	Want string
	Got  string
}

// Error returns the error string.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("forge: %s expects %s, got %s", e.Ref, e.Want, e.Got)
}

// Is reports whether the target error matches ErrTypeMismatch.
func (e *TypeMismatchError) Is(err error) bool {
	return err == ErrTypeMismatch
}

// NewTypeMismatchError returns a new TypeMismatchError.
func NewTypeMismatchError(ref, want, got string) *TypeMismatchError {
	return &TypeMismatchError{Ref: ref, Want: want, Got: got}
}

// IsTypeMismatch returns true if the error reports a type mismatch.
func IsTypeMismatch(err error) bool {
	return err != nil && errors.Is(err, ErrTypeMismatch)
}

// ModifierError reports a modifier that cannot apply to its target.
type ModifierError struct {
	Modifier string // Modifier name, e.g. "NumberOf"
	Ref      string // Target, as Type.name
	Message  string
	Cause    error
}

// Error returns the error string.
func (e *ModifierError) Error() string {
	var b strings.Builder
	b.WriteString("forge: ")
	b.WriteString(e.Modifier)
	if e.Ref != "" {
		b.WriteString("(")
		b.WriteString(e.Ref)
		b.WriteString(")")
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
func (e *ModifierError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches ErrInvalidModifier.
func (e *ModifierError) Is(err error) bool {
	return err == ErrInvalidModifier
}

// NewModifierError returns a new ModifierError.
func NewModifierError(modifier, ref, message string, cause error) *ModifierError {
	return &ModifierError{Modifier: modifier, Ref: ref, Message: message, Cause: cause}
}

// IsModifierError returns true if the error is a ModifierError.
func IsModifierError(err error) bool {
	if err == nil {
		return false
	}
	var e *ModifierError
	return errors.As(err, &e)
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("forge: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("forge: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target error matches ErrInvalidConfig.
func (e *ConfigError) Is(err error) bool {
	return err == ErrInvalidConfig
}

// NewConfigError returns a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}
