package field

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrTypeMismatch indicates a value of the wrong type.
	ErrTypeMismatch = errors.New("forge: type mismatch")
	// ErrKeyExhausted indicates a Key provider ran out of attempts.
	ErrKeyExhausted = errors.New("forge: key attempts exhausted")
)

// MismatchError reports a value that cannot be stored in a field.
type MismatchError struct {
	Ref  string
	Want reflect.Type
	Got  any
}

// Error returns the error string.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("forge: %s expects %s, got %T", e.Ref, e.Want, e.Got)
}

// Is reports whether the target error matches ErrTypeMismatch.
func (e *MismatchError) Is(err error) bool {
	return err == ErrTypeMismatch
}

// NewMismatchError returns a new MismatchError.
func NewMismatchError(ref string, want reflect.Type, got any) *MismatchError {
	return &MismatchError{Ref: ref, Want: want, Got: got}
}

// ExhaustedError is returned by Key when no fresh value was found.
type ExhaustedError struct {
	Field    string
	Attempts int
}

// Error returns the error string.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("forge: can't get unique value for %s: %d attempts exhausted", e.Field, e.Attempts)
}

// Is reports whether the target error matches ErrKeyExhausted.
func (e *ExhaustedError) Is(err error) bool {
	return err == ErrKeyExhausted
}
