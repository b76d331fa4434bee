package entity

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrUnknownEntity  = errors.New("unknown entity")
	ErrWrongKind      = errors.New("entity has wrong kind")
	ErrInvalidCount   = errors.New("invalid count")
	ErrMalformedAxiom = errors.New("malformed axiom")
	ErrInverseClash   = errors.New("role already has a different inverse")
)

// Error provides structured error information for entity and axiom checks.
type Error struct {
	Op      string // Operation that failed (e.g., "normalize", "index")
	Entity  string // Entity kind (e.g., "class", "role", "axiom")
	ID      ID     // Entity ID (if applicable)
	HasID   bool
	Cause   error  // Underlying error
	Context string // Additional context
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.HasID {
		if e.Context != "" {
			return fmt.Sprintf("%s %s %d (%s): %v", e.Op, e.Entity, uint32(e.ID), e.Context, e.Cause)
		}
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Entity, uint32(e.ID), e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Entity, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorBuilder provides a fluent interface for building Errors.
type ErrorBuilder struct {
	err Error
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: Error{Op: op}}
}

// Class sets the entity to "class" with the given ID.
func (b *ErrorBuilder) Class(id ID) *ErrorBuilder {
	b.err.Entity = "class"
	b.err.ID = id
	b.err.HasID = true
	return b
}

// Role sets the entity to "role" with the given ID.
func (b *ErrorBuilder) Role(id ID) *ErrorBuilder {
	b.err.Entity = "role"
	b.err.ID = id
	b.err.HasID = true
	return b
}

// Individual sets the entity to "individual" with the given ID.
func (b *ErrorBuilder) Individual(id ID) *ErrorBuilder {
	b.err.Entity = "individual"
	b.err.ID = id
	b.err.HasID = true
	return b
}

// Axiom sets the entity to "axiom" with the axiom's rendering as context.
func (b *ErrorBuilder) Axiom(rendered string) *ErrorBuilder {
	b.err.Entity = "axiom"
	b.err.Context = rendered
	return b
}

// Entity sets a free-form entity name.
func (b *ErrorBuilder) Entity(name string) *ErrorBuilder {
	b.err.Entity = name
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(ctx string) *ErrorBuilder {
	b.err.Context = ctx
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Build returns the constructed Error.
func (b *ErrorBuilder) Build() *Error {
	return &b.err
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// UnknownEntityError creates an unknown entity error for the given kind.
func UnknownEntityError(op string, kind Kind, id ID) error {
	return NewError(op).Entity(kind.String()).idOf(id).Cause(ErrUnknownEntity).Err()
}

// WrongKindError reports an identifier registered under another kind.
func WrongKindError(op string, want Kind, id ID, got Kind) error {
	return NewError(op).Entity(want.String()).idOf(id).
		Context("registered as " + got.String()).Cause(ErrWrongKind).Err()
}

func (b *ErrorBuilder) idOf(id ID) *ErrorBuilder {
	b.err.ID = id
	b.err.HasID = true
	return b
}

// IsUnknownEntity returns true if the error reports an unregistered identifier.
func IsUnknownEntity(err error) bool {
	return errors.Is(err, ErrUnknownEntity) || errors.Is(err, ErrWrongKind)
}
