/*
Package shared holds the building blocks every subdomain uses: money, errors,
events, the aggregate contract, and the unit of work.

Errors:
  - Each subdomain declares sentinel errors for errors.Is checks.
  - DomainError wraps a sentinel with entity, field, message and optional details,
    and captures the call stack at construction; formatting is deferred to Stack().
  - No transport concepts (HTTP status) live here.
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// Sentinel Errors
// ============================================================================

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ============================================================================
// Domain Error
// ============================================================================

// DomainError structured error carrying business context and the creation stack
type DomainError struct {
	// Err underlying sentinel, matched with errors.Is
	Err error

	// Entity name of the entity involved ("product", "order", ...)
	Entity string

	// Message human readable description, safe to show to the caller
	Message string

	// Field optional offending input field
	Field string

	// Details optional machine readable context (e.g. "available": 2)
	Details map[string]any

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack formats the captured frames on demand
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// WithField sets the offending field
func (e *DomainError) WithField(field string) *DomainError {
	e.Field = field
	return e
}

// WithDetail attaches one detail entry
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewDomainError wraps a sentinel. The stack starts at the caller.
func NewDomainError(sentinel error, entity, message string) *DomainError {
	return &DomainError{
		Err:     sentinel,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// ============================================================================
// Stack helpers
// ============================================================================

// CaptureStack records the current call stack
// skip: frames to skip (3 skips Callers, CaptureStack and the constructor)
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack renders at most ten non-runtime frames
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) >= 10 {
			break
		}
	}
	return result
}

// ============================================================================
// Generic constructors
// ============================================================================

func NewNotFoundError(entity, id string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found: " + id,
		stack:   CaptureStack(3),
	}
}

func NewConflictError(entity, message string) error {
	return &DomainError{
		Err:     ErrConflict,
		Entity:  entity,
		Message: message,
		stack:   CaptureStack(3),
	}
}

func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

func NewForbiddenError(entity, reason string) error {
	return &DomainError{
		Err:     ErrForbidden,
		Entity:  entity,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// Stacker errors that can report where they were created
type Stacker interface {
	Stack() []string
}
