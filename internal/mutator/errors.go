package mutator

import (
	"errors"
	"fmt"
	"strings"
)

// Code categorizes mutator errors.
type Code string

const (
	// CodeValidation indicates caller input failed validation.
	CodeValidation Code = "VALIDATION"

	// CodeNotFound indicates no record has the requested id.
	CodeNotFound Code = "NOT_FOUND"

	// CodeNotConfirmed indicates a destructive call lacked confirmation.
	CodeNotConfirmed Code = "NOT_CONFIRMED"

	// CodeTransition indicates a state-machine move that is not allowed.
	CodeTransition Code = "INVALID_TRANSITION"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error is returned by every rejected mutator call.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Entity names the collection the operation targeted, e.g. "Customer".
	Entity string

	// ID is the targeted record id, 0 for creates.
	ID int64

	// Fields lists failing fields for CodeValidation.
	Fields []FieldError
}

// Sentinels for errors.Is. They match any *Error with the same Code.
var (
	ErrValidation        = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrNotFound          = &Error{Code: CodeNotFound, Message: "record not found"}
	ErrNotConfirmed      = &Error{Code: CodeNotConfirmed, Message: "confirmation required"}
	ErrInvalidTransition = &Error{Code: CodeTransition, Message: "invalid status transition"}
)

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if e.Entity != "" && e.ID != 0 {
		fmt.Fprintf(&b, " (%s %d)", e.Entity, e.ID)
	} else if e.Entity != "" {
		fmt.Fprintf(&b, " (%s)", e.Entity)
	}
	for i, f := range e.Fields {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s %s", f.Field, f.Reason)
	}
	return b.String()
}

// Is matches sentinels by Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var me *Error
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// IsNotFound returns true if err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation returns true if err is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsTransition returns true if err is an invalid-transition error.
func IsTransition(err error) bool { return errors.Is(err, ErrInvalidTransition) }

// IsNotConfirmed returns true if err is a missing-confirmation error.
func IsNotConfirmed(err error) bool { return errors.Is(err, ErrNotConfirmed) }

func notFound(entity string, id int64) *Error {
	return &Error{Code: CodeNotFound, Message: "record not found", Entity: entity, ID: id}
}

func notConfirmed(entity string, id int64) *Error {
	return &Error{Code: CodeNotConfirmed, Message: "operation requires confirmation", Entity: entity, ID: id}
}

func badTransition(entity string, id int64, from, to string) *Error {
	return &Error{
		Code:    CodeTransition,
		Message: fmt.Sprintf("cannot move from %s to %s", from, to),
		Entity:  entity,
		ID:      id,
	}
}

func invalid(entity string, id int64, fields ...FieldError) *Error {
	return &Error{Code: CodeValidation, Message: "validation failed", Entity: entity, ID: id, Fields: fields}
}
