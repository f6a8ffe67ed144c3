// Package apperror defines the application error taxonomy shared by the
// storage, service and handler layers. Handlers inspect the kind of an
// error to decide between re-rendering a form, redirecting with a notice,
// or showing the generic failure page.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	// Unknown is the zero value for unclassified errors.
	Unknown Kind = iota
	// Validation marks bad form input.
	Validation
	// Conflict marks a uniqueness violation, e.g. a duplicate username.
	Conflict
	// Auth marks a failed credential check. The message never reveals
	// whether the username or the password was wrong.
	Auth
	// Unauthorized marks a request with no session where one is required.
	Unauthorized
	// Forbidden marks a request by an authenticated user against a
	// resource they do not own.
	Forbidden
	// NotFound marks a missing row.
	NotFound
	// NoNeighbor marks a move with no item at the adjacent position.
	NoNeighbor
	// Database marks a storage-layer failure.
	Database
	// Internal marks any other unexpected failure.
	Internal
)

// Error is the application error type. It carries a user-facing message
// and optionally wraps an underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NewValidation creates a Validation error.
func NewValidation(message string, err error) *Error { return New(Validation, message, err) }

// NewConflict creates a Conflict error.
func NewConflict(message string, err error) *Error { return New(Conflict, message, err) }

// NewAuth creates an Auth error.
func NewAuth(message string, err error) *Error { return New(Auth, message, err) }

// NewUnauthorized creates an Unauthorized error.
func NewUnauthorized(message string, err error) *Error { return New(Unauthorized, message, err) }

// NewForbidden creates a Forbidden error.
func NewForbidden(message string, err error) *Error { return New(Forbidden, message, err) }

// NewNotFound creates a NotFound error.
func NewNotFound(message string, err error) *Error { return New(NotFound, message, err) }

// NewNoNeighbor creates a NoNeighbor error.
func NewNoNeighbor(message string, err error) *Error { return New(NoNeighbor, message, err) }

// NewDatabase creates a Database error.
func NewDatabase(message string, err error) *Error { return New(Database, message, err) }

// NewInternal creates an Internal error.
func NewInternal(message string, err error) *Error { return New(Internal, message, err) }

func is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// IsValidation reports whether err is a Validation error.
func IsValidation(err error) bool { return is(err, Validation) }

// IsConflict reports whether err is a Conflict error.
func IsConflict(err error) bool { return is(err, Conflict) }

// IsAuth reports whether err is an Auth error.
func IsAuth(err error) bool { return is(err, Auth) }

// IsUnauthorized reports whether err is an Unauthorized error.
func IsUnauthorized(err error) bool { return is(err, Unauthorized) }

// IsForbidden reports whether err is a Forbidden error.
func IsForbidden(err error) bool { return is(err, Forbidden) }

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool { return is(err, NotFound) }

// IsNoNeighbor reports whether err is a NoNeighbor error.
func IsNoNeighbor(err error) bool { return is(err, NoNeighbor) }
