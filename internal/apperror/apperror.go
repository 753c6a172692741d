// Package apperror defines the application error taxonomy and its mapping
// to HTTP status codes. Policy failures are expressed as typed AppErrors so
// handlers can translate them uniformly without inspecting messages.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an application error.
type Type int

const (
	// Internal is an unspecified server-side failure.
	Internal Type = iota
	// Database is a persistence-layer failure.
	Database
	// Config is a configuration failure detected at startup.
	Config
	// Auth is an authentication failure (missing/invalid token, bad credentials).
	Auth
	// Forbidden is an authorization failure (authenticated but not permitted).
	Forbidden
	// NotFound means a referenced resource does not exist.
	NotFound
	// Validation means the input violates field constraints.
	Validation
	// Conflict means a uniqueness or optimistic-lock violation.
	Conflict
)

// AppError is the application error type. It carries a user-facing message
// and optionally wraps an underlying error for diagnostics.
type AppError struct {
	Type    Type
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying error to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error type to an HTTP status code.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case Auth:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToResponse converts the error to its API payload. Only the user-facing
// message is exposed, never the wrapped error.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// New creates an AppError of the given type.
func New(t Type, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

func NewInternal(message string, err error) *AppError   { return New(Internal, message, err) }
func NewDatabase(message string, err error) *AppError   { return New(Database, message, err) }
func NewConfig(message string, err error) *AppError     { return New(Config, message, err) }
func NewAuth(message string, err error) *AppError       { return New(Auth, message, err) }
func NewForbidden(message string, err error) *AppError  { return New(Forbidden, message, err) }
func NewNotFound(message string, err error) *AppError   { return New(NotFound, message, err) }
func NewValidation(message string, err error) *AppError { return New(Validation, message, err) }
func NewConflict(message string, err error) *AppError   { return New(Conflict, message, err) }

// FromError extracts an *AppError from an error chain.
func FromError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func is(err error, t Type) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Type == t
}

// IsNotFound reports whether err is a NotFound AppError.
func IsNotFound(err error) bool { return is(err, NotFound) }

// IsAuth reports whether err is an Auth AppError.
func IsAuth(err error) bool { return is(err, Auth) }

// IsForbidden reports whether err is a Forbidden AppError.
func IsForbidden(err error) bool { return is(err, Forbidden) }

// IsValidation reports whether err is a Validation AppError.
func IsValidation(err error) bool { return is(err, Validation) }

// IsConflict reports whether err is a Conflict AppError.
func IsConflict(err error) bool { return is(err, Conflict) }
