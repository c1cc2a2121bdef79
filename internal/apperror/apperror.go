// Package apperror classifies failures crossing the service boundary so HTTP
// handlers can map them to status codes without inspecting storage errors.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrForbidden  = errors.New("forbidden")
	ErrStorage    = errors.New("storage error")
)

type AppError struct {
	Err     error  // classification sentinel
	Message string // human-readable error message
	Hint    string // optional storage-layer detail
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Storage wraps a storage-layer failure, keeping the underlying error text
// as a hint for the caller.
func Storage(message string, cause error) *AppError {
	hint := ""
	if cause != nil {
		hint = cause.Error()
	}
	return &AppError{
		Err:     ErrStorage,
		Message: message,
		Hint:    hint,
	}
}
