// Package apperr defines the error taxonomy of the scene engine.
package apperr

import (
	"errors"
	"fmt"
)

// ErrorType defines different categories of errors
type ErrorType string

const (
	TypeNotFound        ErrorType = "NOT_FOUND"
	TypeInvalidGeometry ErrorType = "INVALID_GEOMETRY"
	TypeBindingDangling ErrorType = "BINDING_DANGLING"
	TypeInternal        ErrorType = "INTERNAL"
)

// AppError is the error type returned by engine operations.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError of the same Type, so sentinel comparisons work
// with errors.Is(err, apperr.ErrNotFound).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Message == "" && t.Type == e.Type
}

var (
	ErrNotFound        = &AppError{Type: TypeNotFound}
	ErrInvalidGeometry = &AppError{Type: TypeInvalidGeometry}
	ErrBindingDangling = &AppError{Type: TypeBindingDangling}
)

func NotFound(format string, args ...any) error {
	return &AppError{Type: TypeNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidGeometry(format string, args ...any) error {
	return &AppError{Type: TypeInvalidGeometry, Message: fmt.Sprintf(format, args...)}
}

func BindingDangling(format string, args ...any) error {
	return &AppError{Type: TypeBindingDangling, Message: fmt.Sprintf(format, args...)}
}

func Internal(message string, err error) error {
	return &AppError{Type: TypeInternal, Message: message, Err: err}
}

// Wrap wraps an error with additional context, preserving its type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Type:    appErr.Type,
			Message: fmt.Sprintf("%s: %s", message, appErr.Message),
			Err:     appErr.Err,
		}
	}
	return Internal(message, err)
}

func IsNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsInvalidGeometry(err error) bool { return errors.Is(err, ErrInvalidGeometry) }
func IsBindingDangling(err error) bool { return errors.Is(err, ErrBindingDangling) }
