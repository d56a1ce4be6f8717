package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeForbidden indicates an ownership or permission mismatch
	ErrorTypeForbidden ErrorType = "FORBIDDEN"

	// ErrorTypeInvalidState indicates a state-machine violation
	ErrorTypeInvalidState ErrorType = "INVALID_STATE"

	// ErrorTypeTooLate indicates a time-window rule rejected the operation
	ErrorTypeTooLate ErrorType = "TOO_LATE"

	// ErrorTypeTooEarly indicates the operation was attempted ahead of its window
	ErrorTypeTooEarly ErrorType = "TOO_EARLY"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether err is an *AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Message: message,
	}
}

// NewInvalidStateError creates a new invalid state error
func NewInvalidStateError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidState,
		Message: message,
	}
}

// NewTooLateError creates a new too-late error
func NewTooLateError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeTooLate,
		Message: message,
	}
}

// NewTooEarlyError creates a new too-early error
func NewTooEarlyError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeTooEarly,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}
