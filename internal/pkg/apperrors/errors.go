package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrAlreadyExists = errors.New("resource already exists")

	ErrDatabase = errors.New("database error")

	ErrInternalServer = errors.New("internal server error")
)

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {

	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}

// ResourceNotFoundError is raised when an operation targets an id with no live row.
// It matches ErrNotFound.
type ResourceNotFoundError struct {
	Message string
}

func (e *ResourceNotFoundError) Error() string { return e.Message }

func (e *ResourceNotFoundError) Is(target error) bool { return target == ErrNotFound }

func NewResourceNotFound(format string, args ...any) error {
	return &ResourceNotFoundError{Message: fmt.Sprintf(format, args...)}
}

// DuplicateResourceError is raised when a unique value is already taken. It matches
// ErrAlreadyExists.
type DuplicateResourceError struct {
	Message string
}

func (e *DuplicateResourceError) Error() string { return e.Message }

func (e *DuplicateResourceError) Is(target error) bool { return target == ErrAlreadyExists }

func NewDuplicateResource(message string) error {
	return &DuplicateResourceError{Message: message}
}

// RequestValidationError is raised when a well-formed request is rejected by a
// business rule. It matches ErrValidation.
type RequestValidationError struct {
	Message string
}

func (e *RequestValidationError) Error() string { return e.Message }

func (e *RequestValidationError) Is(target error) bool { return target == ErrValidation }

func NewRequestValidation(message string) error {
	return &RequestValidationError{Message: message}
}
