package errors

import (
	"errors"
	"fmt"
)

// Domain-specific error types
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrEmailNotFound indicates the email record was not found
	ErrEmailNotFound = errors.New("email not found")

	// ErrTemplateNotFound indicates the template was not found
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotAuthenticated indicates no valid provider credentials are stored
	ErrNotAuthenticated = errors.New("not authenticated with mail provider")

	// ErrMissingPrecondition indicates the operation cannot run against the
	// record in its current shape (e.g. check-reply without a thread id)
	ErrMissingPrecondition = errors.New("missing precondition")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal server error")
)

// Error codes for API responses
const (
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeNotAuthenticated    = "NOT_AUTHENTICATED"
	CodeMissingPrecondition = "MISSING_PRECONDITION"
	CodeInternalError       = "INTERNAL_ERROR"
)

// AppError represents an application error with context
type AppError struct {
	Err     error
	Message string
	Code    string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(err error, message string, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEmailNotFound) ||
		errors.Is(err, ErrTemplateNotFound)
}

// IsInvalidInput checks if the error is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotAuthenticated checks if the error is a missing-credentials error
func IsNotAuthenticated(err error) bool {
	return errors.Is(err, ErrNotAuthenticated)
}

// IsMissingPrecondition checks if the error is a missing-precondition error
func IsMissingPrecondition(err error) bool {
	return errors.Is(err, ErrMissingPrecondition)
}

// GetErrorCode returns the appropriate error code for an error
func GetErrorCode(err error) string {
	switch {
	case IsNotFound(err):
		return CodeNotFound
	case IsInvalidInput(err):
		return CodeInvalidInput
	case IsNotAuthenticated(err):
		return CodeNotAuthenticated
	case IsMissingPrecondition(err):
		return CodeMissingPrecondition
	default:
		return CodeInternalError
	}
}
