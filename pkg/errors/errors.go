package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Caller errors
	ErrorTypeValidation   ErrorType = "VALIDATION"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeRateLimit    ErrorType = "RATE_LIMIT"

	// Collaborator errors
	ErrorTypeUpstream      ErrorType = "UPSTREAM"
	ErrorTypeUnprocessable ErrorType = "UNPROCESSABLE"

	// Everything else
	ErrorTypeInternal ErrorType = "INTERNAL"
	ErrorTypeDatabase ErrorType = "DATABASE"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches two AppErrors on their type
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// New creates an AppError of an arbitrary type
func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:       errorType,
		Message:    message,
		HTTPStatus: errorTypeToStatusCode(errorType),
	}
}

// NewValidationError creates an error for invalid caller input
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, message)
}

// NewNotFoundError creates an error for a missing resource
func NewNotFoundError(resource, id string) *AppError {
	return New(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", resource, id))
}

// NewConflictError creates an error for a state conflict, e.g. an illegal
// job transition
func NewConflictError(message string) *AppError {
	return New(ErrorTypeConflict, message)
}

// NewForbiddenError creates an error for a caller without access
func NewForbiddenError(message string) *AppError {
	return New(ErrorTypeForbidden, message)
}

// NewUnauthorizedError creates an error for a missing or invalid identity
func NewUnauthorizedError(message string) *AppError {
	return New(ErrorTypeUnauthorized, message)
}

// NewUpstreamError creates an error for a failed external collaborator call
func NewUpstreamError(message string) *AppError {
	return New(ErrorTypeUpstream, message)
}

// NewUnprocessableError creates an error for collaborator output that failed
// structural validation
func NewUnprocessableError(message string) *AppError {
	return New(ErrorTypeUnprocessable, message)
}

// NewInternalError creates an error for unexpected failures
func NewInternalError(message string) *AppError {
	return New(ErrorTypeInternal, message)
}

// NewDatabaseError creates an error for storage failures
func NewDatabaseError(message string, cause error) *AppError {
	return New(ErrorTypeDatabase, message).WithCause(cause)
}

// GetAppError extracts an AppError from an error chain, or nil
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, errorType ErrorType) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Type == errorType
	}
	return false
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool {
	return IsType(err, ErrorTypeConflict)
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// errorTypeToStatusCode maps error types to HTTP status codes
func errorTypeToStatusCode(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	case ErrorTypeUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
