// Package errors provides unified error handling for the classboard service.
// It implements structured error types with error codes, HTTP status mapping,
// and retryable detection.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// Validation creates a new AppError for a failed payload validation.
// The message names the first failing field.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// UserExists creates a new AppError for a duplicate registration.
func UserExists() *AppError {
	return &AppError{
		Code: ErrCodeUserExists, Message: "User already exists",
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// UserNotFound creates a new AppError for a login with an unknown email.
func UserNotFound() *AppError {
	return &AppError{
		Code: ErrCodeInvalidCredentials, Message: "User not found",
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// InvalidCredentials creates a new AppError for a password mismatch.
func InvalidCredentials() *AppError {
	return &AppError{
		Code: ErrCodeInvalidCredentials, Message: "Invalid credentials",
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingCode creates a new AppError for a callback without an authorization code.
func MissingCode() *AppError {
	return &AppError{
		Code: ErrCodeMissingCode, Message: "Authorization code missing",
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// EmailNotVerified creates a new AppError when no primary verified email is
// available from the provider.
func EmailNotVerified() *AppError {
	return &AppError{
		Code: ErrCodeEmailNotVerified, Message: "Email not found. Please ensure your GitHub email is public.",
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// ExternalService creates a new AppError for a failed identity-provider call.
// The cause is logged internally and never exposed to the caller.
func ExternalService(provider string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeExternalService, Message: fmt.Sprintf("%s authentication failed", provider),
		HTTPStatus: http.StatusInternalServerError, Retryable: true,
		Details: map[string]any{"provider": provider}, Cause: cause,
	}
}

// NoToken creates a new AppError for a protected request without a bearer token.
func NoToken() *AppError {
	return &AppError{
		Code: ErrCodeNoToken, Message: "Access denied. No token provided.",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// InvalidToken creates a new AppError for a rejected bearer token. The precise
// rejection reason (malformed, expired, bad signature) stays in the cause.
func InvalidToken(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInvalidToken, Message: "Invalid token",
		HTTPStatus: http.StatusBadRequest, Retryable: false, Cause: cause,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// Internal creates a new AppError for an unexpected server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// DatabaseError creates a new AppError for a storage-layer error.
func DatabaseError(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabaseError, Message: "A database error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: true, Cause: cause,
	}
}
