package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Validation and credential errors (client errors)
const (
	// ErrCodeInvalidInput indicates a malformed or invalid request payload.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeUserExists indicates the email is already registered.
	ErrCodeUserExists ErrorCode = "USER_EXISTS"
	// ErrCodeInvalidCredentials indicates an unknown email or a password mismatch.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
)

// OAuth flow errors
const (
	// ErrCodeMissingCode indicates a provider callback without an authorization code.
	ErrCodeMissingCode ErrorCode = "MISSING_CODE"
	// ErrCodeEmailNotVerified indicates the provider exposed no primary verified email.
	ErrCodeEmailNotVerified ErrorCode = "EMAIL_NOT_VERIFIED"
	// ErrCodeExternalService indicates a failed call to an identity provider.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// Token errors
const (
	// ErrCodeNoToken indicates a protected request without an Authorization header.
	ErrCodeNoToken ErrorCode = "NO_TOKEN"
	// ErrCodeInvalidToken indicates a malformed, expired, or badly signed token.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeDatabaseError indicates a storage-layer error.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeExternalService: true,
	ErrCodeDatabaseError:   true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
