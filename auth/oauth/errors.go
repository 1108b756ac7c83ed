package oauth

import "errors"

var (
	// ErrMissingClientID is returned when the OAuth client ID is not provided.
	ErrMissingClientID = errors.New("oauth: missing client ID")

	// ErrMissingClientSecret is returned when the OAuth client secret is not provided.
	ErrMissingClientSecret = errors.New("oauth: missing client secret")

	// ErrExchangeFailed is returned when the provider rejects the authorization code.
	ErrExchangeFailed = errors.New("oauth: code exchange failed")

	// ErrEmailNotVerified is returned when the provider exposes no primary
	// verified email for the user.
	ErrEmailNotVerified = errors.New("oauth: no primary verified email")

	// ErrFetchFailed is returned when a provider call fails at the transport level.
	ErrFetchFailed = errors.New("oauth: failed to fetch from provider")

	// ErrRequestFailed is returned when the provider returns a non-OK status.
	ErrRequestFailed = errors.New("oauth: request returned non-OK status")

	// ErrDecodeFailed is returned when decoding the provider response fails.
	ErrDecodeFailed = errors.New("oauth: failed to decode response")
)
