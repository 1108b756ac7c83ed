// Package oauth implements the authorization-code flow against the supported
// identity providers.
//
// Both providers implement the same Provider interface and differ only in
// endpoints, response shapes, and GitHub's secondary email lookup. The
// callback orchestration lives in the auth service; this package only talks
// to the providers.
package oauth

import (
	"context"

	"golang.org/x/oauth2"
)

// Profile is the provider-agnostic identity returned by a userinfo lookup.
// It is transient: produced once per callback and never persisted.
type Profile struct {
	// Email is the verified address identifying the user.
	Email string
	// Name is the display name, possibly empty.
	Name string
	// Login is a provider-specific fallback identifier (e.g. GitHub login).
	Login string
	// Verified reports whether the provider vouched for the email.
	Verified bool
}

// DisplayName returns the profile's name, falling back to the provider login
// when no display name is available.
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}

// Provider abstracts provider-specific OAuth operations.
type Provider interface {
	// Name returns the provider identifier (e.g. "google", "github").
	Name() string

	// AuthCodeURL generates the authorization URL for the redirect leg,
	// embedding client id, redirect URI, scopes, and provider flags.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// FetchProfile retrieves the user's identity using the access token.
	// Implementations return ErrEmailNotVerified when no usable verified
	// email is available, before any caller-side state changes.
	FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error)
}

// Config holds a provider's client credentials.
type Config struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}
