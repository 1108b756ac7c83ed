// Package authctx propagates verified token claims through a request context.
package authctx

import (
	"context"
	"errors"

	"github.com/skillsenselab/classboard/auth/jwt"
)

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var claimsKey = contextKey{}

// ErrNoClaims is returned when claims are not found in the context.
var ErrNoClaims = errors.New("authctx: no claims in context")

// Set stores verified claims in the context. Only the auth middleware should
// call this.
func Set(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Get retrieves verified claims from the context.
func Get(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*jwt.Claims)
	return claims, ok
}

// GetOrError retrieves verified claims or returns ErrNoClaims.
func GetOrError(ctx context.Context) (*jwt.Claims, error) {
	claims, ok := Get(ctx)
	if !ok {
		return nil, ErrNoClaims
	}
	return claims, nil
}
