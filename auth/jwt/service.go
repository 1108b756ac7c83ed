// Package jwt issues and verifies the service's bearer tokens.
//
// Tokens are HS256-signed and carry exactly the user id and role as custom
// claims, nothing else. Verification distinguishes malformed tokens, expired
// tokens, and signature mismatches internally; callers are expected to
// collapse all three into a single generic authentication failure.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims are the verifiable claims embedded in every issued token.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	gojwt.RegisteredClaims
}

// Sentinel errors for the distinct verification failure modes. All are
// diagnostics; none should reach a client verbatim.
var (
	ErrTokenMalformed   = errors.New("jwt: token is malformed")
	ErrTokenExpired     = errors.New("jwt: token has expired")
	ErrSignatureInvalid = errors.New("jwt: signature is invalid")
)

// Service issues and verifies tokens with a fixed TTL.
type Service struct {
	cfg Config
	now func() time.Time
}

// NewService creates a new token service. It fails if the signing secret is
// missing.
func NewService(cfg Config) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{cfg: cfg, now: time.Now}, nil
}

// Issue creates a signed token carrying the user id and role, expiring
// TTL after issuance.
func (s *Service) Issue(userID, role string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: gojwt.RegisteredClaims{
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
	}
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string. On failure it returns one of
// the sentinel errors wrapped with parser detail.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func (s *Service) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}

// classify maps parser errors onto the package sentinels while keeping the
// original error available for diagnostics.
func classify(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
