// Package auth implements account registration, credential login, and the
// OAuth callback flow on top of the store, password, jwt, and oauth packages.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillsenselab/classboard/auth/jwt"
	"github.com/skillsenselab/classboard/auth/oauth"
	"github.com/skillsenselab/classboard/auth/password"
	apperrors "github.com/skillsenselab/classboard/errors"
	"github.com/skillsenselab/classboard/logger"
	"github.com/skillsenselab/classboard/store"
)

// oauthSecretBytes sizes the random secret hashed into OAuth-created accounts.
const oauthSecretBytes = 32

// Result is the outcome of any successful authentication operation.
type Result struct {
	Token string      `json:"token"`
	User  *store.User `json:"user"`
}

// Service orchestrates authentication. All collaborators are injected; the
// service holds no global state.
type Service struct {
	users       store.UserStore
	hasher      password.Hasher
	tokens      *jwt.Service
	providers   map[string]oauth.Provider
	defaultRole string
	log         *logger.Logger
}

// Option configures the auth service.
type Option func(*Service)

// WithProvider registers an OAuth identity provider under its Name().
func WithProvider(p oauth.Provider) Option {
	return func(s *Service) {
		s.providers[p.Name()] = p
	}
}

// WithDefaultRole sets the role assigned to accounts created through an OAuth
// callback (default: "student"). Registration always names a role explicitly.
func WithDefaultRole(role string) Option {
	return func(s *Service) {
		if role != "" {
			s.defaultRole = role
		}
	}
}

// NewService creates the auth service.
func NewService(users store.UserStore, hasher password.Hasher, tokens *jwt.Service, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		providers:   make(map[string]oauth.Provider),
		defaultRole: store.RoleStudent,
		log:         log.WithComponent("auth"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new account from credentials and returns a signed token.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The pre-check gives the common duplicate case a clean answer without a
	// failed insert; the unique index still decides races.
	_, err := s.users.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, apperrors.UserExists()
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.DatabaseError(err)
	}

	digest, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &store.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: digest,
		Role:         req.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, apperrors.UserExists()
		}
		return nil, apperrors.DatabaseError(err)
	}

	token, err := s.tokens.Issue(user.ID.String(), user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Info("User registered", map[string]interface{}{
		"user_id": user.ID.String(),
		"role":    user.Role,
	})
	return &Result{Token: token, User: user}, nil
}

// Login authenticates credentials and returns a signed token. An unknown
// email and a wrong password are reported distinctly, matching the HTTP
// contract of the register/login endpoints.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.UserNotFound()
		}
		return nil, apperrors.DatabaseError(err)
	}

	if err := s.hasher.Verify(ctx, req.Password, user.PasswordHash); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.Internal(err)
	}

	token, err := s.tokens.Issue(user.ID.String(), user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Info("User logged in", map[string]interface{}{
		"user_id": user.ID.String(),
	})
	return &Result{Token: token, User: user}, nil
}

// Provider returns the registered provider or a not-found error.
func (s *Service) Provider(name string) (oauth.Provider, error) {
	p, ok := s.providers[name]
	if !ok {
		return nil, apperrors.NotFound("provider").WithDetail("provider", name)
	}
	return p, nil
}

// AuthCodeURL returns the provider's authorization redirect URL.
func (s *Service) AuthCodeURL(providerName, state string) (string, error) {
	p, err := s.Provider(providerName)
	if err != nil {
		return "", err
	}
	return p.AuthCodeURL(state), nil
}

// OAuthLogin completes the authorization-code flow: exchange the code, fetch
// the profile, resolve the account, and issue a token. An existing account is
// reused as-is; its role and password are never touched.
func (s *Service) OAuthLogin(ctx context.Context, providerName, code string) (*Result, error) {
	if code == "" {
		return nil, apperrors.MissingCode()
	}
	p, err := s.Provider(providerName)
	if err != nil {
		return nil, err
	}

	token, err := p.Exchange(ctx, code)
	if err != nil {
		s.log.WithError(err).Error("OAuth code exchange failed", map[string]interface{}{
			"provider": providerName,
		})
		return nil, apperrors.ExternalService(providerName, err)
	}

	profile, err := p.FetchProfile(ctx, token)
	if err != nil {
		if errors.Is(err, oauth.ErrEmailNotVerified) {
			return nil, apperrors.EmailNotVerified()
		}
		s.log.WithError(err).Error("OAuth profile fetch failed", map[string]interface{}{
			"provider": providerName,
		})
		return nil, apperrors.ExternalService(providerName, err)
	}

	user, err := s.resolveUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	signed, err := s.tokens.Issue(user.ID.String(), user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.log.Info("OAuth login completed", map[string]interface{}{
		"provider": providerName,
		"user_id":  user.ID.String(),
	})
	return &Result{Token: signed, User: user}, nil
}

// resolveUser finds the account for the profile's email, creating one on
// first login. When a concurrent callback wins the create race, the lookup is
// retried once and the winner's account is used.
func (s *Service) resolveUser(ctx context.Context, profile *oauth.Profile) (*store.User, error) {
	user, err := s.users.FindByEmail(ctx, profile.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.DatabaseError(err)
	}

	secret, err := password.GenerateSecret(oauthSecretBytes)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	digest, err := s.hasher.Hash(ctx, secret)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user = &store.User{
		Name:         profile.DisplayName(),
		Email:        profile.Email,
		PasswordHash: digest,
		Role:         s.defaultRole,
	}
	err = s.users.Create(ctx, user)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrDuplicateEmail) {
		return nil, apperrors.DatabaseError(err)
	}

	// Lost the race to a concurrent first login for the same email.
	user, err = s.users.FindByEmail(ctx, profile.Email)
	if err != nil {
		return nil, apperrors.DatabaseError(fmt.Errorf("lookup after create conflict: %w", err))
	}
	return user, nil
}
