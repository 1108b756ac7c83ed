// Package password provides password hashing and verification.
//
// Hashing is CPU-bound, so the bcrypt hasher bounds the number of concurrent
// hash computations with a weighted semaphore. A burst of registrations can
// therefore never starve unrelated request handlers of CPU.
package password

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Hasher defines the interface for password hashing and verification.
type Hasher interface {
	// Hash returns a salted one-way digest of the password.
	Hash(ctx context.Context, password string) (string, error)

	// Verify checks if a password matches the given digest.
	// Returns nil if they match, an error otherwise.
	Verify(ctx context.Context, password, digest string) error
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// Option configures the bcrypt hasher.
type Option func(*BcryptHasher)

// WithCost sets the bcrypt cost parameter (default: 10, range: 4-31).
func WithCost(cost int) Option {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// WithMaxConcurrent bounds the number of in-flight hash computations
// (default: GOMAXPROCS).
func WithMaxConcurrent(n int) Option {
	return func(h *BcryptHasher) {
		if n > 0 {
			h.sem = semaphore.NewWeighted(int64(n))
		}
	}
}

// NewBcryptHasher creates a bcrypt-based password hasher.
func NewBcryptHasher(opts ...Option) *BcryptHasher {
	h := &BcryptHasher{
		cost: 10,
		sem:  semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns the bcrypt digest of password. It blocks while the concurrency
// limit is saturated; the wait is cancellable through ctx.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if len(password) > 72 {
		return "", errors.New("password: maximum length is 72 characters (bcrypt limit)")
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("password: acquire hash slot: %w", err)
	}
	defer h.sem.Release(1)

	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(digest), nil
}

// ErrMismatch is returned by Verify when the password does not match the digest.
var ErrMismatch = errors.New("password: invalid password")

// Verify compares password against digest. bcrypt's comparison is
// constant-time-equivalent, so verification never leaks digest prefixes.
func (h *BcryptHasher) Verify(ctx context.Context, password, digest string) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("password: acquire hash slot: %w", err)
	}
	defer h.sem.Release(1)

	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)); err != nil {
		return ErrMismatch
	}
	return nil
}
