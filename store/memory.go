package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory UserStore honoring the same contract as the
// database-backed implementation, including duplicate rejection under
// concurrent creates. Used by tests and local development.
type MemoryStore struct {
	mu      sync.Mutex
	byEmail map[string]*User
}

// NewMemoryStore creates an empty in-memory user store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byEmail: make(map[string]*User)}
}

// FindByEmail returns the user with the given email or ErrNotFound.
func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *user
	return &clone, nil
}

// Create inserts a new user or fails with ErrDuplicateEmail. The check and
// insert happen under one lock, mirroring the unique-index guarantee.
func (s *MemoryStore) Create(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, exists := s.byEmail[key]; exists {
		return ErrDuplicateEmail
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	clone := *user
	s.byEmail[key] = &clone
	return nil
}

// Count reports the number of stored users.
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byEmail)
}
