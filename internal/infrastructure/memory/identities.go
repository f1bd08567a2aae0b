package memory

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"

	"github.com/go-auth-core/internal/domain"
)

// IdentityStore is a map-backed domain.IdentityStore for tests and development.
type IdentityStore struct {
	mu         sync.RWMutex
	identities map[string]domain.Identity
}

func NewIdentityStore() *IdentityStore {
	return &IdentityStore{identities: make(map[string]domain.Identity)}
}

func (s *IdentityStore) Add(_ context.Context, identity domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[identity.Email]; ok {
		return fmt.Errorf("identity %s: %w", identity.Email, domain.ErrConflict)
	}
	s.identities[identity.Email] = identity
	return nil
}

func (s *IdentityStore) Get(_ context.Context, email string) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.identities[email]
	if !ok {
		return nil, fmt.Errorf("identity not found: %w", domain.ErrNotFound)
	}
	return &identity, nil
}

func (s *IdentityStore) Validate(ctx context.Context, email, password string) error {
	identity, err := s.Get(ctx, email)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(identity.Password), []byte(password)) != 1 {
		return domain.ErrInvalidCredentials
	}
	return nil
}
