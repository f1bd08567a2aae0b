package memory

import (
	"context"
	"sync"
	"time"
)

// RevocationRegistry is a set of banned tokens. Entries never expire; the set
// is bounded only by process lifetime.
type RevocationRegistry struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

func NewRevocationRegistry() *RevocationRegistry {
	return &RevocationRegistry{tokens: make(map[string]struct{})}
}

func (r *RevocationRegistry) Ban(_ context.Context, token string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = struct{}{}
	return nil
}

func (r *RevocationRegistry) IsBanned(_ context.Context, token string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tokens[token]
	return ok, nil
}
