package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-auth-core/internal/domain"
)

// ChallengeStore keeps one pending challenge per email.
type ChallengeStore struct {
	mu         sync.RWMutex
	challenges map[string]domain.Challenge
}

func NewChallengeStore() *ChallengeStore {
	return &ChallengeStore{challenges: make(map[string]domain.Challenge)}
}

func (s *ChallengeStore) Put(_ context.Context, email, attemptID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[email] = domain.Challenge{Email: email, LoginAttemptID: attemptID, Code: code}
	return nil
}

func (s *ChallengeStore) Get(_ context.Context, email string) (*domain.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.challenges[email]
	if !ok {
		return nil, fmt.Errorf("challenge not found: %w", domain.ErrNotFound)
	}
	return &c, nil
}

func (s *ChallengeStore) Remove(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.challenges[email]; !ok {
		return fmt.Errorf("challenge not found: %w", domain.ErrNotFound)
	}
	delete(s.challenges, email)
	return nil
}

// Consume compares and removes under the write lock, so of several concurrent
// callers presenting the same pair exactly one succeeds.
func (s *ChallengeStore) Consume(_ context.Context, email, attemptID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[email]
	if !ok {
		return fmt.Errorf("challenge not found: %w", domain.ErrNotFound)
	}
	if !c.Matches(attemptID, code) {
		return domain.ErrChallengeMismatch
	}
	delete(s.challenges, email)
	return nil
}
