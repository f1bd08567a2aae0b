package token

import (
	"context"
	"fmt"
	"time"

	"github.com/go-auth-core/internal/domain"
)

// TTL is the fixed validity window of every session token.
const TTL = 600 * time.Second

// Signer mints and parses signed tokens. *jwtinfra.Provider satisfies it.
type Signer interface {
	Sign(subject string) (string, *domain.Claims, error)
	Verify(token string) (*domain.Claims, error)
}

type Service interface {
	// Issue mints a token for email valid for TTL.
	Issue(email string) (string, error)
	// Validate rejects banned tokens before checking signature and expiry.
	Validate(ctx context.Context, token string) (*domain.Claims, error)
	// Revoke bans token until the expiry embedded in claims.
	Revoke(ctx context.Context, token string, claims *domain.Claims) error
}

type service struct {
	signer   Signer
	registry domain.RevocationRegistry
}

func NewService(signer Signer, registry domain.RevocationRegistry) Service {
	return &service{signer: signer, registry: registry}
}

func (s *service) Issue(email string) (string, error) {
	token, _, err := s.signer.Sign(email)
	if err != nil {
		return "", fmt.Errorf("issue token: %w: %w", domain.ErrUnexpected, err)
	}
	return token, nil
}

func (s *service) Validate(ctx context.Context, token string) (*domain.Claims, error) {
	if token == "" {
		return nil, domain.ErrTokenMissing
	}
	banned, err := s.registry.IsBanned(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w: %w", domain.ErrUnexpected, err)
	}
	if banned {
		return nil, domain.ErrTokenRevoked
	}
	return s.signer.Verify(token)
}

func (s *service) Revoke(ctx context.Context, token string, claims *domain.Claims) error {
	if err := s.registry.Ban(ctx, token, claims.ExpiresAt); err != nil {
		return fmt.Errorf("ban token: %w: %w", domain.ErrUnexpected, err)
	}
	return nil
}
