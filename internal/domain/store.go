package domain

import (
	"context"
	"time"
)

// IdentityStore persists identities keyed by email.
type IdentityStore interface {
	Add(ctx context.Context, identity Identity) error
	Get(ctx context.Context, email string) (*Identity, error)
	// Validate returns nil iff the identity exists and password matches exactly.
	Validate(ctx context.Context, email, password string) error
}

// RevocationRegistry tracks session tokens invalidated before their natural expiry.
type RevocationRegistry interface {
	// Ban is idempotent. Backends with per-entry TTL keep the entry until expiresAt.
	Ban(ctx context.Context, token string, expiresAt time.Time) error
	IsBanned(ctx context.Context, token string) (bool, error)
}

// ChallengeStore holds at most one pending second-factor challenge per email.
type ChallengeStore interface {
	Put(ctx context.Context, email, attemptID, code string) error
	Get(ctx context.Context, email string) (*Challenge, error)
	Remove(ctx context.Context, email string) error
	// Consume atomically removes the challenge for email when both attemptID and
	// code match. It returns ErrNotFound when no challenge exists and
	// ErrChallengeMismatch when one exists but does not match; in that case the
	// challenge is left in place.
	Consume(ctx context.Context, email, attemptID, code string) error
}

// Notifier delivers a message to an email address.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
