package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Stores return the storage kinds; the auth service wraps exactly one outcome
// kind so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	// Storage kinds.
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrChallengeMismatch  = errors.New("challenge mismatch")

	// Token rejection kinds.
	ErrTokenMissing   = errors.New("token missing")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenRevoked   = errors.New("token revoked")

	// Outcome kinds returned by the auth service.
	ErrValidation          = errors.New("validation failed")
	ErrCredentialsRejected = errors.New("credentials rejected")
	ErrMissingToken        = errors.New("missing token")
	ErrInvalidToken        = errors.New("invalid token")
	ErrUnexpected          = errors.New("unexpected error")
)
