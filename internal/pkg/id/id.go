package id

import (
	"crypto/rand"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time; they identify individual session tokens.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// NewLoginAttemptID returns a random UUID v4 identifying one login attempt.
func NewLoginAttemptID() string {
	return uuid.NewString()
}
