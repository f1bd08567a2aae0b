package memory

import (
	"testing"

	"github.com/go-auth-core/internal/domain"
	"github.com/go-auth-core/internal/storetest"
)

func TestIdentityStore_Contract(t *testing.T) {
	storetest.RunIdentityStore(t, func(t *testing.T) domain.IdentityStore {
		return NewIdentityStore()
	})
}

func TestRevocationRegistry_Contract(t *testing.T) {
	storetest.RunRevocationRegistry(t, func(t *testing.T) domain.RevocationRegistry {
		return NewRevocationRegistry()
	})
}

func TestChallengeStore_Contract(t *testing.T) {
	storetest.RunChallengeStore(t, func(t *testing.T) domain.ChallengeStore {
		return NewChallengeStore()
	})
}
