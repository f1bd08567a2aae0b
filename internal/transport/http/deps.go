package http

import (
	"github.com/go-auth-core/internal/application/token"
	"github.com/go-auth-core/internal/domain"
)

// Deps holds the infrastructure the router wires into the auth services.
type Deps struct {
	Identities  domain.IdentityStore
	Challenges  domain.ChallengeStore
	Revocations domain.RevocationRegistry
	Notifier    domain.Notifier
	Signer      token.Signer
}
