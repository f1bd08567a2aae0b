package dynamo

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-auth-core/internal/config"
	"github.com/go-auth-core/internal/domain"
	"github.com/go-auth-core/internal/storetest"
	"github.com/stretchr/testify/require"
)

// Integration tests are opt-in and require AUTH_TEST_DYNAMO_ENDPOINT
// (e.g. http://localhost:4566 for LocalStack).

func mustOpenTestClient(t *testing.T) (ItemAPI, config.DynamoTables) {
	t.Helper()
	endpoint := strings.TrimSpace(os.Getenv("AUTH_TEST_DYNAMO_ENDPOINT"))
	if endpoint == "" {
		t.Skip("integration test skipped: AUTH_TEST_DYNAMO_ENDPOINT is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := NewClient(ctx, &config.Config{
		AWSRegion:      "us-east-1",
		AWSEndpointURL: endpoint,
		AWSAccessKeyID: "test",
		AWSSecretKey:   "test",
	})
	require.NoError(t, err)

	tables := config.DynamoTables{
		Identities:    "test_identities",
		Challenges:    "test_two_fa_challenges",
		RevokedTokens: "test_revoked_tokens",
	}
	Bootstrap(ctx, client, tables)
	return client, tables
}

func TestIdentityRepo_Contract(t *testing.T) {
	client, tables := mustOpenTestClient(t)
	storetest.RunIdentityStore(t, func(t *testing.T) domain.IdentityStore {
		return NewIdentityRepo(client, tables.Identities)
	})
}

func TestRevocationRepo_Contract(t *testing.T) {
	client, tables := mustOpenTestClient(t)
	storetest.RunRevocationRegistry(t, func(t *testing.T) domain.RevocationRegistry {
		return NewRevocationRepo(client, tables.RevokedTokens)
	})
}

func TestChallengeRepo_Contract(t *testing.T) {
	client, tables := mustOpenTestClient(t)
	storetest.RunChallengeStore(t, func(t *testing.T) domain.ChallengeStore {
		return NewChallengeRepo(client, tables.Challenges)
	})
}
