package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-auth-core/internal/domain"
	"github.com/go-auth-core/internal/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempStore(t *testing.T) *IdentityStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestIdentityStore_Contract(t *testing.T) {
	storetest.RunIdentityStore(t, func(t *testing.T) domain.IdentityStore {
		return openTempStore(t)
	})
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestOpen_ReopenKeepsIdentities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Add(context.Background(), domain.Identity{Email: "a@b.com", Password: "password123"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.NoError(t, s.Validate(context.Background(), "a@b.com", "password123"))
}

func TestClose_NilSafe(t *testing.T) {
	var s *IdentityStore
	assert.NoError(t, s.Close())
}
