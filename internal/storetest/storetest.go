// Package storetest holds the behavioural contract every store backend must
// satisfy. Backend packages call the Run* functions from their own tests with a
// factory that returns a fresh store.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-auth-core/internal/domain"
	"github.com/go-auth-core/internal/pkg/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const concurrentCallers = 16

// uniqueEmail keeps tests independent when a backend shares state across
// factory calls (e.g. one Postgres database).
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, strings.ToLower(id.New()))
}

func RunIdentityStore(t *testing.T, newStore func(t *testing.T) domain.IdentityStore) {
	ctx := context.Background()

	t.Run("AddThenGet", func(t *testing.T) {
		s := newStore(t)
		email := uniqueEmail("get")
		require.NoError(t, s.Add(ctx, domain.Identity{Email: email, Password: "password123", RequiresSecondFactor: true}))

		got, err := s.Get(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, email, got.Email)
		assert.Equal(t, "password123", got.Password)
		assert.True(t, got.RequiresSecondFactor)
	})

	t.Run("DuplicateEmailConflicts", func(t *testing.T) {
		s := newStore(t)
		email := uniqueEmail("dup")
		require.NoError(t, s.Add(ctx, domain.Identity{Email: email, Password: "password123"}))

		err := s.Add(ctx, domain.Identity{Email: email, Password: "different123"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConflict))

		got, err := s.Get(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, "password123", got.Password)
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, uniqueEmail("missing"))
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("Validate", func(t *testing.T) {
		s := newStore(t)
		email := uniqueEmail("validate")
		require.NoError(t, s.Add(ctx, domain.Identity{Email: email, Password: "password123"}))

		assert.NoError(t, s.Validate(ctx, email, "password123"))
		assert.True(t, errors.Is(s.Validate(ctx, email, "password124"), domain.ErrInvalidCredentials))
		assert.True(t, errors.Is(s.Validate(ctx, email, "PASSWORD123"), domain.ErrInvalidCredentials))
		assert.True(t, errors.Is(s.Validate(ctx, uniqueEmail("nobody"), "password123"), domain.ErrNotFound))
	})

	t.Run("ConcurrentAddSameEmail", func(t *testing.T) {
		s := newStore(t)
		email := uniqueEmail("race")
		var ok, conflicts atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < concurrentCallers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := s.Add(ctx, domain.Identity{Email: email, Password: fmt.Sprintf("password%03d", i)})
				switch {
				case err == nil:
					ok.Add(1)
				case errors.Is(err, domain.ErrConflict):
					conflicts.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, int32(1), ok.Load())
		assert.Equal(t, int32(concurrentCallers-1), conflicts.Load())
	})
}

func RunRevocationRegistry(t *testing.T, newRegistry func(t *testing.T) domain.RevocationRegistry) {
	ctx := context.Background()
	expiresAt := time.Now().Add(10 * time.Minute)

	t.Run("UnknownTokenNotBanned", func(t *testing.T) {
		r := newRegistry(t)
		banned, err := r.IsBanned(ctx, "token-"+id.New())
		require.NoError(t, err)
		assert.False(t, banned)
	})

	t.Run("BanThenCheck", func(t *testing.T) {
		r := newRegistry(t)
		token, other := "token-"+id.New(), "token-"+id.New()
		require.NoError(t, r.Ban(ctx, token, expiresAt))

		banned, err := r.IsBanned(ctx, token)
		require.NoError(t, err)
		assert.True(t, banned)

		banned, err = r.IsBanned(ctx, other)
		require.NoError(t, err)
		assert.False(t, banned)
	})

	t.Run("BanIsIdempotent", func(t *testing.T) {
		r := newRegistry(t)
		token := "token-" + id.New()
		require.NoError(t, r.Ban(ctx, token, expiresAt))
		require.NoError(t, r.Ban(ctx, token, expiresAt))

		banned, err := r.IsBanned(ctx, token)
		require.NoError(t, err)
		assert.True(t, banned)
	})
}

func RunChallengeStore(t *testing.T, newStore func(t *testing.T) domain.ChallengeStore) {
	ctx := context.Background()
	const (
		attempt = "db1f8d2b-4a23-42b3-9d6c-41dc26fd5f65"
		code    = "123456"
	)

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, uniqueEmail("missing"))
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("PutThenGet", func(t *testing.T) {
		s := newStore(t)
		email := uniqueEmail("put")
		require.NoError(t, s.Put(ctx, email, attempt, code))

		c, err := s.Get(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, attempt, c.LoginAttemptID)
		assert.Equal(t, code, c.Code)
	})

	t.Run("PutOverwrites", func(t *testing.T) {
		s := newStore(t)
		email := uniqueEmail("overwrite")
		require.NoError(t, s.Put(ctx, email, attempt, code))
		require.NoError(t, s.Put(ctx, email, "5f0d7e1c-8a0b-4c4e-9a59-0e5f3f9d2c11", "654321"))

		c, err := s.Get(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, "5f0d7e1c-8a0b-4c4e-9a59-0e5f3f9d2c11", c.LoginAttemptID)
		assert.Equal(t, "654321", c.Code)
	})

	t.Run("Remove", func(t *testing.T) {
		s := newStore(t)
		email := uniqueEmail("remove")
		require.NoError(t, s.Put(ctx, email, attempt, code))
		require.NoError(t, s.Remove(ctx, email))

		_, err := s.Get(ctx, email)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.True(t, errors.Is(s.Remove(ctx, email), domain.ErrNotFound))
	})

	t.Run("ConsumeMismatchLeavesChallenge", func(t *testing.T) {
		s := newStore(t)
		email := uniqueEmail("mismatch")
		require.NoError(t, s.Put(ctx, email, attempt, code))

		err := s.Consume(ctx, email, attempt, "654321")
		assert.True(t, errors.Is(err, domain.ErrChallengeMismatch))
		err = s.Consume(ctx, email, "5f0d7e1c-8a0b-4c4e-9a59-0e5f3f9d2c11", code)
		assert.True(t, errors.Is(err, domain.ErrChallengeMismatch))

		c, err := s.Get(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, code, c.Code)
	})

	t.Run("ConsumeMissing", func(t *testing.T) {
		s := newStore(t)
		err := s.Consume(ctx, uniqueEmail("none"), attempt, code)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("ConsumeIsSingleUse", func(t *testing.T) {
		s := newStore(t)
		email := uniqueEmail("once")
		require.NoError(t, s.Put(ctx, email, attempt, code))

		require.NoError(t, s.Consume(ctx, email, attempt, code))
		assert.True(t, errors.Is(s.Consume(ctx, email, attempt, code), domain.ErrNotFound))
		_, err := s.Get(ctx, email)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("ConcurrentConsumeSucceedsOnce", func(t *testing.T) {
		s := newStore(t)
		email := uniqueEmail("race")
		require.NoError(t, s.Put(ctx, email, attempt, code))

		var ok atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < concurrentCallers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.Consume(ctx, email, attempt, code)
				switch {
				case err == nil:
					ok.Add(1)
				case errors.Is(err, domain.ErrNotFound):
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), ok.Load())
	})
}
