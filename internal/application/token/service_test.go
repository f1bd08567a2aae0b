package token

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-auth-core/internal/domain"
	"github.com/go-auth-core/internal/infrastructure/memory"
	jwtinfra "github.com/go-auth-core/internal/infrastructure/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRegistry struct{ mock.Mock }

func (m *mockRegistry) Ban(ctx context.Context, token string, expiresAt time.Time) error {
	return m.Called(ctx, token, expiresAt).Error(0)
}

func (m *mockRegistry) IsBanned(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newSvc(t *testing.T, registry domain.RevocationRegistry) (Service, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	p, err := jwtinfra.NewProvider("test-secret", TTL, jwtinfra.WithClock(c.Now))
	require.NoError(t, err)
	return NewService(p, registry), c
}

func TestIssueThenValidate(t *testing.T) {
	svc, c := newSvc(t, memory.NewRevocationRegistry())

	tok, err := svc.Issue("a@b.com")
	require.NoError(t, err)
	assert.Len(t, strings.Split(tok, "."), 3)

	claims, err := svc.Validate(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Subject)
	assert.True(t, claims.ExpiresAt.Equal(c.now.Add(TTL)))
}

func TestValidate_Expired(t *testing.T) {
	svc, c := newSvc(t, memory.NewRevocationRegistry())
	tok, err := svc.Issue("a@b.com")
	require.NoError(t, err)

	c.now = c.now.Add(TTL + time.Second)
	_, err = svc.Validate(context.Background(), tok)
	assert.True(t, errors.Is(err, domain.ErrTokenExpired))
}

func TestValidate_Malformed(t *testing.T) {
	svc, _ := newSvc(t, memory.NewRevocationRegistry())
	_, err := svc.Validate(context.Background(), "not.a.token")
	assert.True(t, errors.Is(err, domain.ErrTokenMalformed))
}

func TestValidate_Empty(t *testing.T) {
	svc, _ := newSvc(t, memory.NewRevocationRegistry())
	_, err := svc.Validate(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrTokenMissing))
}

func TestRevokeThenValidate(t *testing.T) {
	svc, _ := newSvc(t, memory.NewRevocationRegistry())
	ctx := context.Background()
	tok, err := svc.Issue("a@b.com")
	require.NoError(t, err)
	other, err := svc.Issue("a@b.com")
	require.NoError(t, err)
	require.NotEqual(t, tok, other)

	claims, err := svc.Validate(ctx, tok)
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(ctx, tok, claims))

	_, err = svc.Validate(ctx, tok)
	assert.True(t, errors.Is(err, domain.ErrTokenRevoked))

	_, err = svc.Validate(ctx, other)
	assert.NoError(t, err, "revoking one token must not affect another")
}

func TestValidate_RevocationCheckedFirst(t *testing.T) {
	reg := new(mockRegistry)
	reg.On("IsBanned", mock.Anything, "garbage").Return(true, nil)
	svc, _ := newSvc(t, reg)

	_, err := svc.Validate(context.Background(), "garbage")
	assert.True(t, errors.Is(err, domain.ErrTokenRevoked))
	reg.AssertExpectations(t)
}

func TestValidate_RegistryFailureIsUnexpected(t *testing.T) {
	reg := new(mockRegistry)
	reg.On("IsBanned", mock.Anything, mock.Anything).Return(false, errors.New("connection refused"))
	svc, _ := newSvc(t, reg)
	tok, err := svc.Issue("a@b.com")
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), tok)
	assert.True(t, errors.Is(err, domain.ErrUnexpected))
	assert.ErrorContains(t, err, "connection refused")
}

func TestRevoke_BansUntilEmbeddedExpiry(t *testing.T) {
	reg := new(mockRegistry)
	svc, _ := newSvc(t, reg)
	exp := time.Date(2026, 1, 1, 12, 10, 0, 0, time.UTC)
	reg.On("Ban", mock.Anything, "tok", exp).Return(nil)

	require.NoError(t, svc.Revoke(context.Background(), "tok", &domain.Claims{Subject: "a@b.com", ExpiresAt: exp}))
	reg.AssertExpectations(t)
}

func TestRevoke_RegistryFailureIsUnexpected(t *testing.T) {
	reg := new(mockRegistry)
	reg.On("Ban", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("timeout"))
	svc, _ := newSvc(t, reg)

	err := svc.Revoke(context.Background(), "tok", &domain.Claims{ExpiresAt: time.Now().Add(time.Minute)})
	assert.True(t, errors.Is(err, domain.ErrUnexpected))
}
