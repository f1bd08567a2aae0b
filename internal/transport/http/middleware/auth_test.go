package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-auth-core/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) VerifyToken(ctx context.Context, token string) (*domain.Claims, error) {
	args := m.Called(ctx, token)
	if c, _ := args.Get(0).(*domain.Claims); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "header-token", TokenFromRequest(r))

	r.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-token"})
	assert.Equal(t, "cookie-token", TokenFromRequest(r), "cookie wins over header")
}

func TestAuth_MissingToken(t *testing.T) {
	v := &mockVerifier{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	Auth(v)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	v.AssertNotCalled(t, "VerifyToken", mock.Anything, mock.Anything)
}

func TestAuth_InvalidToken(t *testing.T) {
	v := &mockVerifier{}
	v.On("VerifyToken", mock.Anything, "bad").Return(nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, domain.ErrTokenRevoked))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rr := httptest.NewRecorder()
	Auth(v)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "invalid or expired token", body["error"])
}

func TestAuth_InfrastructureFailure(t *testing.T) {
	v := &mockVerifier{}
	v.On("VerifyToken", mock.Anything, "tok").Return(nil, fmt.Errorf("%w: %w", domain.ErrUnexpected, errors.New("redis down")))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})
	rr := httptest.NewRecorder()
	Auth(v)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestAuth_ValidToken_InjectsClaims(t *testing.T) {
	want := &domain.Claims{Subject: "a@b.com", ExpiresAt: time.Now().Add(time.Minute)}
	v := &mockVerifier{}
	v.On("VerifyToken", mock.Anything, "tok").Return(want, nil)

	var got *domain.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})
	rr := httptest.NewRecorder()
	Auth(v)(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, want, got)
}
