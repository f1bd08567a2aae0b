package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-auth-core/internal/domain"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// CookieName is the cookie that carries the session token.
const CookieName = "jwt"

// TokenVerifier checks a session token. auth.Service satisfies it.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*domain.Claims, error)
}

// TokenFromRequest returns the session token from the jwt cookie, falling back
// to an "Authorization: Bearer" header. It returns "" when neither is present.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// Auth returns middleware that validates the session token and injects claims into context.
// Revoked tokens are rejected because verification consults the revocation registry.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := TokenFromRequest(r)
			if tokenStr == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing session token")
				return
			}
			claims, err := verifier.VerifyToken(r.Context(), tokenStr)
			if err != nil {
				if errors.Is(err, domain.ErrUnexpected) {
					slog.Error("token verification failed", "err", err)
					writeJSONError(w, http.StatusInternalServerError, "Unexpected error")
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts session claims from the request context.
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*domain.Claims)
	return c, ok
}
