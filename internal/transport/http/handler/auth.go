package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-auth-core/internal/application/auth"
	"github.com/go-auth-core/internal/domain"
	"github.com/go-auth-core/internal/transport/http/middleware"
)

// AuthHandler exposes the signup, login, second-factor and logout endpoints.
type AuthHandler struct {
	svc          auth.Service
	secureCookie bool
}

func NewAuthHandler(svc auth.Service, secureCookie bool) *AuthHandler {
	return &AuthHandler{svc: svc, secureCookie: secureCookie}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Signup(r.Context(), req); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "User created successfully!"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if result.Challenged() {
		writeJSON(w, http.StatusPartialContent, TwoFactorEnvelope{
			Message:        "2FA required",
			LoginAttemptID: result.LoginAttemptID,
		})
		return
	}
	h.setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Logged in"})
}

func (h *AuthHandler) VerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyTwoFactorRequest
	if !decode(w, r, &req) {
		return
	}
	token, err := h.svc.VerifyTwoFactor(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Logged in"})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), middleware.TokenFromRequest(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Logged out"})
}

func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "token required")
		return
	}
	claims, err := h.svc.VerifyToken(r.Context(), req.Token)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{
		Message:   "Token is valid",
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Unix(),
	})
}

// Session returns the claims of the caller's token. It must run behind middleware.Auth.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Unix(),
		IssuedAt:  claims.IssuedAt.Unix(),
		ID:        claims.ID,
	})
}

// The cookie has no Max-Age; the token's own exp bounds the session.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// decode writes 422 and returns false when the body is not valid JSON for v.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps auth outcome errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "User already exists")
	case errors.Is(err, domain.ErrCredentialsRejected):
		writeError(w, http.StatusUnauthorized, "Incorrect credentials")
	case errors.Is(err, domain.ErrMissingToken):
		writeError(w, http.StatusBadRequest, "Missing token")
	case errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Invalid token")
	default:
		slog.Error("unexpected auth error", "err", err)
		writeError(w, http.StatusInternalServerError, "Unexpected error")
	}
}
