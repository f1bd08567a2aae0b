package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-auth-core/internal/application/token"
	"github.com/go-auth-core/internal/domain"
	"github.com/go-auth-core/internal/pkg/code"
	"github.com/go-auth-core/internal/pkg/id"
	"github.com/go-auth-core/internal/pkg/validate"
)

// TwoFASubject is the subject line of the message carrying a second-factor code.
const TwoFASubject = "2FA code for your login"

// LoginResult carries exactly one of Token (authenticated) or LoginAttemptID
// (a second-factor challenge was issued).
type LoginResult struct {
	Token          string
	LoginAttemptID string
}

// Challenged reports whether the login stopped at the second factor.
func (r *LoginResult) Challenged() bool { return r.LoginAttemptID != "" }

// Service runs the signup, login, second-factor and logout protocol. Every
// error it returns wraps exactly one of domain.ErrValidation, ErrConflict,
// ErrCredentialsRejected, ErrMissingToken, ErrInvalidToken or ErrUnexpected.
type Service interface {
	Signup(ctx context.Context, req domain.SignupRequest) error
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
	VerifyTwoFactor(ctx context.Context, req domain.VerifyTwoFactorRequest) (string, error)
	Logout(ctx context.Context, token string) error
	VerifyToken(ctx context.Context, token string) (*domain.Claims, error)
}

// ServiceDeps holds all dependencies for the auth service.
type ServiceDeps struct {
	Identities domain.IdentityStore
	Challenges domain.ChallengeStore
	Tokens     token.Service
	Notifier   domain.Notifier
}

type service struct {
	identities domain.IdentityStore
	challenges domain.ChallengeStore
	tokens     token.Service
	notifier   domain.Notifier
}

func NewService(deps ServiceDeps) Service {
	return &service{
		identities: deps.Identities,
		challenges: deps.Challenges,
		tokens:     deps.Tokens,
		notifier:   deps.Notifier,
	}
}

func (s *service) Signup(ctx context.Context, req domain.SignupRequest) error {
	if err := credentials(req.Email, req.Password); err != nil {
		return err
	}
	err := s.identities.Add(ctx, domain.Identity{
		Email:                req.Email,
		Password:             req.Password,
		RequiresSecondFactor: req.RequiresSecondFactor,
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrConflict):
		return fmt.Errorf("signup: %w", err)
	default:
		return fmt.Errorf("add identity: %w: %w", domain.ErrUnexpected, err)
	}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	if err := credentials(req.Email, req.Password); err != nil {
		return nil, err
	}
	if err := s.identities.Validate(ctx, req.Email, req.Password); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, domain.ErrCredentialsRejected
		}
		return nil, fmt.Errorf("validate identity: %w: %w", domain.ErrUnexpected, err)
	}
	identity, err := s.identities.Get(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get identity: %w: %w", domain.ErrUnexpected, err)
	}

	if !identity.RequiresSecondFactor {
		tok, err := s.tokens.Issue(identity.Email)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Token: tok}, nil
	}

	attemptID := id.NewLoginAttemptID()
	twoFACode, err := code.NewTwoFACode()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnexpected, err)
	}
	// A newer login replaces any pending challenge for the same email.
	if err := s.challenges.Put(ctx, identity.Email, attemptID, twoFACode); err != nil {
		return nil, fmt.Errorf("store challenge: %w: %w", domain.ErrUnexpected, err)
	}
	// The challenge is kept when dispatch fails; the next login overwrites it.
	if err := s.notifier.Send(ctx, identity.Email, TwoFASubject, twoFACode); err != nil {
		slog.Error("failed to dispatch 2FA code", "email", identity.Email, "err", err)
		return nil, fmt.Errorf("send 2FA code: %w: %w", domain.ErrUnexpected, err)
	}
	return &LoginResult{LoginAttemptID: attemptID}, nil
}

func (s *service) VerifyTwoFactor(ctx context.Context, req domain.VerifyTwoFactorRequest) (string, error) {
	if err := validate.Email(req.Email); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validate.LoginAttemptID(req.LoginAttemptID); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validate.TwoFACode(req.TwoFACode); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	err := s.challenges.Consume(ctx, req.Email, req.LoginAttemptID, req.TwoFACode)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrChallengeMismatch):
		return "", domain.ErrCredentialsRejected
	default:
		return "", fmt.Errorf("consume challenge: %w: %w", domain.ErrUnexpected, err)
	}
	return s.tokens.Issue(req.Email)
}

func (s *service) Logout(ctx context.Context, tok string) error {
	if tok == "" {
		return fmt.Errorf("%w: %w", domain.ErrMissingToken, domain.ErrTokenMissing)
	}
	claims, err := s.validToken(ctx, tok)
	if err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, tok, claims)
}

func (s *service) VerifyToken(ctx context.Context, tok string) (*domain.Claims, error) {
	return s.validToken(ctx, tok)
}

// validToken maps token rejections to ErrInvalidToken, keeping the rejection
// kind in the chain. Infrastructure failures pass through as ErrUnexpected.
func (s *service) validToken(ctx context.Context, tok string) (*domain.Claims, error) {
	claims, err := s.tokens.Validate(ctx, tok)
	if err == nil {
		return claims, nil
	}
	if errors.Is(err, domain.ErrUnexpected) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
}

func credentials(email, password string) error {
	if err := validate.Email(email); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := validate.Password(password); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
