package http

import (
	"net/http"

	"github.com/go-auth-core/internal/application/auth"
	"github.com/go-auth-core/internal/application/token"
	"github.com/go-auth-core/internal/config"
	"github.com/go-auth-core/internal/transport/http/handler"
	appmiddleware "github.com/go-auth-core/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	tokenSvc := token.NewService(deps.Signer, deps.Revocations)
	authSvc := auth.NewService(auth.ServiceDeps{
		Identities: deps.Identities,
		Challenges: deps.Challenges,
		Tokens:     tokenSvc,
		Notifier:   deps.Notifier,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, cfg.AppEnv == config.EnvProduction)

	// ── Public routes ────────────────────────────────────────────────────────
	r.Get("/health-check/{action}", healthH.Ping)
	r.Post("/signup", authH.Signup)
	r.Post("/login", authH.Login)
	r.Post("/verify-2fa", authH.VerifyTwoFactor)
	r.Post("/logout", authH.Logout)
	r.Post("/verify-token", authH.VerifyToken)

	// ── Authenticated routes ─────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.Auth(authSvc))
		r.Get("/session", authH.Session)
	})

	return r
}
