package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-auth-core/internal/application/token"
	"github.com/go-auth-core/internal/config"
	"github.com/go-auth-core/internal/domain"
	"github.com/go-auth-core/internal/infrastructure/console"
	"github.com/go-auth-core/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-auth-core/internal/infrastructure/jwt"
	"github.com/go-auth-core/internal/infrastructure/memory"
	"github.com/go-auth-core/internal/infrastructure/postgres"
	redisinfra "github.com/go-auth-core/internal/infrastructure/redis"
	"github.com/go-auth-core/internal/infrastructure/smtp"
	"github.com/go-auth-core/internal/infrastructure/sns"
	"github.com/go-auth-core/internal/infrastructure/sqlite"
	transporthttp "github.com/go-auth-core/internal/transport/http"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// infra holds the shared client handles; each is nil unless a backend uses it.
type infra struct {
	dynamo  *dynamodb.Client
	redis   *redis.Client
	closers []func()
}

func (in *infra) close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		in.closers[i]()
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	in := &infra{}
	defer in.close()

	if cfg.UsesDynamo() {
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			log.Fatalf("dynamodb: %v", err)
		}
		// Bootstrap DynamoDB tables (creates them if they don't exist).
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		in.dynamo = client
	}
	if cfg.UsesRedis() {
		client, err := redisinfra.NewClient(ctx, cfg)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		in.redis = client
		in.closers = append(in.closers, func() { _ = client.Close() })
	}

	identities, err := newIdentityStore(ctx, cfg, in)
	if err != nil {
		log.Fatalf("identity store: %v", err)
	}
	notifier, err := newNotifier(ctx, cfg)
	if err != nil {
		log.Fatalf("notifier: %v", err)
	}
	signer, err := jwtinfra.NewProvider(cfg.JWTSecret, token.TTL)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	deps := &transporthttp.Deps{
		Identities:  identities,
		Challenges:  newChallengeStore(cfg, in),
		Revocations: newRevocationRegistry(cfg, in),
		Notifier:    notifier,
		Signer:      signer,
	}
	slog.Info("backends selected",
		"identities", cfg.IdentityBackend,
		"challenges", cfg.ChallengeBackend,
		"revocations", cfg.RevocationBackend,
		"notifier", cfg.Notifier,
	)

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

func newIdentityStore(ctx context.Context, cfg *config.Config, in *infra) (domain.IdentityStore, error) {
	switch cfg.IdentityBackend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		in.closers = append(in.closers, pool.Close)
		store, err := postgres.NewIdentityStore(pool, "identities")
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return store, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		in.closers = append(in.closers, func() { _ = store.Close() })
		return store, nil
	case config.BackendDynamo:
		return dynamo.NewIdentityRepo(in.dynamo, cfg.DynamoTables.Identities), nil
	default:
		return memory.NewIdentityStore(), nil
	}
}

func newChallengeStore(cfg *config.Config, in *infra) domain.ChallengeStore {
	switch cfg.ChallengeBackend {
	case config.BackendRedis:
		return redisinfra.NewChallengeStore(in.redis)
	case config.BackendDynamo:
		return dynamo.NewChallengeRepo(in.dynamo, cfg.DynamoTables.Challenges)
	default:
		return memory.NewChallengeStore()
	}
}

func newRevocationRegistry(cfg *config.Config, in *infra) domain.RevocationRegistry {
	switch cfg.RevocationBackend {
	case config.BackendRedis:
		return redisinfra.NewRevocationRegistry(in.redis)
	case config.BackendDynamo:
		return dynamo.NewRevocationRepo(in.dynamo, cfg.DynamoTables.RevokedTokens)
	default:
		return memory.NewRevocationRegistry()
	}
}

func newNotifier(ctx context.Context, cfg *config.Config) (domain.Notifier, error) {
	switch cfg.Notifier {
	case config.NotifierSMTP:
		return smtp.NewMailer(cfg), nil
	case config.NotifierSNS:
		return sns.NewSender(ctx, cfg)
	default:
		return console.NewNotifier(slog.Default()), nil
	}
}
