package postgres

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-auth-core/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// IdentityStore implements domain.IdentityStore over PostgreSQL.
// The pool is owned by the caller; the store never closes it.
type IdentityStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewIdentityStore returns a store using table (default "identities").
func NewIdentityStore(pool *pgxpool.Pool, table string) (*IdentityStore, error) {
	if pool == nil {
		return nil, errors.New("postgres: nil pool")
	}
	if table == "" {
		table = "identities"
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("postgres: invalid table name %q", table)
	}
	return &IdentityStore{pool: pool, table: table}, nil
}

// Migrate creates the identities table if it does not exist.
func (s *IdentityStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+pgx.Identifier{s.table}.Sanitize()+` (
		email        TEXT PRIMARY KEY,
		password     TEXT NOT NULL,
		requires_2fa BOOLEAN NOT NULL DEFAULT FALSE
	)`)
	if err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

func (s *IdentityStore) Add(ctx context.Context, identity domain.Identity) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+s.ident()+` (email, password, requires_2fa) VALUES ($1, $2, $3)`,
		identity.Email, identity.Password, identity.RequiresSecondFactor,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("identity %s: %w", identity.Email, domain.ErrConflict)
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

func (s *IdentityStore) Get(ctx context.Context, email string) (*domain.Identity, error) {
	var identity domain.Identity
	err := s.pool.QueryRow(ctx,
		`SELECT email, password, requires_2fa FROM `+s.ident()+` WHERE email = $1`, email,
	).Scan(&identity.Email, &identity.Password, &identity.RequiresSecondFactor)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("identity not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}
	return &identity, nil
}

func (s *IdentityStore) Validate(ctx context.Context, email, password string) error {
	identity, err := s.Get(ctx, email)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(identity.Password), []byte(password)) != 1 {
		return domain.ErrInvalidCredentials
	}
	return nil
}

func (s *IdentityStore) ident() string {
	return pgx.Identifier{s.table}.Sanitize()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
