package sqlite

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-auth-core/internal/domain"
	"github.com/go-auth-core/internal/infrastructure/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// IdentityStore implements domain.IdentityStore over a single SQLite file.
type IdentityStore struct {
	db *sql.DB
}

// Open opens the SQLite file at path and applies the bundled migrations.
func Open(path string) (*IdentityStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite allows one writer; a single connection keeps writes serialized in-process.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	s := &IdentityStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// Close releases the underlying database.
func (s *IdentityStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *IdentityStore) migrate() error {
	names, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		body, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(body)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

func (s *IdentityStore) Add(ctx context.Context, identity domain.Identity) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO identities (email, password, requires_2fa) VALUES (?, ?, ?)`,
		identity.Email, identity.Password, identity.RequiresSecondFactor,
	)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("identity %s: %w", identity.Email, domain.ErrConflict)
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

func (s *IdentityStore) Get(ctx context.Context, email string) (*domain.Identity, error) {
	var identity domain.Identity
	err := s.db.QueryRowContext(ctx,
		`SELECT email, password, requires_2fa FROM identities WHERE email = ?`, email,
	).Scan(&identity.Email, &identity.Password, &identity.RequiresSecondFactor)
	if errors.Is(err, sql.ErrNoRows) {
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

func isConstraintError(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
