// Package pg implements every store interface on PostgreSQL through
// database/sql and the pgx stdlib driver. Soft deletes are filtered
// UPDATEs with an is_deleted precondition; TIN columns pass through the
// field codec on every read and write.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"systemaide.org/internal/audit"
	"systemaide.org/internal/auth"
	"systemaide.org/internal/books"
	"systemaide.org/internal/fieldcrypt"
)

const pgErrUniqueViolation = "23505"

type Store struct {
	db    *sql.DB
	codec *fieldcrypt.Codec
}

var (
	_ auth.Store  = (*Store)(nil)
	_ books.Store = (*Store)(nil)
)

func Open(dsn string, codec *fieldcrypt.Codec) (*Store, error) {
	if codec == nil {
		return nil, errors.New("pg: field codec is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db, codec: codec}, nil
}

// NewWithDB wraps an existing connection (used by tests with sqlmock).
func NewWithDB(db *sql.DB, codec *fieldcrypt.Codec) *Store {
	return &Store{db: db, codec: codec}
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Users() auth.UserStore             { return &userStore{s} }
func (s *Store) Roles() auth.RoleStore             { return &roleStore{s} }
func (s *Store) Permissions() auth.PermissionStore { return &permissionStore{s} }

func (s *Store) Companies() books.CompanyStore { return &companyStore{s} }
func (s *Store) Branches() books.BranchStore   { return &branchStore{s} }
func (s *Store) Locations() books.LocationStore { return &locationStore{s} }
func (s *Store) Agents() books.AgentStore       { return &agentStore{s} }
func (s *Store) Accounts() books.AccountStore   { return &accountStore{s} }
func (s *Store) Journals() books.JournalStore   { return &journalStore{s} }

// AuditLogs returns the transaction-log store.
func (s *Store) AuditLogs() audit.Store { return &auditStore{s} }

// softDeleteRow flips is_deleted on an active row. A missing or
// already-deleted row reports notFound.
func (s *Store) softDeleteRow(ctx context.Context, table, id string, notFound error) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		update %s
		set is_deleted = true, deleted_at = now(), updated_at = now()
		where id = $1 and not is_deleted
	`, table), id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return notFound
	}
	return nil
}

// restoreRow flips is_deleted back on a deleted row and stamps
// restored_at. deleted_at stays as history.
func (s *Store) restoreRow(ctx context.Context, table, id string, notFound error) error {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		update %s
		set is_deleted = false, restored_at = now(), updated_at = now()
		where id = $1 and is_deleted
	`, table), id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return notFound
	}
	return nil
}

// encrypt seals a TIN for storage; empty stays empty.
func (s *Store) encrypt(plain string) (string, error) {
	return s.codec.Encrypt(plain)
}

// decrypt opens a stored TIN; garbage reads as empty.
func (s *Store) decrypt(sealed string) string {
	return s.codec.Decrypt(sealed)
}

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func nullIfEmpty(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func timeOrNil(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
