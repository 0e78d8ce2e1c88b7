package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore reads credential rows from the platform's per-role account
// tables. The tables are owned by the surrounding platform; this store only
// touches id, email, display_name, password_hash, and created_at.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an existing *sql.DB. The caller owns the pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgresStore opens a pgx-backed *sql.DB for dsn and wraps it.
func OpenPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &PostgresStore{db: db}, nil
}

// roleTable maps a role to its account table. Exhaustive over the closed
// role set; an invalid role is a caller bug surfaced as ErrUnknownRole.
func roleTable(role Role) (string, error) {
	switch role {
	case RoleAdmin:
		return "admins", nil
	case RoleStudent:
		return "students", nil
	case RoleViewer:
		return "viewers", nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownRole, uint8(role))
	}
}

// Lookup fetches the credential record for (role, email).
func (s *PostgresStore) Lookup(ctx context.Context, role Role, email string) (*Record, error) {
	table, err := roleTable(role)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT id, email, display_name, password_hash, created_at
		 FROM %s WHERE email = $1`, table)

	rec := &Record{}
	err = s.db.QueryRowContext(ctx, query, email).Scan(
		&rec.ID, &rec.Email, &rec.DisplayName, &rec.PasswordHash, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return rec, nil
}

// UpdatePasswordHash replaces the stored hash for (role, email). Always
// writes the modern hash form; legacy plaintext rows are migrated here.
func (s *PostgresStore) UpdatePasswordHash(ctx context.Context, role Role, email, passwordHash string) error {
	table, err := roleTable(role)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET password_hash = $1 WHERE email = $2`, table)

	res, err := s.db.ExecContext(ctx, query, passwordHash, email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
