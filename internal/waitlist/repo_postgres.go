package waitlist

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRepo persists subscribers in Postgres through database/sql.
// Open the *sql.DB with the "pgx" driver.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS waitlist_subscribers (
    id         UUID PRIMARY KEY,
    email      TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the subscriber table when missing.
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create waitlist table: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Add(ctx context.Context, s Subscriber) (bool, error) {
	const query = `
        INSERT INTO waitlist_subscribers (id, email, created_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (email) DO NOTHING
    `
	res, err := r.db.ExecContext(ctx, query, s.ID, s.Email, s.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("insert subscriber: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert subscriber: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM waitlist_subscribers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return n, nil
}
