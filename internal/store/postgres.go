package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// dbPool is the subset of pgxpool.Pool the store depends on; pgxmock
// satisfies it in tests.
type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Config controls the Postgres connection pool.
type Config struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

// Postgres implements persistence over a pgx connection pool.
type Postgres struct {
	pool dbPool
}

// NewPostgres connects a pool using the provided config.
func NewPostgres(ctx context.Context, cfg Config) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// NewPostgresWithPool constructs a store from an existing pool (primarily for
// testing).
func NewPostgresWithPool(pool dbPool) (*Postgres, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *Postgres) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// SaveWebsiteContent inserts one scrape result and returns the new row ID.
func (s *Postgres) SaveWebsiteContent(ctx context.Context, rec WebsiteContentRecord) (string, error) {
	const query = `
		INSERT INTO website_content (website_url, website_name, user_id, content, analysis, snapshot_uri, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id`

	var id string
	err := s.pool.QueryRow(ctx, query,
		rec.WebsiteURL,
		rec.WebsiteName,
		nullableText(rec.UserID),
		rec.Content,
		rec.Analysis,
		nullableText(rec.SnapshotURI),
		rec.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert website_content: %w", err)
	}
	return id, nil
}

// GetSubmission loads one product submission by ID.
func (s *Postgres) GetSubmission(ctx context.Context, id string) (Submission, error) {
	const query = `
		SELECT id, user_id, website_url, website_name, email, status, updated_at
		FROM product_submissions
		WHERE id = $1`

	var sub Submission
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&sub.ID, &sub.UserID, &sub.WebsiteURL, &sub.WebsiteName,
		&sub.Email, &sub.Status, &sub.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Submission{}, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Submission{}, fmt.Errorf("select submission: %w", err)
	}
	return sub, nil
}

// UpdateSubmissionStatus sets the status for one submission and returns the
// updated row.
func (s *Postgres) UpdateSubmissionStatus(ctx context.Context, id, status string, now time.Time) (Submission, error) {
	const query = `
		UPDATE product_submissions
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, user_id, website_url, website_name, email, status, updated_at`

	var sub Submission
	err := s.pool.QueryRow(ctx, query, id, status, now).Scan(
		&sub.ID, &sub.UserID, &sub.WebsiteURL, &sub.WebsiteName,
		&sub.Email, &sub.Status, &sub.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Submission{}, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Submission{}, fmt.Errorf("update submission status: %w", err)
	}
	return sub, nil
}

// GetUser loads one user row by ID.
func (s *Postgres) GetUser(ctx context.Context, id string) (User, error) {
	const query = `SELECT id, email, name FROM users WHERE id = $1`

	var u User
	err := s.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// GetPayment loads one payment row by ID.
func (s *Postgres) GetPayment(ctx context.Context, id string) (Payment, error) {
	const query = `
		SELECT id, user_id, submission_id, amount, status, updated_at
		FROM payments
		WHERE id = $1`

	var p Payment
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.SubmissionID, &p.Amount, &p.Status, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payment{}, fmt.Errorf("payment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Payment{}, fmt.Errorf("select payment: %w", err)
	}
	return p, nil
}

// FetchRowsUpdatedSince returns the requested columns of every row whose
// updated_at is at or after since; a zero since fetches the whole table.
// Table and field names are validated because they are interpolated.
func (s *Postgres) FetchRowsUpdatedSince(ctx context.Context, table string, fields []string, since time.Time) ([]map[string]any, error) {
	if !validIdentifier.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("at least one field is required")
	}
	for _, f := range fields {
		if !validIdentifier.MatchString(f) {
			return nil, fmt.Errorf("invalid field name %q", f)
		}
	}

	query := fmt.Sprintf("SELECT %s FROM %s", joinIdentifiers(fields), table)
	args := []any{}
	if !since.IsZero() {
		query += " WHERE updated_at >= $1"
		args = append(args, since)
	}
	query += " ORDER BY updated_at"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read %s row: %w", table, err)
		}
		row := make(map[string]any, len(fields))
		for i, desc := range rows.FieldDescriptions() {
			row[string(desc.Name)] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", table, err)
	}
	return out, nil
}

func joinIdentifiers(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ", "
		}
		out += f
	}
	return out
}

// nullableText maps empty strings to NULL for optional text columns.
func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
