package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/linkshorter/internal/shortener"
)

const uniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed short link store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Save(ctx context.Context, link *shortener.ShortLink) error {
	query := `
		INSERT INTO short_links (token, url, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := p.pool.QueryRow(ctx, query,
		string(link.Token),
		link.URL,
		link.CreatedAt,
	).Scan(&link.ID)

	return mapWriteError(err)
}

func (p *PostgresStore) GetByToken(ctx context.Context, token shortener.Token) (*shortener.ShortLink, error) {
	query := `
		SELECT id, token, url, created_at
		FROM short_links
		WHERE token = $1
	`

	return p.scanOne(ctx, query, string(token))
}

func (p *PostgresStore) GetByURL(ctx context.Context, url string) (*shortener.ShortLink, error) {
	query := `
		SELECT id, token, url, created_at
		FROM short_links
		WHERE url = $1
	`

	return p.scanOne(ctx, query, url)
}

func (p *PostgresStore) ExistsByToken(ctx context.Context, token shortener.Token) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM short_links WHERE token = $1)`, string(token),
	).Scan(&exists)

	return exists, err
}

func (p *PostgresStore) scanOne(ctx context.Context, query string, arg any) (*shortener.ShortLink, error) {
	var link shortener.ShortLink

	err := p.pool.QueryRow(ctx, query, arg).Scan(
		&link.ID,
		&link.Token,
		&link.URL,
		&link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &link, nil
}

// mapWriteError wraps unique violations in shortener.ErrConflict.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", shortener.ErrConflict, pgErr.ConstraintName)
	}

	return err
}

var _ shortener.Repository = (*PostgresStore)(nil)
