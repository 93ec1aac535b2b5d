package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/linkshorter/internal/barcode"
	"github.com/serroba/linkshorter/internal/shortener"
)

// PostgresBarcodeStore is a PostgreSQL implementation of barcode.Repository.
type PostgresBarcodeStore struct {
	pool *pgxpool.Pool
}

// NewPostgresBarcodeStore creates a new PostgreSQL-backed barcode info store.
func NewPostgresBarcodeStore(pool *pgxpool.Pool) *PostgresBarcodeStore {
	return &PostgresBarcodeStore{pool: pool}
}

func (p *PostgresBarcodeStore) GetByShortLinkID(ctx context.Context, shortLinkID int64) (*barcode.Info, error) {
	query := `
		SELECT id, path, short_link_id, created_at
		FROM barcode_infos
		WHERE short_link_id = $1
	`

	var info barcode.Info

	err := p.pool.QueryRow(ctx, query, shortLinkID).Scan(
		&info.ID,
		&info.Path,
		&info.ShortLinkID,
		&info.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &info, nil
}

func (p *PostgresBarcodeStore) Save(ctx context.Context, info *barcode.Info) error {
	query := `
		INSERT INTO barcode_infos (path, short_link_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := p.pool.QueryRow(ctx, query, info.Path, info.ShortLinkID, info.CreatedAt).Scan(&info.ID)

	return mapWriteError(err)
}

func (p *PostgresBarcodeStore) ExistsByPath(ctx context.Context, path string) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM barcode_infos WHERE path = $1)`, path,
	).Scan(&exists)

	return exists, err
}

var _ barcode.Repository = (*PostgresBarcodeStore)(nil)
