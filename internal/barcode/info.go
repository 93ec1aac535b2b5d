package barcode

import (
	"context"
	"time"
)

// Info records where the rendered barcode of a short link is stored.
type Info struct {
	ID          int64
	Path        string
	ShortLinkID int64
	CreatedAt   time.Time
}

// Repository persists barcode infos.
// Absent records return shortener.ErrNotFound; uniqueness violations wrap shortener.ErrConflict.
type Repository interface {
	GetByShortLinkID(ctx context.Context, shortLinkID int64) (*Info, error)
	// Save assigns info its ID.
	Save(ctx context.Context, info *Info) error
	ExistsByPath(ctx context.Context, path string) (bool, error)
}
