package shortener

import "context"

// Repository persists short links.
//
// Implementations must enforce uniqueness of both Token and URL and report
// violations wrapping ErrConflict. Lookups of absent links return ErrNotFound.
type Repository interface {
	// Save inserts the link and assigns its ID.
	Save(ctx context.Context, link *ShortLink) error
	GetByToken(ctx context.Context, token Token) (*ShortLink, error)
	GetByURL(ctx context.Context, url string) (*ShortLink, error)
	ExistsByToken(ctx context.Context, token Token) (bool, error)
}
