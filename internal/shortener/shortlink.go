package shortener

import "time"

// ShortLink pairs a token with the URL it redirects to.
type ShortLink struct {
	ID        int64 // zero until the link is persisted
	Token     Token
	URL       string
	CreatedAt time.Time
}

// NewShortLink builds an unpersisted short link with a freshly generated token.
func NewShortLink(url string, tokenLength int, generate TokenGenerator) (*ShortLink, error) {
	token, err := generate(tokenLength)
	if err != nil {
		return nil, err
	}

	return &ShortLink{
		Token: token,
		URL:   url,
	}, nil
}

// Persisted reports whether a store has assigned the link its identity.
func (s *ShortLink) Persisted() bool {
	return s.ID != 0
}

// RegenerateToken replaces the token of a link that has not been persisted yet.
func (s *ShortLink) RegenerateToken(tokenLength int, generate TokenGenerator) error {
	if s.Persisted() {
		return ErrTokenFrozen
	}

	token, err := generate(tokenLength)
	if err != nil {
		return err
	}

	s.Token = token

	return nil
}
