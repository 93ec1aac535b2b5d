package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultTokenLength is the token length used when none is configured.
const DefaultTokenLength = 5

// MaxTokenRegenerations caps how many times a colliding token is replaced
// before creation gives up, so at most MaxTokenRegenerations+1 tokens are tried.
const MaxTokenRegenerations = 3

// Recorder receives counters from the short link service.
type Recorder interface {
	ShortLinkCreated()
	ShortLinkDeduplicated()
	TokenCollision()
}

type nopRecorder struct{}

func (nopRecorder) ShortLinkCreated()      {}
func (nopRecorder) ShortLinkDeduplicated() {}
func (nopRecorder) TokenCollision()        {}

// Service creates and resolves short links.
type Service struct {
	store       Repository
	generate    TokenGenerator
	tokenLength int
	logger      *zap.Logger
	recorder    Recorder
	now         func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

// WithTokenGenerator replaces the random token generator.
func WithTokenGenerator(generate TokenGenerator) Option {
	return func(s *Service) {
		s.generate = generate
	}
}

// WithClock replaces the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a short link service issuing tokens of tokenLength symbols.
func NewService(store Repository, tokenLength int, opts ...Option) *Service {
	s := &Service{
		store:       store,
		generate:    GenerateToken,
		tokenLength: tokenLength,
		logger:      zap.NewNop(),
		recorder:    nopRecorder{},
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create returns the short link for url, creating it when the url is new.
// Repeated calls with the same url return the same token.
func (s *Service) Create(ctx context.Context, url string) (*ShortLink, error) {
	link, _, err := s.Shorten(ctx, url)

	return link, err
}

// Shorten is Create that also reports whether the link was persisted by this call.
func (s *Service) Shorten(ctx context.Context, url string) (*ShortLink, bool, error) {
	logger := s.logger.With(zap.String("url", url))
	logger.Debug("creating short link")

	existing, err := s.store.GetByURL(ctx, url)
	if err == nil {
		logger.Debug("short link with same url already exists",
			zap.Int64("shortLinkId", existing.ID),
			zap.String("token", string(existing.Token)),
		)
		s.recorder.ShortLinkDeduplicated()

		return existing, false, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, false, s.fail(logger, NewError(KindShortLinkSaving, url, err, "looking up short link by url"))
	}

	link, err := NewShortLink(url, s.tokenLength, s.generate)
	if err != nil {
		return nil, false, s.fail(logger, asInvalidArgument(url, err))
	}

	if err = s.assignFreeToken(ctx, logger, link); err != nil {
		return nil, false, err
	}

	link.CreatedAt = s.now()

	if err = s.store.Save(ctx, link); err != nil {
		msg := fmt.Sprintf("saving short link with token %s", link.Token)

		return nil, false, s.fail(logger, NewError(KindShortLinkSaving, url, err, msg))
	}

	logger.Info("short link saved",
		zap.String("token", string(link.Token)),
		zap.Int64("shortLinkId", link.ID),
	)
	s.recorder.ShortLinkCreated()

	return link, true, nil
}

// assignFreeToken regenerates the link token until the store no longer knows it.
func (s *Service) assignFreeToken(ctx context.Context, logger *zap.Logger, link *ShortLink) error {
	for regenerations := 0; ; regenerations++ {
		exists, err := s.store.ExistsByToken(ctx, link.Token)
		if err != nil {
			msg := fmt.Sprintf("checking token %s", link.Token)

			return s.fail(logger, NewError(KindShortLinkSaving, link.URL, err, msg))
		}

		if !exists {
			return nil
		}

		s.recorder.TokenCollision()

		if regenerations == MaxTokenRegenerations {
			return s.fail(logger, NewError(KindInvalidTokenGeneration, link.URL, nil,
				"token regeneration attempts exhausted"))
		}

		if err = link.RegenerateToken(s.tokenLength, s.generate); err != nil {
			return s.fail(logger, asInvalidArgument(link.URL, err))
		}

		logger.Debug("token collision, regenerated token",
			zap.Int("attempt", regenerations+1),
			zap.String("token", string(link.Token)),
		)
	}
}

// GetByToken resolves a token to its short link.
func (s *Service) GetByToken(ctx context.Context, token Token) (*ShortLink, error) {
	link, err := s.store.GetByToken(ctx, token)
	if err == nil {
		return link, nil
	}

	if errors.Is(err, ErrNotFound) {
		s.logger.Debug("short link not found", zap.String("token", string(token)))

		return nil, NewError(KindNotFound, string(token), err, "short link not found")
	}

	return nil, fmt.Errorf("get short link %s: %w", token, err)
}

func (s *Service) fail(logger *zap.Logger, err *Error) error {
	logger.Error(err.Message(),
		zap.String("kind", string(err.Kind)),
		zap.Error(err.Err),
	)

	return err
}

func asInvalidArgument(key string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return NewError(KindInvalidArgument, key, err, "generating token")
}
