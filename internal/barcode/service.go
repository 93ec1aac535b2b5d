package barcode

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/serroba/linkshorter/internal/shortener"
	"go.uber.org/zap"
)

// ShortLinkResolver resolves tokens to persisted short links.
type ShortLinkResolver interface {
	GetByToken(ctx context.Context, token shortener.Token) (*shortener.ShortLink, error)
}

// Recorder receives counters from the barcode service.
type Recorder interface {
	BarcodeCacheHit()
	BarcodeCacheMiss()
	BarcodeFailure(kind shortener.Kind)
	OrphansRemoved(n int)
}

type nopRecorder struct{}

func (nopRecorder) BarcodeCacheHit()                {}
func (nopRecorder) BarcodeCacheMiss()               {}
func (nopRecorder) BarcodeFailure(_ shortener.Kind) {}
func (nopRecorder) OrphansRemoved(_ int)            {}

// Config holds the barcode rendering settings.
type Config struct {
	URLTemplate URLTemplate
	BasePath    string
}

// Service returns the barcode of a short link, rendering and storing it on first use.
type Service struct {
	links    ShortLinkResolver
	infos    Repository
	encoder  Encoder
	blobs    BlobStore
	cfg      Config
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time
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

// WithClock replaces the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a barcode service.
func NewService(
	links ShortLinkResolver,
	infos Repository,
	encoder Encoder,
	blobs BlobStore,
	cfg Config,
	opts ...Option,
) *Service {
	s := &Service{
		links:    links,
		infos:    infos,
		encoder:  encoder,
		blobs:    blobs,
		cfg:      cfg,
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetOrCreate returns a stream over the barcode of the short link behind token.
// The first call renders and stores the barcode; later calls read the stored copy.
// The caller must close the returned stream.
func (s *Service) GetOrCreate(ctx context.Context, token shortener.Token) (io.ReadCloser, error) {
	logger := s.logger.With(zap.String("token", string(token)))
	logger.Debug("getting or creating barcode")

	link, err := s.links.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	logger = logger.With(zap.Int64("shortLinkId", link.ID))

	info, err := s.infos.GetByShortLinkID(ctx, link.ID)
	if err == nil {
		return s.open(ctx, logger, info)
	}

	if !errors.Is(err, shortener.ErrNotFound) {
		return nil, s.fail(logger, shortener.NewError(shortener.KindBarcodeReading,
			strconv.FormatInt(link.ID, 10), err, "looking up barcode info"))
	}

	s.recorder.BarcodeCacheMiss()

	return s.create(ctx, logger, link)
}

func (s *Service) open(ctx context.Context, logger *zap.Logger, info *Info) (io.ReadCloser, error) {
	logger.Debug("barcode found, reading blob", zap.String("path", info.Path))

	r, err := s.blobs.Open(ctx, info.Path)
	if err != nil {
		return nil, s.fail(logger, shortener.NewError(shortener.KindBarcodeReading,
			strconv.FormatInt(info.ShortLinkID, 10), err, "reading barcode "+info.Path))
	}

	s.recorder.BarcodeCacheHit()

	return r, nil
}

func (s *Service) create(ctx context.Context, logger *zap.Logger, link *shortener.ShortLink) (io.ReadCloser, error) {
	key := strconv.FormatInt(link.ID, 10)
	text := s.cfg.URLTemplate.Format(link.Token)

	logger.Debug("generating barcode", zap.String("text", text))

	stream, err := s.encoder.Encode(ctx, text)
	if err != nil {
		if stream != nil {
			_ = stream.Close()
		}

		return nil, s.fail(logger, shortener.NewError(shortener.KindBarcodeGeneration, key, err,
			"generating barcode"))
	}

	blobPath := BlobPath(s.cfg.BasePath, link.Token)
	logger = logger.With(zap.String("path", blobPath))

	if err = s.blobs.Save(ctx, stream, blobPath); err != nil {
		_ = stream.Close()

		return nil, s.fail(logger, shortener.NewError(shortener.KindBarcodeSaving, key, err,
			"saving barcode "+blobPath))
	}

	if _, err = stream.Seek(0, io.SeekStart); err != nil {
		_ = stream.Close()

		return nil, s.fail(logger, shortener.NewError(shortener.KindBarcodeSaving, key, err,
			"rewinding barcode "+blobPath))
	}

	info := &Info{
		Path:        blobPath,
		ShortLinkID: link.ID,
		CreatedAt:   s.now(),
	}

	if err = s.infos.Save(ctx, info); err != nil {
		_ = stream.Close()

		return nil, s.fail(logger, shortener.NewError(shortener.KindBarcodeInfoSaving, key, err,
			"saving barcode info for "+blobPath))
	}

	logger.Info("barcode info saved", zap.Int64("barcodeInfoId", info.ID))

	return stream, nil
}

func (s *Service) fail(logger *zap.Logger, err *shortener.Error) error {
	logger.Error(err.Message(),
		zap.String("kind", string(err.Kind)),
		zap.Error(err.Err),
	)
	s.recorder.BarcodeFailure(err.Kind)

	return err
}
