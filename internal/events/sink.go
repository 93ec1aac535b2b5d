package events

import (
	"context"

	"go.uber.org/zap"
)

// Sink persists consumed events.
type Sink interface {
	SaveShortLinkCreated(ctx context.Context, event *ShortLinkCreated) error
	SaveShortLinkResolved(ctx context.Context, event *ShortLinkResolved) error
	SaveBarcodeServed(ctx context.Context, event *BarcodeServed) error
}

// LogSink writes events to the structured log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a sink logging at info level.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) SaveShortLinkCreated(_ context.Context, event *ShortLinkCreated) error {
	s.logger.Info("short link created event received",
		zap.Int64("shortLinkId", event.ShortLinkID),
		zap.String("token", event.Token),
		zap.String("url", event.URL),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (s *LogSink) SaveShortLinkResolved(_ context.Context, event *ShortLinkResolved) error {
	s.logger.Info("short link resolved event received",
		zap.String("token", event.Token),
		zap.Time("resolvedAt", event.ResolvedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

func (s *LogSink) SaveBarcodeServed(_ context.Context, event *BarcodeServed) error {
	s.logger.Info("barcode served event received",
		zap.String("token", event.Token),
		zap.Time("servedAt", event.ServedAt),
	)

	return nil
}

var _ Sink = (*LogSink)(nil)
