package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkshorter/internal/events"
	"github.com/serroba/linkshorter/internal/messaging"
	"github.com/serroba/linkshorter/internal/shortener"
	"go.uber.org/zap"
)

// BarcodeService returns the stored barcode image of a short link, creating it on first use.
type BarcodeService interface {
	GetOrCreate(ctx context.Context, token shortener.Token) (io.ReadCloser, error)
}

// BarcodeHandler serves barcode images.
type BarcodeHandler struct {
	service   BarcodeService
	publishes events.Publishers
	logger    *zap.Logger
	now       func() time.Time
}

// NewBarcodeHandler creates a new barcode handler.
func NewBarcodeHandler(service BarcodeService, publishes events.Publishers, logger *zap.Logger) *BarcodeHandler {
	return &BarcodeHandler{
		service:   service,
		publishes: publishes,
		logger:    logger,
		now:       time.Now,
	}
}

// Get streams the PNG barcode for a token. Failures are resolved before the
// first byte is written so that they still map to a status code.
func (h *BarcodeHandler) Get(ctx context.Context, req *TokenRequest) (*huma.StreamResponse, error) {
	image, err := h.service.GetOrCreate(ctx, shortener.Token(req.Token))
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	return &huma.StreamResponse{
		Body: func(hctx huma.Context) {
			defer func() { _ = image.Close() }()

			hctx.SetHeader("Content-Type", "image/png")
			hctx.SetHeader("Cache-Control", "public, max-age=86400")
			hctx.SetStatus(http.StatusOK)

			if _, err := io.Copy(hctx.BodyWriter(), image); err != nil {
				h.logger.Warn("barcode stream interrupted",
					zap.String("token", req.Token),
					zap.Error(err),
				)

				return
			}

			meta := RequestMetaFromContext(ctx)
			messaging.Emit(ctx, h.publishes.BarcodeServed, &events.BarcodeServed{
				Token:     req.Token,
				ServedAt:  h.now(),
				ClientIP:  meta.ClientIP,
				UserAgent: meta.UserAgent,
			}, h.logger, events.TopicBarcodeServed)
		},
	}, nil
}
