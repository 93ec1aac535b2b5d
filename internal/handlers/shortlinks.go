package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/serroba/linkshorter/internal/events"
	"github.com/serroba/linkshorter/internal/messaging"
	"github.com/serroba/linkshorter/internal/shortener"
	"go.uber.org/zap"
)

// ShortLinkService creates and resolves short links.
type ShortLinkService interface {
	// Shorten returns the link for url and whether this call persisted it.
	Shorten(ctx context.Context, url string) (*shortener.ShortLink, bool, error)
	GetByToken(ctx context.Context, token shortener.Token) (*shortener.ShortLink, error)
}

// ShortLinkHandler handles short link operations.
type ShortLinkHandler struct {
	service   ShortLinkService
	baseURL   string
	publishes events.Publishers
	logger    *zap.Logger
	now       func() time.Time
}

// NewShortLinkHandler creates a new short link handler.
func NewShortLinkHandler(
	service ShortLinkService,
	baseURL string,
	publishes events.Publishers,
	logger *zap.Logger,
) *ShortLinkHandler {
	return &ShortLinkHandler{
		service:   service,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		publishes: publishes,
		logger:    logger,
		now:       time.Now,
	}
}

// Create shortens the requested URL. Repeating a URL returns its existing token.
func (h *ShortLinkHandler) Create(ctx context.Context, req *CreateShortLinkRequest) (*CreateShortLinkResponse, error) {
	if err := shortener.ValidateURL(req.Body.URL); err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	link, created, err := h.service.Shorten(ctx, req.Body.URL)
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	if created {
		meta := RequestMetaFromContext(ctx)
		messaging.Emit(ctx, h.publishes.ShortLinkCreated, &events.ShortLinkCreated{
			ShortLinkID: link.ID,
			Token:       string(link.Token),
			URL:         link.URL,
			CreatedAt:   link.CreatedAt,
			ClientIP:    meta.ClientIP,
			UserAgent:   meta.UserAgent,
		}, h.logger, events.TopicShortLinkCreated)
	}

	shortURL := h.ShortURL(link.Token)

	resp := &CreateShortLinkResponse{Status: http.StatusCreated}
	resp.Headers.Location = shortURL
	resp.Body.Token = string(link.Token)
	resp.Body.URL = link.URL
	resp.Body.ShortURL = shortURL

	return resp, nil
}

// Redirect sends the client to the URL behind a token.
func (h *ShortLinkHandler) Redirect(ctx context.Context, req *TokenRequest) (*RedirectResponse, error) {
	link, err := h.service.GetByToken(ctx, shortener.Token(req.Token))
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}

	meta := RequestMetaFromContext(ctx)
	messaging.Emit(ctx, h.publishes.ShortLinkResolved, &events.ShortLinkResolved{
		Token:      req.Token,
		ResolvedAt: h.now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}, h.logger, events.TopicShortLinkResolved)

	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = link.URL

	return resp, nil
}

// ShortURL is the public redirect address of token.
func (h *ShortLinkHandler) ShortURL(token shortener.Token) string {
	return h.baseURL + "/shortlinks/token/" + string(token)
}
