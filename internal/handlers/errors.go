package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkshorter/internal/shortener"
	"go.uber.org/zap"
)

// toHTTPError maps domain failures onto API errors. Messages of classified
// errors are returned to the client; anything else is hidden behind a 500.
func toHTTPError(logger *zap.Logger, err error) error {
	var domainErr *shortener.Error
	if !errors.As(err, &domainErr) {
		if errors.Is(err, shortener.ErrNotFound) {
			return huma.Error404NotFound("not found")
		}

		logger.Error("unexpected error", zap.Error(err))

		return huma.Error500InternalServerError("internal error")
	}

	switch domainErr.Kind {
	case shortener.KindNotFound:
		return huma.Error404NotFound(domainErr.Message())
	case shortener.KindUnknown:
		logger.Error("unclassified domain error", zap.Error(err))

		return huma.Error500InternalServerError("internal error")
	default:
		return huma.Error400BadRequest(domainErr.Message())
	}
}
