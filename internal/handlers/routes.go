package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkshorter/internal/ratelimit"
)

// RegisterRoutes registers the short link and barcode routes.
func RegisterRoutes(api huma.API, links *ShortLinkHandler, barcodes *BarcodeHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-short-link",
		Method:        http.MethodPost,
		Path:          "/shortlinks",
		Summary:       "Create short link",
		Description:   "Returns the short link of a URL, creating it the first time the URL is seen.",
		Tags:          []string{"Short links"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeWrite},
		},
	}, links.Create)

	huma.Register(api, huma.Operation{
		OperationID: "redirect-short-link",
		Method:      http.MethodGet,
		Path:        "/shortlinks/token/{token}",
		Summary:     "Redirect to original URL",
		Tags:        []string{"Short links"},
	}, links.Redirect)

	// Rendering a barcode the first time writes a blob, so it is budgeted as a write.
	huma.Register(api, huma.Operation{
		OperationID: "get-barcode",
		Method:      http.MethodGet,
		Path:        "/barcodes/token/{token}",
		Summary:     "Get barcode",
		Description: "Returns the PNG barcode of a short link URL, rendering and storing it on first request.",
		Tags:        []string{"Barcodes"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "PNG barcode image",
				Content:     map[string]*huma.MediaType{"image/png": {}},
			},
		},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeWrite},
		},
	}, barcodes.Get)
}
