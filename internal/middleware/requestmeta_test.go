package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/linkshorter/internal/handlers"
	"github.com/serroba/linkshorter/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOutput struct {
	Body string `json:"body"`
}

func setupTestAPI(t *testing.T) (*chi.Mux, chan handlers.RequestMeta) {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api))

	metas := make(chan handlers.RequestMeta, 1)

	huma.Get(api, "/test", func(ctx context.Context, _ *struct{}) (*testOutput, error) {
		metas <- handlers.RequestMetaFromContext(ctx)

		return &testOutput{Body: "ok"}, nil
	})

	return router, metas
}

func TestRequestMeta(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		expected handlers.RequestMeta
	}{
		{
			name: "extracts user-agent and referrer",
			headers: map[string]string{
				"User-Agent": "TestAgent/1.0",
				"Referer":    "https://example.com",
			},
			expected: handlers.RequestMeta{
				ClientIP:  "192.0.2.1",
				UserAgent: "TestAgent/1.0",
				Referrer:  "https://example.com",
			},
		},
		{
			name:     "extracts IP from X-Forwarded-For with single IP",
			headers:  map[string]string{"X-Forwarded-For": "192.168.1.1"},
			expected: handlers.RequestMeta{ClientIP: "192.168.1.1"},
		},
		{
			name:     "extracts first IP from X-Forwarded-For with multiple IPs",
			headers:  map[string]string{"X-Forwarded-For": "192.168.1.1, 10.0.0.1, 172.16.0.1"},
			expected: handlers.RequestMeta{ClientIP: "192.168.1.1"},
		},
		{
			name:     "extracts IP from X-Real-IP when X-Forwarded-For is absent",
			headers:  map[string]string{"X-Real-IP": "10.0.0.1"},
			expected: handlers.RequestMeta{ClientIP: "10.0.0.1"},
		},
		{
			name:     "falls back to remote address when no IP headers present",
			expected: handlers.RequestMeta{ClientIP: "192.0.2.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, metas := setupTestAPI(t)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expected, <-metas)
		})
	}
}
