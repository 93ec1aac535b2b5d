package ratelimit_test

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"mime/multipart"
	"net/url"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkshorter/internal/ratelimit"
	"github.com/stretchr/testify/assert"
)

var errMultipartNotSupported = errors.New("multipart not supported in mock")

// mockHumaContext implements huma.Context for testing scope resolution.
type mockHumaContext struct {
	method    string
	operation *huma.Operation
}

func (m *mockHumaContext) Operation() *huma.Operation {
	return m.operation
}
func (m *mockHumaContext) Context() context.Context          { return context.Background() }
func (m *mockHumaContext) TLS() *tls.ConnectionState         { return nil }
func (m *mockHumaContext) Version() huma.ProtoVersion        { return huma.ProtoVersion{} }
func (m *mockHumaContext) Method() string                    { return m.method }
func (m *mockHumaContext) Host() string                      { return "" }
func (m *mockHumaContext) RemoteAddr() string                { return "" }
func (m *mockHumaContext) URL() url.URL                      { return url.URL{} }
func (m *mockHumaContext) Param(_ string) string             { return "" }
func (m *mockHumaContext) Query(_ string) string             { return "" }
func (m *mockHumaContext) Header(_ string) string            { return "" }
func (m *mockHumaContext) EachHeader(_ func(string, string)) {}
func (m *mockHumaContext) BodyReader() io.Reader             { return nil }
func (m *mockHumaContext) GetMultipartForm() (*multipart.Form, error) {
	return nil, errMultipartNotSupported
}
func (m *mockHumaContext) SetReadDeadline(_ time.Time) error { return nil }
func (m *mockHumaContext) SetStatus(_ int)                   {}
func (m *mockHumaContext) Status() int                       { return 0 }
func (m *mockHumaContext) AppendHeader(_, _ string)          {}
func (m *mockHumaContext) SetHeader(_, _ string)             {}
func (m *mockHumaContext) BodyWriter() io.Writer             { return nil }

func TestScopeForMethod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method   string
		expected ratelimit.Scope
	}{
		{method: "GET", expected: ratelimit.ScopeRead},
		{method: "HEAD", expected: ratelimit.ScopeRead},
		{method: "OPTIONS", expected: ratelimit.ScopeRead},
		{method: "POST", expected: ratelimit.ScopeWrite},
		{method: "PUT", expected: ratelimit.ScopeWrite},
		{method: "PATCH", expected: ratelimit.ScopeWrite},
		{method: "DELETE", expected: ratelimit.ScopeWrite},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, ratelimit.ScopeForMethod(tt.method))
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	withConfig := func(cfg ratelimit.EndpointConfig) *huma.Operation {
		return &huma.Operation{Metadata: map[string]any{ratelimit.MetadataKey: cfg}}
	}

	tests := []struct {
		name        string
		method      string
		operation   *huma.Operation
		expected    ratelimit.Scope
		expectLimit bool
	}{
		{
			name:        "nil operation uses method",
			method:      "POST",
			expected:    ratelimit.ScopeWrite,
			expectLimit: true,
		},
		{
			name:        "unrelated metadata uses method",
			method:      "GET",
			operation:   &huma.Operation{Metadata: map[string]any{"other": "value"}},
			expected:    ratelimit.ScopeRead,
			expectLimit: true,
		},
		{
			name:        "metadata scope overrides method",
			method:      "GET",
			operation:   withConfig(ratelimit.EndpointConfig{Scope: ratelimit.ScopeWrite}),
			expected:    ratelimit.ScopeWrite,
			expectLimit: true,
		},
		{
			name:        "empty metadata scope falls back to method",
			method:      "POST",
			operation:   withConfig(ratelimit.EndpointConfig{}),
			expected:    ratelimit.ScopeWrite,
			expectLimit: true,
		},
		{
			name:        "disabled endpoint is not limited",
			method:      "POST",
			operation:   withConfig(ratelimit.EndpointConfig{Disabled: true}),
			expectLimit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scope, limited := ratelimit.Resolve(&mockHumaContext{method: tt.method, operation: tt.operation})

			assert.Equal(t, tt.expectLimit, limited)
			assert.Equal(t, tt.expected, scope)
		})
	}
}

func TestGetEndpointConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		operation *huma.Operation
		wantNil   bool
	}{
		{
			name:      "nil operation returns nil",
			operation: nil,
			wantNil:   true,
		},
		{
			name:      "operation without metadata returns nil",
			operation: &huma.Operation{},
			wantNil:   true,
		},
		{
			name: "operation with wrong type returns nil",
			operation: &huma.Operation{
				Metadata: map[string]any{
					ratelimit.MetadataKey: "wrong type",
				},
			},
			wantNil: true,
		},
		{
			name: "operation with valid config returns config",
			operation: &huma.Operation{
				Metadata: map[string]any{
					ratelimit.MetadataKey: ratelimit.EndpointConfig{
						Scope:    ratelimit.ScopeRead,
						Disabled: true,
					},
				},
			},
			wantNil: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := &mockHumaContext{operation: tt.operation}
			cfg := ratelimit.GetEndpointConfig(ctx)

			if tt.wantNil {
				assert.Nil(t, cfg)
			} else {
				assert.NotNil(t, cfg)
				assert.Equal(t, ratelimit.ScopeRead, cfg.Scope)
				assert.True(t, cfg.Disabled)
			}
		})
	}
}
