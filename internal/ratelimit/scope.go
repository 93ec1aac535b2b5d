package ratelimit

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Scope categorizes a request for rate limiting purposes.
type Scope string

const (
	// ScopeRead applies to read operations (GET, HEAD, OPTIONS).
	ScopeRead Scope = "read"
	// ScopeWrite applies to write operations (POST, PUT, PATCH, DELETE).
	ScopeWrite Scope = "write"
)

// MetadataKey is the key used to store rate limit config in operation metadata.
const MetadataKey = "rateLimit"

// EndpointConfig overrides rate limiting for one operation via its Metadata.
type EndpointConfig struct {
	// Scope replaces the method-based scope when set.
	Scope Scope
	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// ScopeForMethod classifies GET, HEAD and OPTIONS as reads and everything else as writes.
func ScopeForMethod(method string) Scope {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ScopeRead
	default:
		return ScopeWrite
	}
}

// Resolve returns the scope of the request and whether it is rate limited at all.
func Resolve(ctx huma.Context) (Scope, bool) {
	cfg := GetEndpointConfig(ctx)
	if cfg == nil {
		return ScopeForMethod(ctx.Method()), true
	}

	if cfg.Disabled {
		return "", false
	}

	if cfg.Scope != "" {
		return cfg.Scope, true
	}

	return ScopeForMethod(ctx.Method()), true
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
