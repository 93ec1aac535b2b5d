package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkshorter/internal/ratelimit"
	"go.uber.org/zap"
)

// Limiters maps each scope to the limiter enforcing it. Scopes without a limiter are not limited.
type Limiters map[ratelimit.Scope]ratelimit.Limiter

// RateLimiter returns a Huma middleware that limits requests per client IP and User-Agent.
// Operations can opt out or change scope through ratelimit.MetadataKey.
func RateLimiter(
	api huma.API,
	limiters Limiters,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		scope, limited := ratelimit.Resolve(ctx)
		if !limited {
			next(ctx)

			return
		}

		limiter, ok := limiters[scope]
		if !ok {
			next(ctx)

			return
		}

		path := operationPath(ctx)

		decision, err := limiter.Allow(ctx.Context(), clientKey(ctx)+":"+string(scope))
		if err != nil {
			logger.Error("rate limit check failed", zap.String("path", path), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		ctx.SetHeader("X-RateLimit-Limit", strconv.FormatInt(decision.Limit, 10))
		ctx.SetHeader("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining(), 10))

		if !decision.Allowed {
			logger.Warn("rate limit exceeded",
				zap.String("path", path),
				zap.String("method", ctx.Method()),
				zap.String("scope", string(scope)),
				zap.Int64("count", decision.Count),
				zap.Int64("max", decision.Limit),
				zap.Duration("window", decision.Window),
				zap.String("client_ip", clientIP(ctx)),
			)

			msg := fmt.Sprintf("rate limit exceeded: %d/%d requests in %s",
				decision.Count, decision.Limit, decision.Window)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)

			return
		}

		next(ctx)
	}
}

// operationPath extracts the route template from the operation, if available.
func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}

// clientKey generates a unique key for rate limiting based on IP and User-Agent.
func clientKey(ctx huma.Context) string {
	ip := clientIP(ctx)
	ua := ctx.Header("User-Agent")

	hash := sha256.Sum256([]byte(ip + "|" + ua))

	return hex.EncodeToString(hash[:])
}

// clientIP extracts the client IP from the request, considering proxies.
func clientIP(ctx huma.Context) string {
	if ip := forwardedIP(ctx); ip != "" {
		return ip
	}

	host := ctx.RemoteAddr()
	if host == "" {
		host = ctx.Host()
	}

	ip, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}

	return ip
}
