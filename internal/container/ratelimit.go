package container

import (
	"github.com/samber/do"
	"github.com/serroba/linkshorter/internal/middleware"
	"github.com/serroba/linkshorter/internal/ratelimit"
	"github.com/serroba/linkshorter/internal/store"
)

// RateLimitPackage provides the per-scope middleware.Limiters.
// Counts live in Redis when enabled so that every instance shares them.
func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*store.RateLimitMemoryStore, error) {
		return store.NewRateLimitMemoryStore(), nil
	})

	do.Provide(i, func(i *do.Injector) (ratelimit.Store, error) {
		if do.MustInvoke[*Options](i).RedisEnabled() {
			return store.NewRateLimitRedisStore(do.MustInvoke[*Redis](i).Client), nil
		}

		return do.MustInvoke[*store.RateLimitMemoryStore](i), nil
	})

	do.Provide(i, func(i *do.Injector) (middleware.Limiters, error) {
		opts := do.MustInvoke[*Options](i)
		counts := do.MustInvoke[ratelimit.Store](i)
		window := duration(opts.RateLimitWindow)

		limiters := middleware.Limiters{}

		if opts.RateLimitWrite > 0 {
			limiters[ratelimit.ScopeWrite] = ratelimit.NewSlidingWindowLimiter(counts, int64(opts.RateLimitWrite), window)
		}

		if opts.RateLimitRead > 0 {
			limiters[ratelimit.ScopeRead] = ratelimit.NewSlidingWindowLimiter(counts, int64(opts.RateLimitRead), window)
		}

		return limiters, nil
	})
}
