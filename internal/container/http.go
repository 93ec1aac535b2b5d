package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"
	"github.com/serroba/linkshorter/internal/barcode"
	"github.com/serroba/linkshorter/internal/events"
	"github.com/serroba/linkshorter/internal/handlers"
	"github.com/serroba/linkshorter/internal/health"
	"github.com/serroba/linkshorter/internal/metrics"
	"github.com/serroba/linkshorter/internal/middleware"
	"github.com/serroba/linkshorter/internal/shortener"
	"go.uber.org/zap"
)

// HTTPPackage provides the *chi.Mux and the huma.API with every route registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Use(chimiddleware.Recoverer)

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i).Named("http")
		router := do.MustInvoke[*chi.Mux](i)
		publishers := do.MustInvoke[events.Publishers](i)

		api := humachi.New(router, huma.DefaultConfig("Link Shorter", "1.0.0"))
		api.UseMiddleware(
			middleware.Metrics(do.MustInvoke[*metrics.Recorder](i)),
			middleware.RequestMeta(api),
			middleware.RateLimiter(api, do.MustInvoke[middleware.Limiters](i), logger),
		)

		handlers.RegisterRoutes(api,
			handlers.NewShortLinkHandler(do.MustInvoke[*shortener.Service](i), opts.PublicURL(), publishers, logger),
			handlers.NewBarcodeHandler(do.MustInvoke[*barcode.Service](i), publishers, logger),
		)
		health.RegisterRoutes(api, health.NewHandler(healthCheckers(i, opts)))

		reg := do.MustInvoke[*prometheus.Registry](i)
		router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

		return api, nil
	})
}

func healthCheckers(i *do.Injector, opts *Options) map[string]health.Checker {
	checkers := map[string]health.Checker{}

	if opts.Storage == StoragePostgres {
		checkers["postgres"] = health.NewPostgresChecker(do.MustInvoke[*Postgres](i).Pool)
	}

	if opts.RedisEnabled() {
		checkers["redis"] = health.NewRedisChecker(do.MustInvoke[*Redis](i).Client)
	}

	return checkers
}
