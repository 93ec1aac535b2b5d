package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/linkshorter/internal/barcode"
	"github.com/serroba/linkshorter/internal/shortener"
	"github.com/serroba/linkshorter/internal/store"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// Postgres owns the connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// Shutdown closes the pool.
func (p *Postgres) Shutdown() error {
	p.Pool.Close()

	return nil
}

// Redis owns the client shared by the cache, rate limiter and event streams.
type Redis struct {
	Client *redis.Client
}

// Shutdown closes the client.
func (r *Redis) Shutdown() error {
	return r.Client.Close()
}

// PostgresPackage provides a migrated *Postgres pool.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Postgres, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err = pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		if err = store.Migrate(ctx, pool, logger); err != nil {
			pool.Close()

			return nil, err
		}

		return &Postgres{Pool: pool}, nil
	})
}

// RedisPackage provides the *Redis client.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Redis, error) {
		opts := do.MustInvoke[*Options](i)

		return &Redis{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// RepositoryPackage provides the short link and barcode info repositories for the configured storage.
// With Redis enabled, short link reads go through the Redis cache and optional local cache.
func RepositoryPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*store.LocalCache, error) {
		opts := do.MustInvoke[*Options](i)

		return store.NewLocalCache(int64(opts.LocalCacheSize), duration(opts.LocalCacheTTL))
	})

	do.Provide(i, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)

		var repo shortener.Repository = store.NewMemoryStore()
		if opts.Storage == StoragePostgres {
			repo = store.NewPostgresStore(do.MustInvoke[*Postgres](i).Pool)
		}

		if !opts.RedisEnabled() {
			return repo, nil
		}

		var local *store.LocalCache
		if opts.LocalCacheSize > 0 {
			local = do.MustInvoke[*store.LocalCache](i)
		}

		client := do.MustInvoke[*Redis](i).Client

		return store.NewRedisCacheRepository(repo, client, local, duration(opts.CacheTTL)), nil
	})

	do.Provide(i, func(i *do.Injector) (barcode.Repository, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.Storage == StoragePostgres {
			return store.NewPostgresBarcodeStore(do.MustInvoke[*Postgres](i).Pool), nil
		}

		return store.NewMemoryBarcodeStore(), nil
	})
}
