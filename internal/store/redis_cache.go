package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/linkshorter/internal/shortener"
)

// RedisCacheRepository wraps a Repository with Redis caching for reads.
// An optional LocalCache is consulted before Redis. Cache failures fall through to the store.
type RedisCacheRepository struct {
	store     shortener.Repository
	client    *redis.Client
	local     *LocalCache
	tokenKey  string
	urlPrefix string
	ttl       time.Duration
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator. local may be nil.
func NewRedisCacheRepository(
	store shortener.Repository, client *redis.Client, local *LocalCache, ttl time.Duration,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:     store,
		client:    client,
		local:     local,
		tokenKey:  "shortlink:token:",
		urlPrefix: "shortlink:url:",
		ttl:       ttl,
	}
}

// Save stores a short link in the underlying store and updates the cache.
func (r *RedisCacheRepository) Save(ctx context.Context, link *shortener.ShortLink) error {
	if err := r.store.Save(ctx, link); err != nil {
		return err
	}

	r.cacheLink(ctx, link)

	return nil
}

// GetByToken retrieves a short link by its token, checking caches first.
func (r *RedisCacheRepository) GetByToken(ctx context.Context, token shortener.Token) (*shortener.ShortLink, error) {
	if link, ok := r.getCached(ctx, token); ok {
		return link, nil
	}

	link, err := r.store.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	r.cacheLink(ctx, link)

	return link, nil
}

// GetByURL retrieves a short link by its URL, checking the url index first.
func (r *RedisCacheRepository) GetByURL(ctx context.Context, url string) (*shortener.ShortLink, error) {
	if r.local != nil {
		if link, ok := r.local.Get(r.urlPrefix + url); ok {
			return link, nil
		}
	}

	token, err := r.client.Get(ctx, r.urlPrefix+url).Result()
	if err == nil {
		if link, ok := r.getCached(ctx, shortener.Token(token)); ok && link.URL == url {
			return link, nil
		}
	}

	link, err := r.store.GetByURL(ctx, url)
	if err != nil {
		return nil, err
	}

	r.cacheLink(ctx, link)

	return link, nil
}

// ExistsByToken reports a cached token as taken without asking the store.
func (r *RedisCacheRepository) ExistsByToken(ctx context.Context, token shortener.Token) (bool, error) {
	if _, ok := r.getCached(ctx, token); ok {
		return true, nil
	}

	return r.store.ExistsByToken(ctx, token)
}

func (r *RedisCacheRepository) getCached(ctx context.Context, token shortener.Token) (*shortener.ShortLink, bool) {
	key := r.tokenKey + string(token)

	if r.local != nil {
		if link, ok := r.local.Get(key); ok {
			return link, true
		}
	}

	result, err := r.client.HGetAll(ctx, key).Result()
	if err != nil || len(result) == 0 {
		return nil, false
	}

	id, err := strconv.ParseInt(result["id"], 10, 64)
	if err != nil {
		return nil, false
	}

	var createdAt time.Time

	if nanos, err := strconv.ParseInt(result["created_at"], 10, 64); err == nil {
		createdAt = time.Unix(0, nanos).UTC()
	}

	link := &shortener.ShortLink{
		ID:        id,
		Token:     shortener.Token(result["token"]),
		URL:       result["url"],
		CreatedAt: createdAt,
	}

	if r.local != nil {
		r.local.Set(key, link)
	}

	return link, true
}

func (r *RedisCacheRepository) cacheLink(ctx context.Context, link *shortener.ShortLink) {
	key := r.tokenKey + string(link.Token)
	urlKey := r.urlPrefix + link.URL

	if r.local != nil {
		r.local.Set(key, link)
		r.local.Set(urlKey, link)
	}

	pipe := r.client.Pipeline()

	pipe.HSet(ctx, key, map[string]any{
		"id":         link.ID,
		"token":      string(link.Token),
		"url":        link.URL,
		"created_at": link.CreatedAt.UnixNano(),
	})
	pipe.Set(ctx, urlKey, string(link.Token), r.ttl)

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

// Shutdown is a no-op for RedisCacheRepository (client managed externally).
func (r *RedisCacheRepository) Shutdown() error {
	return nil
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheRepository)(nil)
