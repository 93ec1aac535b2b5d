package store

import (
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/serroba/linkshorter/internal/shortener"
)

// LocalCache is an in-process short link cache in front of Redis.
// Its TTL stays short so that instances do not drift apart for long.
type LocalCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewLocalCache creates a cache holding at most maxItems links.
func NewLocalCache(maxItems int64, ttl time.Duration) (*LocalCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &LocalCache{cache: cache, ttl: ttl}, nil
}

// Get returns a copy of the cached link under key.
func (l *LocalCache) Get(key string) (*shortener.ShortLink, bool) {
	v, ok := l.cache.Get(key)
	if !ok {
		return nil, false
	}

	link, ok := v.(shortener.ShortLink)
	if !ok {
		return nil, false
	}

	return &link, true
}

// Set caches link under key with a cost of one entry.
func (l *LocalCache) Set(key string, link *shortener.ShortLink) {
	l.cache.SetWithTTL(key, *link, 1, l.ttl)
}

// Wait blocks until buffered writes are applied.
func (l *LocalCache) Wait() {
	l.cache.Wait()
}

func (l *LocalCache) Del(key string) {
	l.cache.Del(key)
}

// Shutdown releases the cache goroutines.
func (l *LocalCache) Shutdown() error {
	l.cache.Close()

	return nil
}
