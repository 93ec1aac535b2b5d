package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/linkshorter/internal/ratelimit"
)

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store for single-instance deployments.
type RateLimitMemoryStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	now      func() time.Time
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

func (s *RateLimitMemoryStore) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	valid := prune(s.requests[key], now.Add(-window))
	valid = append(valid, now)
	s.requests[key] = valid

	return int64(len(valid)), nil
}

// Prune drops timestamps older than window and forgets keys left empty.
func (s *RateLimitMemoryStore) Prune(window time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-window)

	for key, timestamps := range s.requests {
		if valid := prune(timestamps, cutoff); len(valid) > 0 {
			s.requests[key] = valid
		} else {
			delete(s.requests, key)
		}
	}

	return len(s.requests)
}

// prune keeps the timestamps after cutoff; timestamps are in insertion order.
func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	for i, ts := range timestamps {
		if ts.After(cutoff) {
			return timestamps[i:]
		}
	}

	return timestamps[:0]
}

var (
	_ ratelimit.Store = (*RateLimitMemoryStore)(nil)
	_ ratelimit.Store = (*RateLimitRedisStore)(nil)
)
