package ratelimit

import (
	"context"
	"time"
)

// Store keeps the request timestamps behind a sliding window, per client key.
// Implementations are shared by every Limiter, so keys carry their scope.
type Store interface {
	// Record adds a request at the current time under key, drops those older than
	// window, and returns how many remain including the new one.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
