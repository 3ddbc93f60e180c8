package ratelimit

import (
	"context"
	"time"
)

// BucketStore counts requests per key inside a sliding window. Allow records
// the request only when it fits.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error)
}
