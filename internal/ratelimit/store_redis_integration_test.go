//go:build integration

package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poltem/pkg/testutil/containers"
)

func TestRedisBucketStore_Integration(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := NewRedisBucketStore(rc.Client)
	ctx := context.Background()

	for i := range 3 {
		res, err := store.Allow(ctx, "auth:ip:203.0.113.7", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
	}
	res, err := store.Allow(ctx, "auth:ip:203.0.113.7", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.WithinDuration(t, time.Now().Add(time.Minute), res.ResetAt, 5*time.Second)

	ttl, err := rc.Client.PTTL(ctx, redisKeyPrefix+"auth:ip:203.0.113.7").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedisBucketStore_ConcurrentCallersShareOneBudget(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := NewRedisBucketStore(rc.Client)
	ctx := context.Background()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			res, err := store.Allow(ctx, "write:account:x", 5, time.Minute)
			if err == nil && res.Allowed {
				allowed.Add(1)
			}
		})
	}
	wg.Wait()
	assert.Equal(t, int32(5), allowed.Load())
}
