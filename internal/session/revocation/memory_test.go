package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poltem/pkg/platform/sentinel"
)

func TestInMemoryTRL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	trl := NewInMemoryTRL(WithClock(func() time.Time { return now }))

	t.Run("unknown ids are not revoked", func(t *testing.T) {
		revoked, err := trl.AnyRevoked(ctx, []string{"jti-1", ""})
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("any listed id revokes", func(t *testing.T) {
		require.NoError(t, trl.RevokeTokens(ctx, []string{"jti-1", "session-1"}, time.Minute))
		revoked, err := trl.AnyRevoked(ctx, []string{"jti-other", "session-1"})
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("non-positive ttl rejected", func(t *testing.T) {
		err := trl.RevokeToken(ctx, "jti-2", 0)
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("entries expire", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		revoked, err := trl.AnyRevoked(ctx, []string{"jti-1"})
		require.NoError(t, err)
		assert.False(t, revoked)
		assert.Equal(t, 2, trl.Sweep())
	})
}
