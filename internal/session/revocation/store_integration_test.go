//go:build integration

package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poltem/internal/platform/postgres"
	"poltem/pkg/testutil/containers"
)

func exerciseList(t *testing.T, trl List) {
	t.Helper()
	ctx := context.Background()

	revoked, err := trl.AnyRevoked(ctx, []string{"jti-a"})
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, trl.RevokeTokens(ctx, []string{"jti-a", "session-a"}, time.Minute))
	revoked, err = trl.AnyRevoked(ctx, []string{"jti-b", "session-a"})
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, trl.RevokeToken(ctx, "jti-c", time.Minute))
	revoked, err = trl.AnyRevoked(ctx, []string{"jti-c"})
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRedisTRL_Integration(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	exerciseList(t, NewRedisTRL(rc.Client))
}

func TestPostgresTRL_Integration(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	require.NoError(t, postgres.Migrate(context.Background(), pg.DB))

	now := time.Now()
	trl := NewPostgresTRL(pg.DB, WithPostgresClock(func() time.Time { return now }))
	exerciseList(t, trl)

	now = now.Add(2 * time.Minute)
	revoked, err := trl.AnyRevoked(context.Background(), []string{"jti-a"})
	require.NoError(t, err)
	assert.False(t, revoked)

	purged, err := trl.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, purged)
}
