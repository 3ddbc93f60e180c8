//go:build integration

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poltem/internal/identity"
	id "poltem/pkg/domain"
	"poltem/pkg/testutil/containers"
)

func TestRedisAccountCache_Integration(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	cache := NewRedisAccountCache(rc.Client)
	ctx := context.Background()
	account := identity.Account{ID: id.NewAccountID(), Email: "ayse@poltemakademi.com", FullName: "Ayşe"}

	got, err := cache.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Set(ctx, account, time.Minute))
	got, err = cache.Get(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, account.Email, got.Email)
	assert.Equal(t, account.ID, got.ID)

	require.NoError(t, cache.Delete(ctx, account.ID))
	got, err = cache.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
