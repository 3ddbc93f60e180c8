package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poltem/internal/identity"
	id "poltem/pkg/domain"
)

func TestInMemoryAccountCache_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewInMemoryAccountCache()
	cache.now = func() time.Time { return now }

	short := identity.Account{ID: id.NewAccountID(), Email: "kisa@poltemakademi.com"}
	long := identity.Account{ID: id.NewAccountID(), Email: "uzun@poltemakademi.com"}
	require.NoError(t, cache.Set(ctx, short, time.Minute))
	require.NoError(t, cache.Set(ctx, long, time.Hour))

	assert.Equal(t, 0, cache.Sweep())

	now = now.Add(2 * time.Minute)
	got, err := cache.Get(ctx, short.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Equal(t, 1, cache.Sweep())
	assert.Len(t, cache.entries, 1)

	got, err = cache.Get(ctx, long.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "uzun@poltemakademi.com", got.Email)
}
