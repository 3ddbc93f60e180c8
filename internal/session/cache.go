package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"poltem/internal/identity"
	id "poltem/pkg/domain"
)

// AccountCache is the process-wide "who is this account" cache consulted
// after a token validates. A miss is (nil, nil).
type AccountCache interface {
	Get(ctx context.Context, accountID id.AccountID) (*identity.Account, error)
	Set(ctx context.Context, account identity.Account, ttl time.Duration) error
	Delete(ctx context.Context, accountID id.AccountID) error
}

type cachedAccount struct {
	account   identity.Account
	expiresAt time.Time
}

type InMemoryAccountCache struct {
	mu      sync.RWMutex
	entries map[id.AccountID]cachedAccount
	now     func() time.Time
}

func NewInMemoryAccountCache() *InMemoryAccountCache {
	return &InMemoryAccountCache{
		entries: make(map[id.AccountID]cachedAccount),
		now:     time.Now,
	}
}

func (c *InMemoryAccountCache) Get(_ context.Context, accountID id.AccountID) (*identity.Account, error) {
	c.mu.RLock()
	entry, ok := c.entries[accountID]
	c.mu.RUnlock()
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, nil
	}
	account := entry.account
	return &account, nil
}

func (c *InMemoryAccountCache) Set(_ context.Context, account identity.Account, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[account.ID] = cachedAccount{account: account, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *InMemoryAccountCache) Delete(_ context.Context, accountID id.AccountID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, accountID)
	return nil
}

// Sweep removes expired entries and returns how many were removed.
func (c *InMemoryAccountCache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for accountID, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, accountID)
			removed++
		}
	}
	return removed
}

const accountKeyPrefix = "session:account:"

// RedisAccountCache stores accounts as JSON under session:account:<id>.
type RedisAccountCache struct {
	client redis.UniversalClient
}

func NewRedisAccountCache(client redis.UniversalClient) *RedisAccountCache {
	return &RedisAccountCache{client: client}
}

func (c *RedisAccountCache) Get(ctx context.Context, accountID id.AccountID) (*identity.Account, error) {
	raw, err := c.client.Get(ctx, accountKeyPrefix+accountID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached account: %w", err)
	}
	var account identity.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, fmt.Errorf("decode cached account: %w", err)
	}
	return &account, nil
}

func (c *RedisAccountCache) Set(ctx context.Context, account identity.Account, ttl time.Duration) error {
	raw, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("encode cached account: %w", err)
	}
	return c.client.Set(ctx, accountKeyPrefix+account.ID.String(), raw, ttl).Err()
}

func (c *RedisAccountCache) Delete(ctx context.Context, accountID id.AccountID) error {
	return c.client.Del(ctx, accountKeyPrefix+accountID.String()).Err()
}
