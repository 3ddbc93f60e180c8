package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemoryTRL keeps revocations in process. Expired entries are dropped on
// read and by Sweep.
type InMemoryTRL struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	clock   Clock
}

type InMemoryTRLOption func(*InMemoryTRL)

func WithClock(clock Clock) InMemoryTRLOption {
	return func(trl *InMemoryTRL) {
		if clock != nil {
			trl.clock = clock
		}
	}
}

func NewInMemoryTRL(opts ...InMemoryTRLOption) *InMemoryTRL {
	trl := &InMemoryTRL{
		revoked: make(map[string]time.Time),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(trl)
	}
	return trl
}

func (t *InMemoryTRL) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	return t.RevokeTokens(ctx, []string{jti}, ttl)
}

func (t *InMemoryTRL) RevokeTokens(_ context.Context, ids []string, ttl time.Duration) error {
	if err := validateTTL(ttl); err != nil {
		return err
	}
	expiresAt := t.clock().Add(ttl)
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, v := range nonEmpty(ids) {
		t.revoked[v] = expiresAt
	}
	return nil
}

func (t *InMemoryTRL) AnyRevoked(_ context.Context, ids []string) (bool, error) {
	now := t.clock()
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, v := range nonEmpty(ids) {
		if expiresAt, ok := t.revoked[v]; ok && now.Before(expiresAt) {
			return true, nil
		}
	}
	return false, nil
}

// Sweep removes expired entries and returns how many were removed.
func (t *InMemoryTRL) Sweep() int {
	now := t.clock()
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for k, expiresAt := range t.revoked {
		if !now.Before(expiresAt) {
			delete(t.revoked, k)
			removed++
		}
	}
	return removed
}
