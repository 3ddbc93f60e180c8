package profile

import (
	"context"
	"sync"

	id "poltem/pkg/domain"
	"poltem/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.AccountID]Profile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[id.AccountID]Profile)}
}

func (s *InMemoryStore) Get(_ context.Context, accountID id.AccountID) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, p *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = *p
	return nil
}

// GrantResearcher flips the researcher flag, standing in for the back-office
// tool that does this in production.
func (s *InMemoryStore) GrantResearcher(accountID id.AccountID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profiles[accountID]
	p.ID = accountID
	p.IsResearcher = true
	s.profiles[accountID] = p
}
