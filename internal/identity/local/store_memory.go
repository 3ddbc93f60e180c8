package local

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	id "poltem/pkg/domain"
	"poltem/pkg/platform/sentinel"
)

type InMemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[id.AccountID]*AccountRecord
	byEmail  map[string]id.AccountID
	byPhone  map[string]id.AccountID
}

func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		accounts: make(map[id.AccountID]*AccountRecord),
		byEmail:  make(map[string]id.AccountID),
		byPhone:  make(map[string]id.AccountID),
	}
}

func (s *InMemoryAccountStore) Create(_ context.Context, rec *AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(rec.Email)
	if email != "" {
		if _, ok := s.byEmail[email]; ok {
			return fmt.Errorf("email %s: %w", email, sentinel.ErrConflict)
		}
	}
	if rec.Phone != "" {
		if _, ok := s.byPhone[rec.Phone]; ok {
			return fmt.Errorf("phone: %w", sentinel.ErrConflict)
		}
	}
	cp := *rec
	s.accounts[rec.ID] = &cp
	if email != "" {
		s.byEmail[email] = rec.ID
	}
	if rec.Phone != "" {
		s.byPhone[rec.Phone] = rec.ID
	}
	return nil
}

func (s *InMemoryAccountStore) FindByID(_ context.Context, accountID id.AccountID) (*AccountRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *InMemoryAccountStore) FindByEmail(ctx context.Context, email string) (*AccountRecord, error) {
	s.mu.RLock()
	accountID, ok := s.byEmail[strings.ToLower(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.FindByID(ctx, accountID)
}

func (s *InMemoryAccountStore) FindByPhone(ctx context.Context, phone string) (*AccountRecord, error) {
	s.mu.RLock()
	accountID, ok := s.byPhone[phone]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.FindByID(ctx, accountID)
}

func (s *InMemoryAccountStore) UpdatePassword(_ context.Context, accountID id.AccountID, hash []byte, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.accounts[accountID]
	if !ok {
		return sentinel.ErrNotFound
	}
	rec.PasswordHash = hash
	rec.UpdatedAt = at
	return nil
}
