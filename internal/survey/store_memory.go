package survey

import (
	"context"
	"sort"
	"sync"

	id "poltem/pkg/domain"
	"poltem/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	surveys map[id.SurveyID]Survey
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{surveys: make(map[id.SurveyID]Survey)}
}

func (s *InMemoryStore) Create(_ context.Context, sv *Survey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.surveys[sv.ID]; ok {
		return sentinel.ErrConflict
	}
	s.surveys[sv.ID] = *sv
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, surveyID id.SurveyID) (*Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sv, ok := s.surveys[surveyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &sv, nil
}

// ListActive returns active surveys, newest first.
func (s *InMemoryStore) ListActive(_ context.Context, limit int) ([]*Survey, error) {
	s.mu.RLock()
	out := make([]*Survey, 0, len(s.surveys))
	for _, sv := range s.surveys {
		if sv.Status == StatusActive {
			out = append(out, &sv)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
