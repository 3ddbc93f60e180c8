package participation

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	id "poltem/pkg/domain"
	"poltem/pkg/platform/sentinel"
)

// numFlowShards spreads flows over independent locks so updates of
// different flows never contend.
const numFlowShards = 64

type flowEntry struct {
	flow      Flow
	expiresAt time.Time
}

type flowShard struct {
	mu    sync.Mutex
	flows map[id.ParticipationID]flowEntry
}

type InMemoryStore struct {
	shards [numFlowShards]flowShard
	now    func() time.Time
}

type MemoryOption func(*InMemoryStore)

func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewInMemoryStore(opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{now: time.Now}
	for i := range s.shards {
		s.shards[i].flows = make(map[id.ParticipationID]flowEntry)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Create(ctx context.Context, f *Flow, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sh := s.shard(f.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if e, ok := sh.flows[f.ID]; ok && s.now().Before(e.expiresAt) {
		return sentinel.ErrConflict
	}
	sh.flows[f.ID] = flowEntry{flow: clone(f), expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, flowID id.ParticipationID) (*Flow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sh := s.shard(flowID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, err := s.live(sh, flowID)
	if err != nil {
		return nil, err
	}
	out := clone(&e.flow)
	return &out, nil
}

func (s *InMemoryStore) Update(ctx context.Context, flowID id.ParticipationID, fn func(*Flow) error) (*Flow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sh := s.shard(flowID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, err := s.live(sh, flowID)
	if err != nil {
		return nil, err
	}
	working := clone(&e.flow)
	if err := fn(&working); err != nil {
		return nil, err
	}
	sh.flows[flowID] = flowEntry{flow: clone(&working), expiresAt: e.expiresAt}
	return &working, nil
}

// Sweep drops expired flows and returns how many were removed.
func (s *InMemoryStore) Sweep() int {
	now := s.now()
	removed := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for k, e := range sh.flows {
			if !now.Before(e.expiresAt) {
				delete(sh.flows, k)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// live must be called with the shard lock held.
func (s *InMemoryStore) live(sh *flowShard, flowID id.ParticipationID) (flowEntry, error) {
	e, ok := sh.flows[flowID]
	if !ok {
		return flowEntry{}, sentinel.ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(sh.flows, flowID)
		return flowEntry{}, sentinel.ErrNotFound
	}
	return e, nil
}

func (s *InMemoryStore) shard(flowID id.ParticipationID) *flowShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(flowID.String()))
	return &s.shards[h.Sum32()%numFlowShards]
}

// clone copies the pointer fields so callers never share state with the store.
func clone(f *Flow) Flow {
	out := *f
	if f.Survey.Survey != nil {
		snap := *f.Survey.Survey
		out.Survey.Survey = &snap
	}
	if f.VerifiedAt != nil {
		at := *f.VerifiedAt
		out.VerifiedAt = &at
	}
	return out
}
