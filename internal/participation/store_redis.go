package participation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "poltem/pkg/domain"
	"poltem/pkg/platform/sentinel"
)

const (
	flowKeyPrefix = "participation:flow:"
	// maxTxAttempts bounds optimistic retries when another request touched
	// the same flow between WATCH and EXEC.
	maxTxAttempts = 3
)

// RedisStore keeps flows as JSON values with a TTL so any gateway instance
// can serve the next step.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context, f *Flow, ttl time.Duration) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode flow: %w", err)
	}
	ok, err := s.client.SetNX(ctx, flowKey(f.ID), raw, ttl).Result()
	if err != nil {
		return fmt.Errorf("create flow: %w: %v", sentinel.ErrUnavailable, err)
	}
	if !ok {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, flowID id.ParticipationID) (*Flow, error) {
	raw, err := s.client.Get(ctx, flowKey(flowID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get flow: %w: %v", sentinel.ErrUnavailable, err)
	}
	return decodeFlow(raw)
}

// Update runs fn inside WATCH/MULTI/EXEC. A concurrent write aborts the
// transaction and the whole load-mutate-save is attempted again.
func (s *RedisStore) Update(ctx context.Context, flowID id.ParticipationID, fn func(*Flow) error) (*Flow, error) {
	key := flowKey(flowID)
	var updated *Flow
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get flow: %w: %v", sentinel.ErrUnavailable, err)
		}
		f, err := decodeFlow(raw)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}
		out, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("encode flow: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, redis.KeepTTL)
			return nil
		})
		if err != nil {
			return err
		}
		updated = f
		return nil
	}

	for range maxTxAttempts {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("update flow %s: %w", flowID, sentinel.ErrConflict)
}

func flowKey(flowID id.ParticipationID) string {
	return flowKeyPrefix + flowID.String()
}

func decodeFlow(raw []byte) (*Flow, error) {
	var f Flow
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode flow: %w", err)
	}
	return &f, nil
}
