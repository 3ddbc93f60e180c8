//go:build integration

package participation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"poltem/pkg/platform/sentinel"
	"poltem/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	f := foundFlow("KAHVE2026")
	s.Require().NoError(s.store.Create(ctx, f, time.Minute))
	s.ErrorIs(s.store.Create(ctx, f, time.Minute), sentinel.ErrConflict)

	got, err := s.store.Get(ctx, f.ID)
	s.Require().NoError(err)
	s.Equal(f.DisplayID, got.DisplayID)
	s.Equal("KAHVE2026", got.Survey.Survey.CompletionCode)

	updated, err := s.store.Update(ctx, f.ID, func(fl *Flow) error {
		fl.Declare(time.Now())
		return nil
	})
	s.Require().NoError(err)
	s.Equal(StepDeclared, updated.Step)

	ttl, err := s.redis.Client.TTL(ctx, flowKey(f.ID)).Result()
	s.Require().NoError(err)
	s.Positive(ttl, "update keeps the expiry")
}

func (s *RedisStoreSuite) TestMissingFlow() {
	f := foundFlow("X")
	_, err := s.store.Get(context.Background(), f.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// Concurrent updates either commit or fail with a conflict after the bounded
// WATCH retries; none is lost silently.
func (s *RedisStoreSuite) TestConcurrentUpdates() {
	ctx := context.Background()
	f := openedFlow(s.T(), "KAHVE2026")
	s.Require().NoError(s.store.Create(ctx, f, time.Minute))

	const goroutines = 20
	var (
		wg        sync.WaitGroup
		committed atomic.Int32
		conflicts atomic.Int32
	)
	for range goroutines {
		wg.Go(func() {
			_, err := s.store.Update(ctx, f.ID, func(fl *Flow) error {
				_ = fl.Verify("wrong", time.Now())
				return nil
			})
			switch {
			case err == nil:
				committed.Add(1)
			case isConflict(err):
				conflicts.Add(1)
			}
		})
	}
	wg.Wait()

	got, err := s.store.Get(ctx, f.ID)
	s.Require().NoError(err)
	s.Equal(int(committed.Load()), got.VerifyAttempts)
	s.Equal(int32(goroutines), committed.Load()+conflicts.Load())
}

func isConflict(err error) bool {
	return err != nil && errors.Is(err, sentinel.ErrConflict)
}
