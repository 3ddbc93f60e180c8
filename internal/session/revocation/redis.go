package revocation

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	isRevokedDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "poltem_is_token_revoked_duration_ms",
		Help:    "Latency of token revocation checks in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	})
)

const revokedTokenKeyPrefix = "trl:jti:"

// RedisTRL shares revocations between gateway instances.
type RedisTRL struct {
	client redis.UniversalClient
}

func NewRedisTRL(client redis.UniversalClient) *RedisTRL {
	return &RedisTRL{client: client}
}

func (t *RedisTRL) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	return t.RevokeTokens(ctx, []string{jti}, ttl)
}

// RevokeTokens writes every id in one pipeline round trip.
func (t *RedisTRL) RevokeTokens(ctx context.Context, ids []string, ttl time.Duration) error {
	if err := validateTTL(ttl); err != nil {
		return err
	}
	ids = nonEmpty(ids)
	if len(ids) == 0 {
		return nil
	}
	pipe := t.client.Pipeline()
	for _, v := range ids {
		pipe.Set(ctx, revokedTokenKeyPrefix+v, "1", ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (t *RedisTRL) AnyRevoked(ctx context.Context, ids []string) (bool, error) {
	start := time.Now()
	defer func() {
		isRevokedDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	ids = nonEmpty(ids)
	if len(ids) == 0 {
		return false, nil
	}
	keys := make([]string, len(ids))
	for i, v := range ids {
		keys[i] = revokedTokenKeyPrefix + v
	}
	n, err := t.client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
