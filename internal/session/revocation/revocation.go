// Package revocation holds revoked access token ids until the tokens would
// have expired anyway.
package revocation

import (
	"context"
	"fmt"
	"time"

	"poltem/pkg/platform/sentinel"
)

// List is a token revocation list. Ids are jtis or session ids; a token is
// rejected when any of its ids is listed.
type List interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	RevokeTokens(ctx context.Context, ids []string, ttl time.Duration) error
	AnyRevoked(ctx context.Context, ids []string) (bool, error)
}

// Clock returns the current time.
type Clock func() time.Time

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}

func nonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
