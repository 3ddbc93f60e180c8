package revocation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PostgresTRL persists revoked token ids in token_revocations.
type PostgresTRL struct {
	db    *sql.DB
	clock Clock
}

type PostgresTRLOption func(*PostgresTRL)

func WithPostgresClock(clock Clock) PostgresTRLOption {
	return func(trl *PostgresTRL) {
		if clock != nil {
			trl.clock = clock
		}
	}
}

func NewPostgresTRL(db *sql.DB, opts ...PostgresTRLOption) *PostgresTRL {
	trl := &PostgresTRL{
		db:    db,
		clock: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(trl)
		}
	}
	return trl
}

func (t *PostgresTRL) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	return t.RevokeTokens(ctx, []string{jti}, ttl)
}

// RevokeTokens batch-inserts with unnest so any number of ids costs one
// round trip.
func (t *PostgresTRL) RevokeTokens(ctx context.Context, ids []string, ttl time.Duration) error {
	if err := validateTTL(ttl); err != nil {
		return err
	}
	ids = nonEmpty(ids)
	if len(ids) == 0 {
		return nil
	}
	expiresAt := t.clock().Add(ttl)
	query := `
		INSERT INTO token_revocations (jti, expires_at)
		SELECT unnest($1::text[]), $2
		ON CONFLICT (jti) DO UPDATE SET
			expires_at = EXCLUDED.expires_at
	`
	if _, err := t.db.ExecContext(ctx, query, pq.Array(ids), expiresAt); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	return nil
}

func (t *PostgresTRL) AnyRevoked(ctx context.Context, ids []string) (bool, error) {
	ids = nonEmpty(ids)
	if len(ids) == 0 {
		return false, nil
	}
	var revoked bool
	err := t.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM token_revocations WHERE jti = ANY($1) AND expires_at > $2)`,
		pq.Array(ids), t.clock()).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return revoked, nil
}

// PurgeExpired deletes rows past their expiry.
func (t *PostgresTRL) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := t.db.ExecContext(ctx, `DELETE FROM token_revocations WHERE expires_at <= $1`, t.clock())
	if err != nil {
		return 0, fmt.Errorf("purge token revocations: %w", err)
	}
	return res.RowsAffected()
}
