// Package session answers "who is logged in" for a request. The bearer
// token is validated once by middleware; the account behind it comes from a
// process-wide cache that sign-out invalidates together with the token.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"poltem/internal/identity"
	jwttoken "poltem/internal/jwt_token"
	"poltem/internal/session/revocation"
	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/requestcontext"
)

const defaultCacheTTL = 5 * time.Minute

type Resolver struct {
	tokens   *jwttoken.JWTService
	revoked  revocation.List
	cache    AccountCache
	provider identity.Provider
	cacheTTL time.Duration
	logger   *slog.Logger
	metrics  *Metrics
	now      func() time.Time
}

type Option func(*Resolver)

func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		if ttl > 0 {
			r.cacheTTL = ttl
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

func NewResolver(tokens *jwttoken.JWTService, revoked revocation.List, cache AccountCache, provider identity.Provider, opts ...Option) *Resolver {
	r := &Resolver{
		tokens:   tokens,
		revoked:  revoked,
		cache:    cache,
		provider: provider,
		cacheTTL: defaultCacheTTL,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve validates token and returns the principal behind it. Revoked
// tokens and accounts the identity service no longer knows are
// unauthorized. A failing revocation list fails closed.
func (r *Resolver) Resolve(ctx context.Context, token string) (requestcontext.Principal, error) {
	claims, err := r.tokens.ValidateToken(token)
	if err != nil {
		r.metrics.IncResolution("invalid")
		return requestcontext.Principal{}, err
	}
	accountID, err := claims.AccountID()
	if err != nil {
		r.metrics.IncResolution("invalid")
		return requestcontext.Principal{}, err
	}

	revoked, err := r.revoked.AnyRevoked(ctx, []string{claims.ID, claims.SessionID})
	if err != nil {
		r.metrics.IncResolution("error")
		return requestcontext.Principal{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "session check unavailable")
	}
	if revoked {
		r.metrics.IncResolution("revoked")
		return requestcontext.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "token has been revoked")
	}

	principal := requestcontext.Principal{
		AccountID:   accountID,
		Email:       claims.Email,
		AccessToken: token,
		TokenID:     claims.ID,
		SessionID:   claims.SessionID,
		ExpiresAt:   claims.ExpiresAtTime(),
	}
	account, err := r.Account(ctx, principal)
	if err != nil {
		r.metrics.IncResolution("error")
		return requestcontext.Principal{}, err
	}
	if account.Email != "" {
		principal.Email = account.Email
	}
	r.metrics.IncResolution("ok")
	return principal, nil
}

// Account returns the cached account for the principal, loading it from
// the identity service on a miss.
func (r *Resolver) Account(ctx context.Context, p requestcontext.Principal) (*identity.Account, error) {
	cached, err := r.cache.Get(ctx, p.AccountID)
	if err != nil {
		r.logger.WarnContext(ctx, "account cache read failed", "account_id", p.AccountID.String(), "error", err)
	}
	if cached != nil {
		r.metrics.IncCacheLookup(true)
		return cached, nil
	}
	r.metrics.IncCacheLookup(false)

	account, err := r.provider.CurrentAccount(ctx, p.AccessToken)
	if err != nil {
		switch identity.Classify(err).Kind {
		case identity.FailurePermissionDenied, identity.FailureUserNotFound, identity.FailureInvalidCredentials:
			return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "session is no longer valid")
		}
		return nil, identity.ToDomainError(err)
	}
	if account.ID != p.AccountID {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token subject mismatch")
	}
	if err := r.cache.Set(ctx, *account, r.cacheTTL); err != nil {
		r.logger.WarnContext(ctx, "account cache write failed", "account_id", p.AccountID.String(), "error", err)
	}
	return account, nil
}

// Invalidate revokes the principal's token and session ids until expiry
// and drops the cached account. Both steps run even if one fails.
func (r *Resolver) Invalidate(ctx context.Context, p requestcontext.Principal) error {
	var errs []error
	if ttl := p.ExpiresAt.Sub(r.now()); ttl > 0 {
		if err := r.revoked.RevokeTokens(ctx, []string{p.TokenID, p.SessionID}, ttl); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.cache.Delete(ctx, p.AccountID); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
