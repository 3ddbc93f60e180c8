package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/httputil"
	"poltem/pkg/requestcontext"
)

// Limiter applies per-class policies on top of a BucketStore. Store failures
// fail open.
type Limiter struct {
	store    BucketStore
	policies map[Class]Policy
	metrics  *Metrics
	logger   *slog.Logger
	disabled bool
	now      func() time.Time
}

type Option func(*Limiter)

func WithPolicy(class Class, p Policy) Option {
	return func(l *Limiter) {
		if p.Limit > 0 && p.Window > 0 {
			l.policies[class] = p
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithDisabled turns every check into a pass, for local demos.
func WithDisabled(disabled bool) Option {
	return func(l *Limiter) {
		l.disabled = disabled
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

func NewLimiter(store BucketStore, opts ...Option) *Limiter {
	l := &Limiter{
		store:    store,
		policies: DefaultPolicies(),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check consumes one slot of subject's budget for class. Classes without a
// policy are unlimited.
func (l *Limiter) Check(ctx context.Context, class Class, subject string) (*Result, error) {
	p, ok := l.policies[class]
	if l.disabled || !ok {
		return &Result{Allowed: true}, nil
	}
	res, err := l.store.Allow(ctx, string(class)+":"+subject, p.Limit, p.Window)
	if err != nil {
		return nil, err
	}
	l.metrics.IncDecision(class, res.Allowed)
	return res, nil
}

// ByClientIP limits anonymous routes by the caller's address.
func (l *Limiter) ByClientIP(class Class) func(http.Handler) http.Handler {
	return l.middleware(func(*http.Request) Class { return class }, func(ctx context.Context) string {
		return "ip:" + requestcontext.ClientIP(ctx)
	})
}

// ByAccount limits authenticated routes by account id, charging reads and
// writes to separate budgets. It must run after the auth middleware.
func (l *Limiter) ByAccount() func(http.Handler) http.Handler {
	return l.middleware(classForMethod, func(ctx context.Context) string {
		if accountID := requestcontext.AccountID(ctx); !accountID.IsNil() {
			return "account:" + accountID.String()
		}
		return "ip:" + requestcontext.ClientIP(ctx)
	})
}

func classForMethod(r *http.Request) Class {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ClassRead
	default:
		return ClassWrite
	}
}

func (l *Limiter) middleware(classify func(*http.Request) Class, subject func(context.Context) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			class := classify(r)

			res, err := l.Check(ctx, class, subject(ctx))
			if err != nil {
				l.metrics.IncStoreFailure()
				l.logger.ErrorContext(ctx, "failed to check rate limit",
					"request_id", requestcontext.RequestID(ctx),
					"class", string(class),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			if res.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			}
			if !res.Allowed {
				l.logger.WarnContext(ctx, "rate limit exceeded",
					"request_id", requestcontext.RequestID(ctx),
					"class", string(class),
					"path", r.URL.Path,
				)
				w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfter(l.now())))
				httputil.WriteErrorContext(ctx, w, dErrors.New(dErrors.CodeRateLimited, "too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
