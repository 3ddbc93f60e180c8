// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; services and handlers read them. Keeping the
// package free of net/http lets services import it without the transport.
//
// Usage in services (read values):
//
//	accountID := requestcontext.AccountID(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithPrincipal(ctx, requestcontext.Principal{AccountID: accountID})
package requestcontext

import (
	"context"
	"time"

	id "poltem/pkg/domain"
)

type (
	principalKey   struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	platformKey    struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	localeKey      struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyPrincipal   = principalKey{}
	ContextKeyClientIP    = clientIPKey{}
	ContextKeyUserAgent   = userAgentKey{}
	ContextKeyPlatform    = platformKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyLocale      = localeKey{}
)

// -----------------------------------------------------------------------------
// Principal (who is logged in)
// -----------------------------------------------------------------------------

// Principal is the authenticated caller, resolved once per request from the
// bearer token. SessionID groups every token issued for one sign-in.
type Principal struct {
	AccountID   id.AccountID
	Email       string
	AccessToken string
	TokenID     string
	SessionID   string
	ExpiresAt   time.Time
}

// Authenticated reports whether the principal carries an account.
func (p Principal) Authenticated() bool {
	return !p.AccountID.IsNil()
}

// PrincipalFrom returns the principal, or the zero value when the request is
// anonymous.
func PrincipalFrom(ctx context.Context) Principal {
	if p, ok := ctx.Value(ContextKeyPrincipal).(Principal); ok {
		return p
	}
	return Principal{}
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, p)
}

// AccountID retrieves the authenticated account ID.
// Returns the zero value (nil UUID) if not set.
func AccountID(ctx context.Context) id.AccountID {
	return PrincipalFrom(ctx).AccountID
}

// AccessToken retrieves the caller's bearer token, used when a collaborator
// call must act on the caller's behalf.
func AccessToken(ctx context.Context) string {
	return PrincipalFrom(ctx).AccessToken
}

// -----------------------------------------------------------------------------
// Client metadata (IP, User-Agent, platform)
// -----------------------------------------------------------------------------

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// Platform retrieves the client platform label derived from the User-Agent
// (for example "android", "ios", "web").
func Platform(ctx context.Context) string {
	if p, ok := ctx.Value(ContextKeyPlatform).(string); ok {
		return p
	}
	return ""
}

// WithClientMetadata injects client IP, User-Agent, and platform into a context.
// Useful for service unit tests that don't run the full HTTP middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, userAgent, platform string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClientIP, clientIP)
	ctx = context.WithValue(ctx, ContextKeyUserAgent, userAgent)
	ctx = context.WithValue(ctx, ContextKeyPlatform, platform)
	return ctx
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Locale retrieves the negotiated response language ("tr" or "en").
// Returns "" if not set; callers fall back to the default locale.
func Locale(ctx context.Context) string {
	if l, ok := ctx.Value(ContextKeyLocale).(string); ok {
		return l
	}
	return ""
}

func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ContextKeyLocale, locale)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
