package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/httputil"
	"poltem/pkg/requestcontext"
)

// PrincipalResolver turns a bearer token into the request principal. It
// returns CodeUnauthorized for invalid, expired, or revoked tokens.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (requestcontext.Principal, error)
}

const bearerPrefix = "Bearer "

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// RequireAuth resolves the principal once per request and rejects anonymous
// callers.
func RequireAuth(resolver PrincipalResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := BearerToken(r)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteErrorContext(ctx, w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			principal, err := resolver.Resolve(ctx, token)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
					logger.WarnContext(ctx, "unauthorized access - token rejected",
						"request_id", requestID,
						"error", err,
					)
				} else {
					logger.ErrorContext(ctx, "failed to resolve principal",
						"request_id", requestID,
						"error", err,
					)
				}
				httputil.WriteErrorContext(ctx, w, err)
				return
			}

			ctx = requestcontext.WithPrincipal(ctx, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
