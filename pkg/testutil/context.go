package testutil

import (
	"net/http"

	id "poltem/pkg/domain"
	"poltem/pkg/requestcontext"
)

// WithAccount attaches an authenticated principal to the request, simulating
// the auth middleware. Invalid ids leave the request anonymous.
func WithAccount(req *http.Request, accountID string) *http.Request {
	parsed, err := id.ParseAccountID(accountID)
	if err != nil {
		return req
	}
	p := requestcontext.Principal{
		AccountID:   parsed,
		AccessToken: "test-token",
		TokenID:     "test-jti",
	}
	return req.WithContext(requestcontext.WithPrincipal(req.Context(), p))
}

// WithLocale sets the negotiated response language on the request.
func WithLocale(req *http.Request, locale string) *http.Request {
	return req.WithContext(requestcontext.WithLocale(req.Context(), locale))
}
