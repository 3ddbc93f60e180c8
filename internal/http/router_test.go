package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/httputil"
	"poltem/pkg/requestcontext"
	"poltem/pkg/testutil"
)

type tokenResolver struct{ accountID id.AccountID }

func (s tokenResolver) Resolve(_ context.Context, token string) (requestcontext.Principal, error) {
	if token != "good" {
		return requestcontext.Principal{}, dErrors.New(dErrors.CodeUnauthorized, "token rejected")
	}
	return requestcontext.Principal{AccountID: s.accountID, AccessToken: token}, nil
}

type publicModule struct{}

func (publicModule) Register(r chi.Router) {
	r.Post("/v1/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"next": "home"})
	})
}

func (publicModule) RegisterAuthenticated(r chi.Router) {
	r.Get("/v1/auth/me", whoami)
}

type privateModule struct{}

func (privateModule) Register(r chi.Router) {
	r.Get("/v1/home", whoami)
}

func whoami(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"account_id": requestcontext.AccountID(r.Context()).String(),
	})
}

func newTestRouter(t *testing.T, checks ...Check) (http.Handler, id.AccountID) {
	t.Helper()
	accountID := id.NewAccountID()
	return NewRouter(Config{
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Resolver:   tokenResolver{accountID: accountID},
		Gatherer:   prometheus.NewRegistry(),
		AdminToken: "ops",
		Checks:     checks,
	}, Modules{
		Public:        []Registrar{publicModule{}},
		Authenticated: []Registrar{privateModule{}},
	}), accountID
}

func TestRouter_PublicRoutesSkipAuth(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/v1/auth/login"))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertNext(t, rr, "home")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRouter_AuthenticatedRoutes(t *testing.T) {
	router, accountID := newTestRouter(t)

	for _, path := range []string{"/v1/home", "/v1/auth/me"} {
		t.Run(path+" without token", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, path))
			testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
		})

		t.Run(path+" with rejected token", func(t *testing.T) {
			req := testutil.NewRequest(t, http.MethodGet, path)
			req.Header.Set("Authorization", "Bearer stale")
			rr := testutil.DoRequest(router, req)
			testutil.AssertStatus(t, rr, http.StatusUnauthorized)
		})

		t.Run(path+" with valid token", func(t *testing.T) {
			req := testutil.NewRequest(t, http.MethodGet, path)
			req.Header.Set("Authorization", "Bearer good")
			rr := testutil.DoRequest(router, req)
			testutil.AssertStatusOK(t, rr)
			testutil.AssertJSONContains(t, rr, "account_id", accountID.String())
		})
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/nope"))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestRouter_MetricsRequireAdminToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	req := testutil.NewRequest(t, http.MethodGet, "/metrics")
	req.Header.Set("X-Admin-Token", "ops")
	rr = testutil.DoRequest(router, req)
	testutil.AssertStatusOK(t, rr)
}

func TestRouter_Readiness(t *testing.T) {
	up := Check{Name: "redis", Probe: func(context.Context) error { return nil }}
	down := Check{Name: "postgres", Probe: func(context.Context) error { return errors.New("connection refused") }}

	t.Run("all up", func(t *testing.T) {
		router, _ := newTestRouter(t, up)
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/readyz"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("one down", func(t *testing.T) {
		router, _ := newTestRouter(t, up, down)
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/readyz"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		resp := testutil.UnmarshalResponse[readyResponse](t, rr)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "down", resp.Checks["postgres"])
		assert.Equal(t, "up", resp.Checks["redis"])
	})
}

func TestRouter_LimitsApplyPerGroup(t *testing.T) {
	var public, account int
	counting := func(n *int) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				*n++
				next.ServeHTTP(w, r)
			})
		}
	}
	router := NewRouter(Config{
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Resolver:     tokenResolver{accountID: id.NewAccountID()},
		PublicLimit:  counting(&public),
		AccountLimit: counting(&account),
	}, Modules{
		Public:        []Registrar{publicModule{}},
		Authenticated: []Registrar{privateModule{}},
	})

	testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/v1/auth/login"))
	req := testutil.NewRequest(t, http.MethodGet, "/v1/home")
	req.Header.Set("Authorization", "Bearer good")
	testutil.DoRequest(router, req)
	testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))

	assert.Equal(t, 1, public)
	assert.Equal(t, 1, account)
}
