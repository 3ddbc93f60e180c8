package gotrue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poltem/internal/identity"
)

const (
	testAPIKey    = "anon-key"
	testAccountID = "5f0c7a52-3a57-4a36-9c5b-6c7d0f1e2a10"
)

type recordedCall struct {
	method string
	path   string
	query  string
	auth   string
	apikey string
	body   map[string]any
}

func newTestServer(t *testing.T, status int, response any) (*httptest.Server, *[]recordedCall) {
	t.Helper()
	var calls []recordedCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			apikey: r.Header.Get("apikey"),
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&call.body)
		}
		calls = append(calls, call)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if response != nil {
			_ = json.NewEncoder(w).Encode(response)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestClient(srv *httptest.Server) *Client {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return New(srv.URL, testAPIKey,
		WithHTTPClient(srv.Client()),
		WithMetrics(NewMetricsWith(prometheus.NewRegistry())),
		WithClock(func() time.Time { return fixed }),
	)
}

func sessionBody() map[string]any {
	return map[string]any{
		"access_token":  "user-token",
		"token_type":    "bearer",
		"expires_in":    3600,
		"refresh_token": "refresh",
		"user": map[string]any{
			"id":                 testAccountID,
			"email":              "ayse@poltemakademi.com",
			"email_confirmed_at": "2026-01-01T00:00:00Z",
			"user_metadata":      map[string]any{"full_name": "Ayşe Yılmaz"},
		},
	}
}

func TestClient_SignInWithPassword(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, sessionBody())
	c := newTestClient(srv)

	session, err := c.SignInWithPassword(context.Background(), "ayse@poltemakademi.com", "Secret1!")
	require.NoError(t, err)

	assert.Equal(t, "user-token", session.AccessToken)
	assert.Equal(t, testAccountID, session.Account.ID.String())
	assert.Equal(t, "Ayşe Yılmaz", session.Account.FullName)
	assert.True(t, session.Account.EmailConfirmed)
	assert.Equal(t, time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC), session.ExpiresAt)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/auth/v1/token", call.path)
	assert.Equal(t, "grant_type=password", call.query)
	assert.Equal(t, testAPIKey, call.apikey)
	assert.Equal(t, "Bearer "+testAPIKey, call.auth)
	assert.Equal(t, "ayse@poltemakademi.com", call.body["email"])
}

func TestClient_SignUpWithoutSession(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, map[string]any{
		"id":    testAccountID,
		"email": "ayse@poltemakademi.com",
	})
	c := newTestClient(srv)

	session, err := c.SignUp(context.Background(), identity.SignUpInput{
		Email: "ayse@poltemakademi.com", Password: "Secret1!", FullName: "Ayşe",
	})
	require.NoError(t, err)
	assert.False(t, session.HasToken())
	assert.Equal(t, testAccountID, session.Account.ID.String())

	data, ok := (*calls)[0].body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ayşe", data["full_name"])
}

func TestClient_VerifyOTPPurposes(t *testing.T) {
	tests := []struct {
		name     string
		in       identity.VerifyOTPInput
		wantType string
		wantKey  string
	}{
		{"sign in uses sms and phone", identity.VerifyOTPInput{Phone: "+905551112233", Code: "123456", Purpose: identity.OTPSignIn}, "sms", "phone"},
		{"recovery uses email", identity.VerifyOTPInput{Email: "a@b.com", Code: "123456", Purpose: identity.OTPRecovery}, "recovery", "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := newTestServer(t, http.StatusOK, sessionBody())
			c := newTestClient(srv)

			_, err := c.VerifyOTP(context.Background(), tt.in)
			require.NoError(t, err)
			body := (*calls)[0].body
			assert.Equal(t, tt.wantType, body["type"])
			assert.NotEmpty(t, body[tt.wantKey])
			assert.Equal(t, "123456", body["token"])
		})
	}
}

func TestClient_UserCallsSendUserToken(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, sessionBody()["user"])
	c := newTestClient(srv)

	account, err := c.CurrentAccount(context.Background(), "user-token")
	require.NoError(t, err)
	assert.Equal(t, "ayse@poltemakademi.com", account.Email)
	assert.Equal(t, "Bearer user-token", (*calls)[0].auth)
	assert.Equal(t, http.MethodGet, (*calls)[0].method)
}

func TestClient_ErrorShapes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		wantKind identity.FailureKind
		wantMsg  string
	}{
		{
			name:     "error_code and msg",
			status:   http.StatusBadRequest,
			body:     map[string]any{"code": 400, "error_code": "email_not_confirmed", "msg": "Email not confirmed"},
			wantKind: identity.FailureEmailNotConfirmed,
			wantMsg:  "Email not confirmed",
		},
		{
			name:     "legacy oauth shape",
			status:   http.StatusBadRequest,
			body:     map[string]any{"error": "invalid_grant", "error_description": "Invalid login credentials"},
			wantKind: identity.FailureInvalidCredentials,
			wantMsg:  "Invalid login credentials",
		},
		{
			name:     "unknown message passes through",
			status:   http.StatusBadRequest,
			body:     map[string]any{"message": "Database error saving new user"},
			wantKind: identity.FailureUnknown,
			wantMsg:  "Database error saving new user",
		},
		{
			name:     "server error",
			status:   http.StatusBadGateway,
			body:     nil,
			wantKind: identity.FailureUnavailable,
			wantMsg:  "Bad Gateway",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			c := newTestClient(srv)

			err := c.RequestPasswordReset(context.Background(), "a@b.com")
			require.Error(t, err)
			f := identity.Classify(err)
			assert.Equal(t, tt.wantKind, f.Kind)
			assert.Equal(t, tt.wantMsg, f.Message)
			assert.Equal(t, tt.status, f.Status)
		})
	}
}

func TestClient_TransportFailureOpensBreaker(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, nil)
	c := newTestClient(srv)
	srv.Close()

	for range 5 {
		err := c.SignOut(context.Background(), "user-token")
		require.Error(t, err)
		assert.Equal(t, identity.FailureUnavailable, identity.Classify(err).Kind)
	}
	assert.True(t, c.Degraded())
}
