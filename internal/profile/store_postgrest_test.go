package profile

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poltem/internal/platform/postgrest"
	id "poltem/pkg/domain"
	"poltem/pkg/platform/sentinel"
	"poltem/pkg/requestcontext"
)

func TestRESTStore(t *testing.T) {
	accountID := id.NewAccountID()
	var posted map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "eq."+accountID.String(), r.URL.Query().Get("id"))
			_, _ = io.WriteString(w, `[{"id":"`+accountID.String()+`","full_name":"Ayşe","is_researcher":true,"updated_at":"2026-03-01T12:00:00Z"}]`)
		case http.MethodPost:
			assert.Equal(t, postgrest.PreferUpsert, r.Header.Get("Prefer"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"code":"42501","message":"new row violates row-level security policy"}`)
		}
	}))
	defer srv.Close()

	ctx := requestcontext.WithPrincipal(context.Background(), requestcontext.Principal{AccountID: accountID, AccessToken: "user-token"})
	store := NewRESTStore(postgrest.New(srv.URL, "anon"))

	got, err := store.Get(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, "Ayşe", got.FullName)
	assert.True(t, got.IsResearcher)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), got.UpdatedAt)

	err = store.Upsert(ctx, &Profile{ID: accountID, FullName: "Ayşe", IsResearcher: true, UpdatedAt: got.UpdatedAt})
	assert.ErrorIs(t, err, sentinel.ErrPermissionDenied)
	_, sent := posted["is_researcher"]
	assert.False(t, sent)
}
