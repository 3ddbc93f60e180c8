package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"poltem/internal/home"
	"poltem/internal/identity"
	"poltem/internal/profile"
	"poltem/internal/survey"
	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/requestcontext"
	"poltem/pkg/testutil"
)

const testAccountID = "7e6d5c4b-3a29-4180-9f7e-6d5c4b3a2918"

type stubService struct {
	overview *home.Overview
	err      error
	got      requestcontext.Principal
}

func (s *stubService) Overview(_ context.Context, p requestcontext.Principal) (*home.Overview, error) {
	s.got = p
	return s.overview, s.err
}

func newRouter(svc *stubService) chi.Router {
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func TestHandleOverview(t *testing.T) {
	accountID, _ := id.ParseAccountID(testAccountID)
	svc := &stubService{overview: &home.Overview{
		Account:         &identity.Account{ID: accountID, Email: "ayse.yilmaz@poltemakademi.com"},
		Profile:         &profile.Profile{ID: accountID, IsResearcher: true},
		Surveys:         []*survey.Survey{{ID: id.NewSurveyID(), Title: "Kahve", CreatorID: accountID, CompletionCode: "K"}},
		IsResearcher:    true,
		CanCreateSurvey: true,
	}}

	req := testutil.WithAccount(testutil.NewRequest(t, http.MethodGet, "/v1/home"), testAccountID)
	rr := testutil.DoRequest(newRouter(svc), req)

	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, accountID, svc.got.AccountID)
	resp := testutil.UnmarshalResponse[OverviewResponse](t, rr)
	assert.Equal(t, "Ayse Yilmaz", resp.Account.DisplayName)
	assert.True(t, resp.CanCreateSurvey)
	assert.Len(t, resp.Surveys, 1)
	assert.Equal(t, "K", resp.Surveys[0].CompletionCode, "creator sees own code")
}

func TestHandleOverview_Error(t *testing.T) {
	svc := &stubService{err: dErrors.New(dErrors.CodeUnavailable, "records unavailable")}
	req := testutil.WithAccount(testutil.NewRequest(t, http.MethodGet, "/v1/home"), testAccountID)
	rr := testutil.DoRequest(newRouter(svc), req)
	testutil.AssertStatusAndError(t, rr, http.StatusServiceUnavailable, "unavailable")
}
