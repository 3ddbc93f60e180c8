package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"poltem/internal/profile"
	"poltem/internal/profile/handler/mocks"
	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/locale"
	"poltem/pkg/testutil"
)

const testAccountID = "0b8e8a4e-5b3f-4f0e-8f43-2a1d4c9e7b21"

type HandlerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	service   *mocks.MockService
	router    chi.Router
	accountID id.AccountID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
	s.accountID, _ = id.ParseAccountID(testAccountID)
}

func (s *HandlerSuite) TestGetProfile() {
	updated := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	s.service.EXPECT().Get(gomock.Any(), s.accountID).Return(&profile.Profile{
		ID:           s.accountID,
		FullName:     "Ayşe Yılmaz",
		IsResearcher: true,
		UpdatedAt:    updated,
	}, nil)

	req := testutil.WithAccount(testutil.NewRequest(s.T(), http.MethodGet, "/v1/profile"), testAccountID)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[ProfileResponse](s.T(), rr)
	s.Equal("Ayşe Yılmaz", resp.FullName)
	s.True(resp.IsResearcher)
	s.Require().NotNil(resp.UpdatedAt)
	s.True(updated.Equal(*resp.UpdatedAt))
}

func (s *HandlerSuite) TestSaveProfile() {
	s.Run("saved", func() {
		s.service.EXPECT().Save(gomock.Any(), s.accountID, profile.Input{
			FullName: "Ayşe Yılmaz",
			Phone:    "05551112233",
			IBAN:     "TR33 0006",
		}).Return(&profile.SaveResult{
			Profile: &profile.Profile{ID: s.accountID, FullName: "Ayşe Yılmaz", Phone: "05551112233", IBAN: "TR330006"},
			Notice:  locale.NoticeProfileSaved,
		}, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/v1/profile", map[string]string{
			"full_name": " Ayşe Yılmaz ", "phone": "05551112233", "iban": "TR33 0006",
		})
		rr := testutil.DoRequest(s.router, testutil.WithAccount(req, testAccountID))

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[SaveProfileResponse](s.T(), rr)
		s.Equal("saved", resp.Status)
		s.Equal("home", resp.Next)
		s.Equal("Profil bilgileriniz güncellendi.", resp.Notice)
		s.Equal("TR330006", resp.Profile.IBAN)
	})

	s.Run("pending permission still succeeds", func() {
		s.service.EXPECT().Save(gomock.Any(), s.accountID, gomock.Any()).Return(&profile.SaveResult{
			Profile: &profile.Profile{ID: s.accountID},
			Pending: true,
			Notice:  locale.NoticeProfilePending,
		}, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/v1/profile", map[string]string{"full_name": "A", "phone": "1"})
		req = testutil.WithLocale(testutil.WithAccount(req, testAccountID), locale.English)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[SaveProfileResponse](s.T(), rr)
		s.Equal("pending_permission", resp.Status)
		s.Equal("Saving is waiting for database permission, but you may continue.", resp.Notice)
	})

	s.Run("researcher flag cannot be posted", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPut, "/v1/profile", `{"full_name":"A","phone":"1","is_researcher":true}`)
		rr := testutil.DoRequest(s.router, testutil.WithAccount(req, testAccountID))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("validation failure", func() {
		s.service.EXPECT().Save(gomock.Any(), s.accountID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "full name and phone are required"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/v1/profile", map[string]string{"full_name": ""})
		rr := testutil.DoRequest(s.router, testutil.WithAccount(req, testAccountID))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
		testutil.AssertErrorDescription(s.T(), rr, "full name and phone are required")
	})
}

func TestFromProfile_OmitsZeroUpdate(t *testing.T) {
	resp := FromProfile(&profile.Profile{ID: id.NewAccountID()})
	assert.Nil(t, resp.UpdatedAt)
}
