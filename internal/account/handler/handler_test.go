package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"poltem/internal/account"
	"poltem/internal/account/handler/mocks"
	"poltem/internal/identity"
	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/locale"
	"poltem/pkg/requestcontext"
	"poltem/pkg/testutil"
)

const testAccountID = "8d6f2f0e-6f0b-4c47-9a38-3b7f3c1b9a11"

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	h.RegisterAuthenticated(r)
	return r, svc
}

func TestHandleRegister(t *testing.T) {
	router, svc := newTestRouter(t)
	accountID, _ := id.ParseAccountID(testAccountID)
	svc.EXPECT().Register(gomock.Any(), account.RegisterInput{
		FullName:      "Ayşe Yılmaz",
		Identifier:    "ayse",
		Password:      "Secret1!",
		KVKKAccepted:  true,
		TermsAccepted: true,
	}).Return(&account.Result{
		Next:   account.NextHome,
		Notice: locale.NoticeRegistered,
		Session: &identity.Session{
			AccessToken: "token",
			ExpiresAt:   time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
			Account:     identity.Account{ID: accountID, Email: "ayse@poltemakademi.com", FullName: "Ayşe Yılmaz"},
		},
		Email: "ayse@poltemakademi.com",
	}, nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/auth/register", map[string]any{
		"full_name":      " Ayşe Yılmaz ",
		"identifier":     " ayse ",
		"password":       "Secret1!",
		"kvkk_accepted":  true,
		"terms_accepted": true,
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[FlowResponse](t, rr)
	assert.Equal(t, "home", resp.Next)
	assert.Equal(t, locale.T(locale.Turkish, locale.NoticeRegistered), resp.Notice)
	require.NotNil(t, resp.Session)
	assert.Equal(t, "token", resp.Session.AccessToken)
	assert.Equal(t, "bearer", resp.Session.TokenType)
	assert.Equal(t, "Ayşe Yılmaz", resp.Session.Account.DisplayName)
}

func TestHandleLogin_TranslatedFailure(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.EXPECT().Login(gomock.Any(), account.LoginInput{Identifier: "ayse", Password: "bad"}).
		Return(nil, dErrors.New(dErrors.CodeInvalidCredentials, "invalid_credentials"))

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/auth/login", map[string]string{
		"identifier": "ayse", "password": "bad",
	})
	req = testutil.WithLocale(req, locale.English)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "invalid_credentials")
	testutil.AssertJSONContains(t, rr, "notice", "E-mail or password is incorrect.")
}

func TestHandleLogin_UnknownField(t *testing.T) {
	router, _ := newTestRouter(t)
	req := testutil.NewRequestWithBody(t, http.MethodPost, "/v1/auth/login", `{"identifier":"a","password":"b","remember":true}`)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestHandlePhoneFlow(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.EXPECT().RequestPhoneOTP(gomock.Any(), "0555 111 22 33").
		Return(&account.Result{Next: account.NextVerify, Notice: locale.NoticeOTPSent, Phone: "+905551112233"}, nil)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/auth/phone/otp",
		map[string]string{"phone": "0555 111 22 33"}))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertNext(t, rr, "verify")
	testutil.AssertJSONContains(t, rr, "phone", "+905551112233")

	svc.EXPECT().VerifyPhoneOTP(gomock.Any(), "+905551112233", "123456").
		Return(nil, dErrors.New(dErrors.CodeInvalidOTP, "invalid_otp"))
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/auth/phone/verify",
		map[string]string{"phone": "+905551112233", "code": "123456"}))
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "invalid_otp")
}

func TestHandleForgotPassword(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.EXPECT().RequestPasswordReset(gomock.Any(), "ayse@poltemakademi.com").
		Return(&account.Result{Next: account.NextVerifyOTP, Notice: locale.NoticeRecoveryCodeSent, Email: "ayse@poltemakademi.com"}, nil)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/v1/auth/password/forgot",
		map[string]string{"email": " ayse@poltemakademi.com "}))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertNext(t, rr, "verify_otp")
	testutil.AssertJSONContains(t, rr, "email", "ayse@poltemakademi.com")
}

func TestHandleResetPassword_UsesPrincipal(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.EXPECT().ResetPassword(gomock.Any(), gomock.Any(), account.ResetPasswordInput{Password: "NewSecret2?", Confirm: "NewSecret2?"}).
		DoAndReturn(func(_ context.Context, p requestcontext.Principal, _ account.ResetPasswordInput) (*account.Result, error) {
			assert.Equal(t, testAccountID, p.AccountID.String())
			assert.Equal(t, "test-token", p.AccessToken)
			return &account.Result{Next: account.NextLogin, Notice: locale.NoticePasswordUpdated}, nil
		})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/auth/password/reset", map[string]string{
		"password": "NewSecret2?", "confirm_password": "NewSecret2?",
	})
	rr := testutil.DoRequest(router, testutil.WithAccount(req, testAccountID))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertNext(t, rr, "login")
}

func TestHandleMe(t *testing.T) {
	router, svc := newTestRouter(t)
	accountID, _ := id.ParseAccountID(testAccountID)
	svc.EXPECT().Me(gomock.Any(), gomock.Any()).
		Return(&identity.Account{ID: accountID, Email: "ayse.yilmaz@poltemakademi.com"}, nil)

	req := testutil.WithAccount(testutil.NewRequest(t, http.MethodGet, "/v1/auth/me"), testAccountID)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusOK(t, rr)
	resp := testutil.UnmarshalResponse[AccountResponse](t, rr)
	assert.Equal(t, testAccountID, resp.ID)
	assert.Equal(t, "Ayse Yilmaz", resp.DisplayName)
}

func TestHandleLogout(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.EXPECT().Logout(gomock.Any(), gomock.Any()).Return(&account.Result{Next: account.NextLogin}, nil)

	req := testutil.WithAccount(testutil.NewRequest(t, http.MethodPost, "/v1/auth/logout"), testAccountID)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusOK(t, rr)
	testutil.AssertNext(t, rr, "login")
}
