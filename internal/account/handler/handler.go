package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"poltem/internal/account"
	"poltem/internal/identity"
	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/httputil"
	"poltem/pkg/platform/locale"
	"poltem/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/account-mocks.go -package=mocks Service

// Service defines the account flows the handler exposes.
type Service interface {
	Register(ctx context.Context, in account.RegisterInput) (*account.Result, error)
	Login(ctx context.Context, in account.LoginInput) (*account.Result, error)
	RequestPhoneOTP(ctx context.Context, phone string) (*account.Result, error)
	VerifyPhoneOTP(ctx context.Context, phone, code string) (*account.Result, error)
	RequestPasswordReset(ctx context.Context, email string) (*account.Result, error)
	VerifyRecoveryOTP(ctx context.Context, email, code string) (*account.Result, error)
	ResetPassword(ctx context.Context, p requestcontext.Principal, in account.ResetPasswordInput) (*account.Result, error)
	Me(ctx context.Context, p requestcontext.Principal) (*identity.Account, error)
	Logout(ctx context.Context, p requestcontext.Principal) (*account.Result, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the anonymous account endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/auth/register", h.HandleRegister)
	r.Post("/v1/auth/login", h.HandleLogin)
	r.Post("/v1/auth/phone/otp", h.HandlePhoneOTP)
	r.Post("/v1/auth/phone/verify", h.HandlePhoneVerify)
	r.Post("/v1/auth/password/forgot", h.HandleForgotPassword)
	r.Post("/v1/auth/password/verify", h.HandleRecoveryVerify)
}

// RegisterAuthenticated mounts endpoints that need a resolved principal.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Post("/v1/auth/password/reset", h.HandleResetPassword)
	r.Get("/v1/auth/me", h.HandleMe)
	r.Post("/v1/auth/logout", h.HandleLogout)
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	start := time.Now()
	res, err := h.service.Register(ctx, account.RegisterInput{
		FullName:      req.FullName,
		Identifier:    req.Identifier,
		Password:      req.Password,
		KVKKAccepted:  req.KVKKAccepted,
		TermsAccepted: req.TermsAccepted,
	})
	h.respond(w, r, account.FlowRegister, start, res, err)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	start := time.Now()
	res, err := h.service.Login(ctx, account.LoginInput{Identifier: req.Identifier, Password: req.Password})
	h.respond(w, r, account.FlowLogin, start, res, err)
}

func (h *Handler) HandlePhoneOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[PhoneOTPRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	start := time.Now()
	res, err := h.service.RequestPhoneOTP(ctx, req.Phone)
	h.respond(w, r, account.FlowPhoneOTP, start, res, err)
}

func (h *Handler) HandlePhoneVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[PhoneVerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	start := time.Now()
	res, err := h.service.VerifyPhoneOTP(ctx, req.Phone, req.Code)
	h.respond(w, r, account.FlowPhoneVerify, start, res, err)
}

func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[ForgotPasswordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	start := time.Now()
	res, err := h.service.RequestPasswordReset(ctx, req.Email)
	h.respond(w, r, account.FlowPasswordForgot, start, res, err)
}

func (h *Handler) HandleRecoveryVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[RecoveryVerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	start := time.Now()
	res, err := h.service.VerifyRecoveryOTP(ctx, req.Email, req.Code)
	h.respond(w, r, account.FlowPasswordVerify, start, res, err)
}

func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[ResetPasswordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	start := time.Now()
	res, err := h.service.ResetPassword(ctx, requestcontext.PrincipalFrom(ctx), account.ResetPasswordInput{
		Password: req.Password,
		Confirm:  req.ConfirmPassword,
	})
	h.respond(w, r, account.FlowPasswordReset, start, res, err)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := requestcontext.PrincipalFrom(ctx)
	acct, err := h.service.Me(ctx, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "current account lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"account_id", principal.AccountID.String(),
			"error", err,
		)
		httputil.WriteErrorContext(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAccount(acct))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res, err := h.service.Logout(r.Context(), requestcontext.PrincipalFrom(r.Context()))
	h.respond(w, r, account.FlowLogout, start, res, err)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, flow string, start time.Time, res *account.Result, err error) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	if err != nil {
		level := slog.LevelWarn
		if dErrors.GetCode(err) == dErrors.CodeInternal {
			level = slog.LevelError
		}
		h.logger.Log(ctx, level, "account flow rejected",
			"request_id", requestID,
			"flow", flow,
			"code", string(dErrors.GetCode(err)),
			"error", err,
		)
		httputil.WriteErrorContext(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "account flow completed",
		"request_id", requestID,
		"flow", flow,
		"next", string(res.Next),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	var notice string
	if res.Notice != "" {
		notice = locale.T(requestcontext.Locale(ctx), res.Notice)
	}
	httputil.WriteJSON(w, http.StatusOK, FromResult(res, notice))
}
