package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"poltem/internal/profile"
	id "poltem/pkg/domain"
	"poltem/pkg/platform/httputil"
	"poltem/pkg/platform/locale"
	"poltem/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/profile-mocks.go -package=mocks Service

type Service interface {
	Get(ctx context.Context, accountID id.AccountID) (*profile.Profile, error)
	Save(ctx context.Context, accountID id.AccountID, in profile.Input) (*profile.SaveResult, error)
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

// Register mounts the profile endpoints; the router puts them behind auth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/profile", h.HandleGet)
	r.Put("/v1/profile", h.HandleSave)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := requestcontext.AccountID(ctx)
	p, err := h.service.Get(ctx, accountID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load profile",
			"request_id", requestcontext.RequestID(ctx),
			"account_id", accountID.String(),
			"error", err,
		)
		httputil.WriteErrorContext(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProfile(p))
}

func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	accountID := requestcontext.AccountID(ctx)
	req, ok := httputil.DecodeAndPrepare[SaveProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.service.Save(ctx, accountID, profile.Input{
		FullName:     req.FullName,
		Phone:        req.Phone,
		Gender:       req.Gender,
		BirthDate:    req.BirthDate,
		BankName:     req.BankName,
		IBAN:         req.IBAN,
		FullNameBank: req.FullNameBank,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to save profile",
			"request_id", requestID,
			"account_id", accountID.String(),
			"error", err,
		)
		httputil.WriteErrorContext(ctx, w, err)
		return
	}

	status := "saved"
	if res.Pending {
		status = "pending_permission"
	}
	h.logger.InfoContext(ctx, "profile saved",
		"request_id", requestID,
		"account_id", accountID.String(),
		"status", status,
	)
	httputil.WriteJSON(w, http.StatusOK, &SaveProfileResponse{
		Profile: FromProfile(res.Profile),
		Status:  status,
		Notice:  locale.T(requestcontext.Locale(ctx), res.Notice),
		Next:    "home",
	})
}
