package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	accounthandler "poltem/internal/account/handler"
	"poltem/internal/home"
	profilehandler "poltem/internal/profile/handler"
	surveyhandler "poltem/internal/survey/handler"
	"poltem/pkg/platform/httputil"
	"poltem/pkg/requestcontext"
)

type Service interface {
	Overview(ctx context.Context, p requestcontext.Principal) (*home.Overview, error)
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

func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/home", h.HandleOverview)
}

type OverviewResponse struct {
	Account         accounthandler.AccountResponse `json:"account"`
	Profile         profilehandler.ProfileResponse `json:"profile"`
	Surveys         []surveyhandler.SurveyResponse `json:"surveys"`
	IsResearcher    bool                           `json:"is_researcher"`
	CanCreateSurvey bool                           `json:"can_create_survey"`
	ProfileComplete bool                           `json:"profile_complete"`
}

func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := requestcontext.PrincipalFrom(ctx)
	ov, err := h.service.Overview(ctx, p)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build home overview",
			"request_id", requestcontext.RequestID(ctx),
			"account_id", p.AccountID.String(),
			"error", err,
		)
		httputil.WriteErrorContext(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &OverviewResponse{
		Account:         accounthandler.FromAccount(ov.Account),
		Profile:         profilehandler.FromProfile(ov.Profile),
		Surveys:         surveyhandler.FromSurveys(ov.Surveys, p.AccountID).Surveys,
		IsResearcher:    ov.IsResearcher,
		CanCreateSurvey: ov.CanCreateSurvey,
		ProfileComplete: ov.ProfileComplete,
	})
}
