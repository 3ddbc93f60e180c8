package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"poltem/internal/survey"
	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/httputil"
	"poltem/pkg/platform/locale"
	"poltem/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/survey-mocks.go -package=mocks Service

type Service interface {
	Create(ctx context.Context, creator id.AccountID, in survey.CreateInput) (*survey.Survey, error)
	Get(ctx context.Context, surveyID id.SurveyID) (*survey.Survey, error)
	ListActive(ctx context.Context) ([]*survey.Survey, error)
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
	r.Get("/v1/surveys", h.HandleList)
	r.Get("/v1/surveys/{id}", h.HandleGet)
	r.Post("/v1/surveys", h.HandleCreate)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.service.ListActive(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list surveys",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteErrorContext(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSurveys(list, requestcontext.AccountID(ctx)))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	surveyID, err := id.ParseSurveyID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteErrorContext(ctx, w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid survey id"))
		return
	}
	sv, err := h.service.Get(ctx, surveyID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to load survey",
			"request_id", requestcontext.RequestID(ctx),
			"survey_id", surveyID.String(),
			"error", err,
		)
		httputil.WriteErrorContext(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromSurvey(sv, requestcontext.AccountID(ctx)))
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	creator := requestcontext.AccountID(ctx)
	req, ok := httputil.DecodeAndPrepare[CreateSurveyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sv, err := h.service.Create(ctx, creator, survey.CreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Link:           req.SurveyLink,
		CompletionCode: req.CompletionCode,
		TargetGender:   req.TargetGender,
		TargetAgeGroup: req.TargetAgeGroup,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "survey creation rejected",
			"request_id", requestID,
			"account_id", creator.String(),
			"error", err,
		)
		httputil.WriteErrorContext(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "survey created",
		"request_id", requestID,
		"account_id", creator.String(),
		"survey_id", sv.ID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, &CreateSurveyResponse{
		Survey: FromSurvey(sv, creator),
		Notice: locale.T(requestcontext.Locale(ctx), locale.NoticeSurveyCreated),
		Next:   "home",
	})
}
