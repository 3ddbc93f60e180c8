package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"poltem/internal/participation"
	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/httputil"
	"poltem/pkg/platform/locale"
	"poltem/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/participation-mocks.go -package=mocks Service

type Service interface {
	Open(ctx context.Context, accountID id.AccountID, surveyID *id.SurveyID) (*participation.Flow, error)
	Get(ctx context.Context, accountID id.AccountID, flowID id.ParticipationID) (*participation.Flow, error)
	Declare(ctx context.Context, accountID id.AccountID, flowID id.ParticipationID, accepted bool) (*participation.Flow, error)
	Start(ctx context.Context, accountID id.AccountID, flowID id.ParticipationID) (*participation.Flow, string, error)
	Verify(ctx context.Context, accountID id.AccountID, flowID id.ParticipationID, code string) (*participation.Flow, error)
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
	r.Post("/v1/participations", h.HandleOpen)
	r.Route("/v1/participations/{id}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Post("/declaration", h.HandleDeclare)
		r.Post("/start", h.HandleStart)
		r.Post("/verify", h.HandleVerify)
	})
}

func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[OpenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	flow, err := h.service.Open(ctx, requestcontext.AccountID(ctx), req.surveyID)
	if err != nil {
		h.fail(ctx, w, "open", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromFlow(flow, requestcontext.Locale(ctx)))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flowID, ok := h.flowID(w, r)
	if !ok {
		return
	}
	flow, err := h.service.Get(ctx, requestcontext.AccountID(ctx), flowID)
	if err != nil {
		h.fail(ctx, w, "get", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromFlow(flow, requestcontext.Locale(ctx)))
}

func (h *Handler) HandleDeclare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flowID, ok := h.flowID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[DeclarationRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	flow, err := h.service.Declare(ctx, requestcontext.AccountID(ctx), flowID, req.Accepted)
	if err != nil {
		h.fail(ctx, w, "declare", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromFlow(flow, requestcontext.Locale(ctx)))
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flowID, ok := h.flowID(w, r)
	if !ok {
		return
	}
	flow, formURL, err := h.service.Start(ctx, requestcontext.AccountID(ctx), flowID)
	if err != nil {
		h.fail(ctx, w, "start", err)
		return
	}
	resp := FromFlow(flow, requestcontext.Locale(ctx))
	resp.FormURL = formURL
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flowID, ok := h.flowID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	flow, err := h.service.Verify(ctx, requestcontext.AccountID(ctx), flowID, req.Code)
	if err != nil {
		h.fail(ctx, w, "verify", err)
		return
	}
	resp := FromFlow(flow, requestcontext.Locale(ctx))
	resp.Notice = locale.T(requestcontext.Locale(ctx), locale.NoticeSurveyCompleted)
	resp.Next = "home"
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) flowID(w http.ResponseWriter, r *http.Request) (id.ParticipationID, bool) {
	flowID, err := id.ParseParticipationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteErrorContext(r.Context(), w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid participation id"))
		return id.ParticipationID{}, false
	}
	return flowID, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	level := slog.LevelWarn
	if dErrors.GetCode(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, "participation step rejected",
		"request_id", requestcontext.RequestID(ctx),
		"account_id", requestcontext.AccountID(ctx).String(),
		"operation", op,
		"code", string(dErrors.GetCode(err)),
		"error", err,
	)
	httputil.WriteErrorContext(ctx, w, err)
}
