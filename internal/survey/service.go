// Package survey lets researchers publish externally hosted surveys and lets
// participants find them.
package survey

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"golang.org/x/sync/singleflight"

	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/audit"
	"poltem/pkg/platform/sentinel"
	"poltem/pkg/requestcontext"
)

const defaultListLimit = 50

// Researchers answers whether an account may author surveys.
type Researchers interface {
	IsResearcher(ctx context.Context, accountID id.AccountID) (bool, error)
}

// AuditPublisher records audit events without failing the caller.
type AuditPublisher interface {
	Record(ctx context.Context, event audit.Event)
}

type Service struct {
	store       Store
	researchers Researchers
	auditor     AuditPublisher
	logger      *slog.Logger
	listLimit   int
	callTimeout time.Duration
	inflight    singleflight.Group
}

type Option func(*Service)

func WithAuditor(a AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithListLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.listLimit = n
		}
	}
}

// WithCallTimeout bounds the store write shared by duplicate submissions.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.callTimeout = d
		}
	}
}

func NewService(store Store, researchers Researchers, opts ...Option) *Service {
	s := &Service{
		store:       store,
		researchers: researchers,
		logger:      slog.Default(),
		listLimit:   defaultListLimit,
		callTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create publishes a survey owned by the caller, who must be a researcher.
func (s *Service) Create(ctx context.Context, creator id.AccountID, in CreateInput) (*Survey, error) {
	if creator.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no signed-in account")
	}
	ok, err := s.researchers.IsResearcher(ctx, creator)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, dErrors.New(dErrors.CodeForbidden, "only researchers can create surveys")
	}

	sv, err := buildSurvey(ctx, creator, in)
	if err != nil {
		return nil, err
	}

	key := creator.String() + "|" + sv.Title + "|" + sv.Link + "|" + sv.CompletionCode
	ch := s.inflight.DoChan(key, func() (any, error) {
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.callTimeout)
		defer cancel()
		if err := s.store.Create(writeCtx, sv); err != nil {
			return nil, err
		}
		return sv, nil
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "request abandoned")
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, storeError(res.Err, "failed to create survey")
	}
	created := res.Val.(*Survey)
	if res.Shared && created != sv {
		s.logger.InfoContext(ctx, "duplicate survey submission coalesced",
			"request_id", requestcontext.RequestID(ctx),
			"account_id", creator.String(),
		)
		return created, nil
	}

	if s.auditor != nil {
		s.auditor.Record(ctx, audit.NewEvent(ctx, audit.EventSurveyCreated, creator, created.ID.String(), created.Title))
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, surveyID id.SurveyID) (*Survey, error) {
	sv, err := s.store.Get(ctx, surveyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "survey not found")
		}
		return nil, storeError(err, "failed to load survey")
	}
	return sv, nil
}

// ListActive returns the newest active surveys.
func (s *Service) ListActive(ctx context.Context) ([]*Survey, error) {
	list, err := s.store.ListActive(ctx, s.listLimit)
	if err != nil {
		return nil, storeError(err, "failed to list surveys")
	}
	return list, nil
}

func buildSurvey(ctx context.Context, creator id.AccountID, in CreateInput) (*Survey, error) {
	title := strings.TrimSpace(in.Title)
	link := strings.TrimSpace(in.Link)
	code := strings.TrimSpace(in.CompletionCode)
	if title == "" || link == "" || code == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title, survey link and completion code are required")
	}
	if !isFormURL(link) {
		return nil, dErrors.New(dErrors.CodeValidation, "survey link must be an http or https address")
	}
	gender, err := id.ParseTargetGender(strings.TrimSpace(in.TargetGender))
	if err != nil {
		return nil, err
	}
	ageGroup, err := id.ParseTargetAgeGroup(strings.TrimSpace(in.TargetAgeGroup))
	if err != nil {
		return nil, err
	}
	return &Survey{
		ID:             id.NewSurveyID(),
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		Link:           link,
		CompletionCode: code,
		TargetGender:   gender,
		TargetAgeGroup: ageGroup,
		CreatorID:      creator,
		Status:         StatusActive,
		Platform:       DefaultPlatform,
		CreatedAt:      requestcontext.Now(ctx).UTC(),
	}, nil
}

func isFormURL(link string) bool {
	lower := strings.ToLower(link)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	return govalidator.IsURL(link)
}

func storeError(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrPermissionDenied):
		return dErrors.Wrap(err, dErrors.CodePermissionDenied, msg)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, msg)
	case errors.Is(err, sentinel.ErrExpired):
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "session expired")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
