// Package participation sequences a participant through the survey
// checklist: accept the declaration, copy the display id, open the external
// form, then type back the completion code.
package participation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"poltem/internal/participation/metrics"
	"poltem/internal/survey"
	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/audit"
	"poltem/pkg/platform/sentinel"
	"poltem/pkg/requestcontext"
)

// DefaultFlowTTL bounds how long an opened flow stays usable.
const DefaultFlowTTL = 2 * time.Hour

// Surveys looks up the survey a flow is opened for.
type Surveys interface {
	Get(ctx context.Context, surveyID id.SurveyID) (*survey.Survey, error)
}

// AuditPublisher records audit events without failing the caller.
type AuditPublisher interface {
	Record(ctx context.Context, event audit.Event)
}

type Service struct {
	store     Store
	surveys   Surveys
	auditor   AuditPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	displayID DisplayIDGenerator
	ttl       time.Duration
}

type Option func(*Service)

func WithAuditor(a AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithDisplayIDGenerator(g DisplayIDGenerator) Option {
	return func(s *Service) {
		if g != nil {
			s.displayID = g
		}
	}
}

func WithFlowTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewService(store Store, surveys Surveys, opts ...Option) *Service {
	s := &Service{
		store:     store,
		surveys:   surveys,
		logger:    slog.Default(),
		displayID: RandomDisplayID,
		ttl:       DefaultFlowTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts a fresh flow at step 1. A nil or unknown survey id yields a
// Missing flow rather than an error.
func (s *Service) Open(ctx context.Context, accountID id.AccountID, surveyID *id.SurveyID) (*Flow, error) {
	if accountID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no signed-in account")
	}
	param, err := s.resolveSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	displayID, err := s.displayID()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate display id")
	}

	flow := NewFlow(accountID, param, displayID, requestcontext.Now(ctx).UTC())
	if err := s.store.Create(ctx, flow, s.ttl); err != nil {
		return nil, storeError(err, "failed to open participation")
	}

	s.metrics.IncTransition(flow.Step.String())
	s.record(ctx, audit.EventParticipationOpened, flow, "")
	s.logger.InfoContext(ctx, "participation opened",
		"request_id", requestcontext.RequestID(ctx),
		"account_id", accountID.String(),
		"participation_id", flow.ID.String(),
		"survey_missing", param.IsMissing(),
	)
	return flow, nil
}

// Get returns a flow owned by accountID. Flows of other accounts are
// reported as not found.
func (s *Service) Get(ctx context.Context, accountID id.AccountID, flowID id.ParticipationID) (*Flow, error) {
	flow, err := s.store.Get(ctx, flowID)
	if err != nil {
		return nil, storeError(err, "failed to load participation")
	}
	if flow.AccountID != accountID {
		return nil, notFound()
	}
	return flow, nil
}

// Declare moves the flow to step 2. accepted must be true.
func (s *Service) Declare(ctx context.Context, accountID id.AccountID, flowID id.ParticipationID, accepted bool) (*Flow, error) {
	if !accepted {
		return nil, dErrors.New(dErrors.CodeConsentRequired, "participation declaration must be accepted")
	}
	var before Step
	flow, err := s.update(ctx, accountID, flowID, func(f *Flow) error {
		before = f.Step
		f.Declare(requestcontext.Now(ctx).UTC())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if before < StepDeclared {
		s.metrics.IncTransition(flow.Step.String())
		s.record(ctx, audit.EventParticipationDeclared, flow, "")
	}
	return flow, nil
}

// Start opens the external form: it moves the flow to step 3 and returns the
// form URL.
func (s *Service) Start(ctx context.Context, accountID id.AccountID, flowID id.ParticipationID) (*Flow, string, error) {
	var (
		before Step
		link   string
	)
	flow, err := s.update(ctx, accountID, flowID, func(f *Flow) error {
		before = f.Step
		var err error
		link, err = f.Start(requestcontext.Now(ctx).UTC())
		return err
	})
	if err != nil {
		return nil, "", err
	}
	if before < StepFormOpened {
		s.metrics.IncTransition(flow.Step.String())
		s.record(ctx, audit.EventParticipationStarted, flow, "")
	}
	return flow, link, nil
}

// Verify checks the completion code. A mismatch is persisted as an attempt
// and reported as code_mismatch; the step stays at 3.
func (s *Service) Verify(ctx context.Context, accountID id.AccountID, flowID id.ParticipationID, code string) (*Flow, error) {
	var verifyErr error
	flow, err := s.update(ctx, accountID, flowID, func(f *Flow) error {
		verifyErr = f.Verify(code, requestcontext.Now(ctx).UTC())
		if dErrors.HasCode(verifyErr, dErrors.CodeCodeMismatch) {
			return nil
		}
		return verifyErr
	})
	if err != nil {
		if verifyErr != nil {
			s.metrics.IncVerification(string(dErrors.GetCode(verifyErr)))
		}
		return nil, err
	}
	if verifyErr != nil {
		s.metrics.IncVerification(string(dErrors.GetCode(verifyErr)))
		s.record(ctx, audit.EventParticipationVerifyFailed, flow, string(dErrors.CodeCodeMismatch))
		return flow, verifyErr
	}

	s.metrics.IncVerification("verified")
	s.metrics.IncTransition(flow.Step.String())
	s.record(ctx, audit.EventParticipationVerified, flow, "")
	s.logger.InfoContext(ctx, "participation verified",
		"request_id", requestcontext.RequestID(ctx),
		"account_id", accountID.String(),
		"participation_id", flow.ID.String(),
		"attempts", flow.VerifyAttempts,
	)
	return flow, nil
}

func (s *Service) update(ctx context.Context, accountID id.AccountID, flowID id.ParticipationID, fn func(*Flow) error) (*Flow, error) {
	flow, err := s.store.Update(ctx, flowID, func(f *Flow) error {
		if f.AccountID != accountID {
			return notFound()
		}
		return fn(f)
	})
	if err != nil {
		var de *dErrors.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, storeError(err, "failed to update participation")
	}
	return flow, nil
}

func (s *Service) resolveSurvey(ctx context.Context, surveyID *id.SurveyID) (SurveyParam, error) {
	if surveyID == nil || surveyID.IsNil() {
		s.metrics.IncMissingSurvey()
		return Missing(), nil
	}
	sv, err := s.surveys.Get(ctx, *surveyID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) || errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "participation opened for unknown survey",
				"request_id", requestcontext.RequestID(ctx),
				"survey_id", surveyID.String(),
			)
			s.metrics.IncMissingSurvey()
			return Missing(), nil
		}
		return SurveyParam{}, err
	}
	return Found(SurveySnapshot{
		ID:             sv.ID,
		Title:          sv.Title,
		Description:    sv.Description,
		Link:           sv.Link,
		CompletionCode: sv.CompletionCode,
		Platform:       sv.Platform,
	}), nil
}

func (s *Service) record(ctx context.Context, event audit.AuditEvent, f *Flow, reason string) {
	if s.auditor == nil {
		return
	}
	subject := f.ID.String()
	if f.Survey.Survey != nil {
		subject = f.Survey.Survey.ID.String()
	}
	s.auditor.Record(ctx, audit.NewEvent(ctx, event, f.AccountID, subject, reason))
}

func notFound() error {
	return dErrors.New(dErrors.CodeNotFound, "participation not found")
}

func storeError(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return notFound()
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "participation was updated concurrently, try again")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
