// Package profile fetches and saves the participant profile of the current
// account.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/audit"
	"poltem/pkg/platform/locale"
	"poltem/pkg/platform/sentinel"
	"poltem/pkg/requestcontext"
)

// AuditPublisher records audit events without failing the caller.
type AuditPublisher interface {
	Record(ctx context.Context, event audit.Event)
}

type Service struct {
	store   Store
	auditor AuditPublisher
	logger  *slog.Logger
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

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the account's profile, or an empty one when nothing was saved.
func (s *Service) Get(ctx context.Context, accountID id.AccountID) (*Profile, error) {
	if accountID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no signed-in account")
	}
	p, err := s.store.Get(ctx, accountID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return &Profile{ID: accountID}, nil
	}
	if err != nil {
		return nil, storeError(err, "failed to load profile")
	}
	return p, nil
}

// IsResearcher reports the back-office researcher flag.
func (s *Service) IsResearcher(ctx context.Context, accountID id.AccountID) (bool, error) {
	p, err := s.Get(ctx, accountID)
	if err != nil {
		return false, err
	}
	return p.IsResearcher, nil
}

// Save upserts the profile. Full name and phone are required; the stored
// researcher flag is carried over unchanged.
func (s *Service) Save(ctx context.Context, accountID id.AccountID, in Input) (*SaveResult, error) {
	if accountID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no signed-in account")
	}
	in = trimInput(in)
	if in.FullName == "" || in.Phone == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "full name and phone are required")
	}

	existing, err := s.store.Get(ctx, accountID)
	switch {
	case err == nil:
	case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, sentinel.ErrPermissionDenied):
		existing = &Profile{ID: accountID}
	default:
		return nil, storeError(err, "failed to load profile")
	}

	p := &Profile{
		ID:           accountID,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Gender:       in.Gender,
		BirthDate:    in.BirthDate,
		BankName:     in.BankName,
		IBAN:         NormalizeIBAN(in.IBAN),
		FullNameBank: in.FullNameBank,
		IsResearcher: existing.IsResearcher,
		UpdatedAt:    requestcontext.Now(ctx).UTC(),
	}

	if err := s.store.Upsert(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrPermissionDenied) {
			s.logger.WarnContext(ctx, "profile save pending permission",
				"request_id", requestcontext.RequestID(ctx),
				"account_id", accountID.String(),
				"error", err,
			)
			s.record(ctx, audit.EventProfilePending, accountID)
			return &SaveResult{Profile: p, Pending: true, Notice: locale.NoticeProfilePending}, nil
		}
		return nil, storeError(err, "failed to save profile")
	}

	s.record(ctx, audit.EventProfileSaved, accountID)
	return &SaveResult{Profile: p, Notice: locale.NoticeProfileSaved}, nil
}

func (s *Service) record(ctx context.Context, event audit.AuditEvent, accountID id.AccountID) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, audit.NewEvent(ctx, event, accountID, "", ""))
}

func trimInput(in Input) Input {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Gender = strings.TrimSpace(in.Gender)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.BankName = strings.TrimSpace(in.BankName)
	in.FullNameBank = strings.TrimSpace(in.FullNameBank)
	return in
}

func storeError(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrPermissionDenied):
		return dErrors.Wrap(err, dErrors.CodePermissionDenied, msg)
	case errors.Is(err, sentinel.ErrExpired):
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "session expired")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
