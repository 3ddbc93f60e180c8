// Package account implements the sign-up, sign-in, one-time code and
// password flows on top of the identity collaborator.
package account

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"golang.org/x/sync/singleflight"

	"poltem/internal/account/metrics"
	"poltem/internal/account/ports"
	"poltem/internal/identity"
	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
	"poltem/pkg/platform/audit"
	"poltem/pkg/platform/locale"
	"poltem/pkg/requestcontext"
)

type Service struct {
	provider         identity.Provider
	sessions         ports.Sessions
	auditor          ports.AuditPublisher
	metrics          *metrics.Metrics
	logger           *slog.Logger
	policy           id.PasswordPolicy
	identifierDomain string
	callTimeout      time.Duration
	inflight         singleflight.Group
}

const defaultCallTimeout = 10 * time.Second

type Option func(*Service)

func WithAuditor(a ports.AuditPublisher) Option {
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

func WithPasswordPolicy(p id.PasswordPolicy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithIdentifierDomain sets the suffix appended to bare usernames.
func WithIdentifierDomain(domain string) Option {
	return func(s *Service) {
		if domain != "" {
			s.identifierDomain = domain
		}
	}
}

// WithCallTimeout bounds a collaborator call shared by duplicate submissions.
// The shared call outlives any single caller, so it carries its own deadline.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.callTimeout = d
		}
	}
}

func NewService(provider identity.Provider, sessions ports.Sessions, opts ...Option) *Service {
	s := &Service{
		provider:         provider,
		sessions:         sessions,
		logger:           slog.Default(),
		policy:           id.DefaultPasswordPolicy(),
		identifierDomain: id.DefaultIdentifierDomain,
		callTimeout:      defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account. Every field is required and both the KVKK
// notice and the user terms must be accepted.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	fullName := strings.TrimSpace(in.FullName)
	identifier := strings.TrimSpace(in.Identifier)
	if fullName == "" || identifier == "" || in.Password == "" {
		return nil, s.reject(FlowRegister, dErrors.New(dErrors.CodeValidation, "full name, identifier and password are required"))
	}
	if !in.KVKKAccepted || !in.TermsAccepted {
		return nil, s.reject(FlowRegister, dErrors.New(dErrors.CodeConsentRequired, "kvkk notice and user terms must be accepted"))
	}
	if err := s.policy.Check(in.Password); err != nil {
		return nil, s.reject(FlowRegister, err)
	}
	email := id.NormalizeIdentifier(identifier, s.identifierDomain)
	if !govalidator.IsEmail(email) {
		return nil, s.reject(FlowRegister, dErrors.New(dErrors.CodeValidation, "identifier is not a valid e-mail address"))
	}

	v, err := s.once(ctx, FlowRegister, email, in.Password, func(ctx context.Context) (any, error) {
		return s.provider.SignUp(ctx, identity.SignUpInput{Email: email, Password: in.Password, FullName: fullName})
	})
	if err != nil {
		return nil, s.fail(ctx, FlowRegister, audit.EventRegistrationFailed, id.AccountID{}, email, err)
	}
	session := v.(*identity.Session)

	agreements := make([]string, 0, len(id.RegistrationAgreements))
	for _, a := range id.RegistrationAgreements {
		agreements = append(agreements, a.String())
	}
	s.record(ctx, audit.EventRegistered, session.Account.ID, email, strings.Join(agreements, ","))
	s.metrics.IncAttempt(FlowRegister, "success")

	// Without a token the collaborator wants the e-mail confirmed first.
	next := NextHome
	if !session.HasToken() {
		next = NextLogin
	}
	return &Result{Next: next, Notice: locale.NoticeRegistered, Session: session, Email: email}, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Result, error) {
	identifier := strings.TrimSpace(in.Identifier)
	if identifier == "" || in.Password == "" {
		return nil, s.reject(FlowLogin, dErrors.New(dErrors.CodeValidation, "identifier and password are required"))
	}
	email := id.NormalizeIdentifier(identifier, s.identifierDomain)

	v, err := s.once(ctx, FlowLogin, email, in.Password, func(ctx context.Context) (any, error) {
		return s.provider.SignInWithPassword(ctx, email, in.Password)
	})
	if err != nil {
		return nil, s.fail(ctx, FlowLogin, audit.EventSignInFailed, id.AccountID{}, email, err)
	}
	session := v.(*identity.Session)
	s.record(ctx, audit.EventSignedIn, session.Account.ID, email, FlowLogin)
	s.metrics.IncAttempt(FlowLogin, "success")
	return &Result{Next: NextHome, Session: session, Email: email}, nil
}

// RequestPhoneOTP sends a sign-in code to phone.
func (s *Service) RequestPhoneOTP(ctx context.Context, rawPhone string) (*Result, error) {
	phone, err := id.NormalizePhone(rawPhone)
	if err != nil {
		return nil, s.reject(FlowPhoneOTP, err)
	}
	_, err = s.once(ctx, FlowPhoneOTP, phone, "", func(ctx context.Context) (any, error) {
		return nil, s.provider.SignInWithOTP(ctx, phone)
	})
	if err != nil {
		return nil, s.fail(ctx, FlowPhoneOTP, audit.EventOTPFailed, id.AccountID{}, phone, err)
	}
	s.record(ctx, audit.EventOTPRequested, id.AccountID{}, phone, FlowPhoneOTP)
	s.metrics.IncAttempt(FlowPhoneOTP, "success")
	return &Result{Next: NextVerify, Notice: locale.NoticeOTPSent, Phone: phone}, nil
}

func (s *Service) VerifyPhoneOTP(ctx context.Context, rawPhone, rawCode string) (*Result, error) {
	phone, err := id.NormalizePhone(rawPhone)
	if err != nil {
		return nil, s.reject(FlowPhoneVerify, err)
	}
	code, err := id.CheckOTPCode(rawCode)
	if err != nil {
		return nil, s.reject(FlowPhoneVerify, err)
	}
	v, err := s.once(ctx, FlowPhoneVerify, phone, code, func(ctx context.Context) (any, error) {
		return s.provider.VerifyOTP(ctx, identity.VerifyOTPInput{Phone: phone, Code: code, Purpose: identity.OTPSignIn})
	})
	if err != nil {
		return nil, s.fail(ctx, FlowPhoneVerify, audit.EventOTPFailed, id.AccountID{}, phone, err)
	}
	session := v.(*identity.Session)
	s.record(ctx, audit.EventOTPVerified, session.Account.ID, phone, FlowPhoneVerify)
	s.metrics.IncAttempt(FlowPhoneVerify, "success")
	return &Result{Next: NextHome, Notice: locale.NoticeSignInConfirmed, Session: session, Phone: phone}, nil
}

// RequestPasswordReset sends a recovery code to email.
func (s *Service) RequestPasswordReset(ctx context.Context, rawEmail string) (*Result, error) {
	identifier := strings.TrimSpace(rawEmail)
	if identifier == "" {
		return nil, s.reject(FlowPasswordForgot, dErrors.New(dErrors.CodeValidation, "email is required"))
	}
	email := id.NormalizeIdentifier(identifier, s.identifierDomain)

	_, err := s.once(ctx, FlowPasswordForgot, email, "", func(ctx context.Context) (any, error) {
		return nil, s.provider.RequestPasswordReset(ctx, email)
	})
	if err != nil {
		// The recovery endpoint answers 422 for addresses it does not know.
		if f := identity.Classify(err); f.Kind == identity.FailureUnknown && f.Status == http.StatusUnprocessableEntity {
			err = identity.NewFailure(f.Status, "user_not_found", f.Message)
		}
		return nil, s.fail(ctx, FlowPasswordForgot, audit.EventOTPFailed, id.AccountID{}, email, err)
	}
	s.record(ctx, audit.EventPasswordResetRequested, id.AccountID{}, email, FlowPasswordForgot)
	s.metrics.IncAttempt(FlowPasswordForgot, "success")
	return &Result{Next: NextVerifyOTP, Notice: locale.NoticeRecoveryCodeSent, Email: email}, nil
}

// VerifyRecoveryOTP exchanges a recovery code for a session that may set a
// new password.
func (s *Service) VerifyRecoveryOTP(ctx context.Context, rawEmail, rawCode string) (*Result, error) {
	identifier := strings.TrimSpace(rawEmail)
	if identifier == "" {
		return nil, s.reject(FlowPasswordVerify, dErrors.New(dErrors.CodeValidation, "email is required"))
	}
	code, err := id.CheckOTPCode(rawCode)
	if err != nil {
		return nil, s.reject(FlowPasswordVerify, err)
	}
	email := id.NormalizeIdentifier(identifier, s.identifierDomain)

	v, err := s.once(ctx, FlowPasswordVerify, email, code, func(ctx context.Context) (any, error) {
		return s.provider.VerifyOTP(ctx, identity.VerifyOTPInput{Email: email, Code: code, Purpose: identity.OTPRecovery})
	})
	if err != nil {
		return nil, s.fail(ctx, FlowPasswordVerify, audit.EventOTPFailed, id.AccountID{}, email, err)
	}
	session := v.(*identity.Session)
	s.record(ctx, audit.EventOTPVerified, session.Account.ID, email, FlowPasswordVerify)
	s.metrics.IncAttempt(FlowPasswordVerify, "success")
	return &Result{Next: NextResetPassword, Session: session, Email: email}, nil
}

// ResetPassword sets a new password for the signed-in principal and ends
// the session; the user signs in again with the new password.
func (s *Service) ResetPassword(ctx context.Context, p requestcontext.Principal, in ResetPasswordInput) (*Result, error) {
	if !p.Authenticated() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if in.Password == "" || in.Confirm == "" {
		return nil, s.reject(FlowPasswordReset, dErrors.New(dErrors.CodeValidation, "password and confirmation are required"))
	}
	if in.Password != in.Confirm {
		return nil, s.reject(FlowPasswordReset, dErrors.New(dErrors.CodePasswordMismatch, "passwords do not match"))
	}
	if err := s.policy.Check(in.Password); err != nil {
		return nil, s.reject(FlowPasswordReset, err)
	}

	_, err := s.once(ctx, FlowPasswordReset, p.AccountID.String(), in.Password, func(ctx context.Context) (any, error) {
		return nil, s.provider.UpdatePassword(ctx, p.AccessToken, in.Password)
	})
	if err != nil {
		return nil, s.fail(ctx, FlowPasswordReset, audit.EventPasswordUpdateFailed, p.AccountID, p.Email, err)
	}
	if err := s.sessions.Invalidate(ctx, p); err != nil {
		s.logger.WarnContext(ctx, "session invalidation after password reset failed",
			"request_id", requestcontext.RequestID(ctx),
			"account_id", p.AccountID.String(),
			"error", err,
		)
	}
	s.record(ctx, audit.EventPasswordUpdated, p.AccountID, p.Email, FlowPasswordReset)
	s.metrics.IncAttempt(FlowPasswordReset, "success")
	return &Result{Next: NextLogin, Notice: locale.NoticePasswordUpdated}, nil
}

// Me returns the signed-in account.
func (s *Service) Me(ctx context.Context, p requestcontext.Principal) (*identity.Account, error) {
	if !p.Authenticated() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return s.sessions.Account(ctx, p)
}

// Logout signs out at the collaborator and invalidates the local session.
// Collaborator failures are logged; invalidation always happens.
func (s *Service) Logout(ctx context.Context, p requestcontext.Principal) (*Result, error) {
	if !p.Authenticated() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if err := s.provider.SignOut(ctx, p.AccessToken); err != nil {
		s.logger.WarnContext(ctx, "identity sign-out failed",
			"request_id", requestcontext.RequestID(ctx),
			"account_id", p.AccountID.String(),
			"error", err,
		)
	}
	if err := s.sessions.Invalidate(ctx, p); err != nil {
		s.metrics.IncAttempt(FlowLogout, string(dErrors.CodeUnavailable))
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not end session")
	}
	s.record(ctx, audit.EventSignedOut, p.AccountID, p.Email, FlowLogout)
	s.metrics.IncAttempt(FlowLogout, "success")
	return &Result{Next: NextLogin}, nil
}

// once runs fn at most once for concurrent identical submissions. The key
// covers the secret so different passwords never share an answer. The shared
// call runs detached from any caller's cancellation; a caller that goes away
// stops waiting without failing the others.
func (s *Service) once(ctx context.Context, flow, subject, secret string, fn func(ctx context.Context) (any, error)) (any, error) {
	sum := sha256.Sum256([]byte(secret))
	key := flow + "|" + subject + "|" + hex.EncodeToString(sum[:8])
	ch := s.inflight.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.callTimeout)
		defer cancel()
		return fn(callCtx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			s.metrics.IncDeduplicated(flow)
			s.logger.DebugContext(ctx, "duplicate submission shared in-flight call",
				"request_id", requestcontext.RequestID(ctx),
				"flow", flow,
			)
		}
		return res.Val, res.Err
	}
}

// reject counts a local validation failure.
func (s *Service) reject(flow string, err error) error {
	s.metrics.IncAttempt(flow, string(dErrors.GetCode(err)))
	return err
}

// fail translates a collaborator failure, audits and logs it.
func (s *Service) fail(ctx context.Context, flow string, event audit.AuditEvent, accountID id.AccountID, subject string, err error) error {
	translated := identity.ToDomainError(err)
	code := dErrors.GetCode(translated)
	s.metrics.IncAttempt(flow, string(code))
	s.record(ctx, event, accountID, subject, flow+":"+string(code))
	s.logger.WarnContext(ctx, "account flow failed",
		"request_id", requestcontext.RequestID(ctx),
		"flow", flow,
		"code", string(code),
		"error", err,
	)
	return translated
}

func (s *Service) record(ctx context.Context, event audit.AuditEvent, accountID id.AccountID, subject, reason string) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, audit.NewEvent(ctx, event, accountID, subject, reason))
}
