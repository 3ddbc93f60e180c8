package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	dErrors "poltem/pkg/domain-errors"
)

// FailureKind is the closed set of collaborator failure categories.
type FailureKind string

const (
	FailureInvalidCredentials FailureKind = "invalid_credentials"
	FailureEmailNotConfirmed  FailureKind = "email_not_confirmed"
	FailureRateLimited        FailureKind = "rate_limited"
	FailureUserNotFound       FailureKind = "user_not_found"
	FailurePermissionDenied   FailureKind = "permission_denied"
	FailureInvalidOTP         FailureKind = "invalid_otp"
	FailureWeakPassword       FailureKind = "weak_password"
	FailureAlreadyRegistered  FailureKind = "already_registered"
	FailureUnavailable        FailureKind = "unavailable"
	FailureUnknown            FailureKind = "unknown"
)

// Failure is a classified collaborator error. Message is the collaborator's
// raw text, surfaced to the user only for FailureUnknown.
type Failure struct {
	Kind    FailureKind
	Status  int
	Code    string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("identity %s (status %d): %s: %v", f.Kind, f.Status, f.Message, f.Err)
	}
	return fmt.Sprintf("identity %s (status %d): %s", f.Kind, f.Status, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// codeKinds maps the collaborator's structured error_code values.
var codeKinds = map[string]FailureKind{
	"invalid_credentials":        FailureInvalidCredentials,
	"invalid_grant":              FailureInvalidCredentials,
	"email_not_confirmed":        FailureEmailNotConfirmed,
	"phone_not_confirmed":        FailureEmailNotConfirmed,
	"over_request_rate_limit":    FailureRateLimited,
	"over_email_send_rate_limit": FailureRateLimited,
	"over_sms_send_rate_limit":   FailureRateLimited,
	"user_not_found":             FailureUserNotFound,
	"otp_expired":                FailureInvalidOTP,
	"otp_disabled":               FailureInvalidOTP,
	"bad_jwt":                    FailurePermissionDenied,
	"not_admin":                  FailurePermissionDenied,
	"weak_password":              FailureWeakPassword,
	"same_password":              FailureWeakPassword,
	"user_already_exists":        FailureAlreadyRegistered,
	"email_exists":               FailureAlreadyRegistered,
	"phone_exists":               FailureAlreadyRegistered,
}

// messageKinds is consulted in order when no structured code matched.
var messageKinds = []struct {
	substr string
	kind   FailureKind
}{
	{"invalid login credentials", FailureInvalidCredentials},
	{"email not confirmed", FailureEmailNotConfirmed},
	{"user not found", FailureUserNotFound},
	{"rate limit", FailureRateLimited},
	{"limit exceeded", FailureRateLimited},
	{"token has expired or is invalid", FailureInvalidOTP},
	{"otp has expired", FailureInvalidOTP},
	{"user already registered", FailureAlreadyRegistered},
	{"password should be", FailureWeakPassword},
	{"permission denied", FailurePermissionDenied},
}

// NewFailure classifies a collaborator response: structured code first, then
// the substring table, then the HTTP status, then FailureUnknown.
func NewFailure(status int, code, message string) *Failure {
	return &Failure{
		Kind:    classify(status, code, message),
		Status:  status,
		Code:    code,
		Message: message,
	}
}

// TransportFailure wraps a network-level error.
func TransportFailure(err error) *Failure {
	return &Failure{Kind: FailureUnavailable, Message: "identity service unreachable", Err: err}
}

func classify(status int, code, message string) FailureKind {
	if kind, ok := codeKinds[code]; ok {
		return kind
	}
	lower := strings.ToLower(message)
	for _, m := range messageKinds {
		if strings.Contains(lower, m.substr) {
			return m.kind
		}
	}
	switch {
	case status == http.StatusTooManyRequests:
		return FailureRateLimited
	case status == http.StatusForbidden:
		return FailurePermissionDenied
	case status >= http.StatusInternalServerError:
		return FailureUnavailable
	}
	return FailureUnknown
}

// Classify extracts the failure from an error chain. Non-Failure errors are
// FailureUnavailable for context deadlines and FailureUnknown otherwise.
func Classify(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Failure{Kind: FailureUnavailable, Message: "identity request timed out", Err: err}
	}
	return &Failure{Kind: FailureUnknown, Message: err.Error(), Err: err}
}

var kindCodes = map[FailureKind]dErrors.Code{
	FailureInvalidCredentials: dErrors.CodeInvalidCredentials,
	FailureEmailNotConfirmed:  dErrors.CodeEmailNotConfirmed,
	FailureRateLimited:        dErrors.CodeRateLimited,
	FailureUserNotFound:       dErrors.CodeUserNotFound,
	FailurePermissionDenied:   dErrors.CodePermissionDenied,
	FailureInvalidOTP:         dErrors.CodeInvalidOTP,
	FailureWeakPassword:       dErrors.CodeWeakPassword,
	FailureAlreadyRegistered:  dErrors.CodeAlreadyRegistered,
	FailureUnavailable:        dErrors.CodeUnavailable,
}

// ToDomainError translates a collaborator error into the coded taxonomy.
// Unknown failures become CodeUpstream carrying the raw message.
func ToDomainError(err error) error {
	if err == nil {
		return nil
	}
	f := Classify(err)
	if code, ok := kindCodes[f.Kind]; ok {
		return dErrors.Wrap(err, code, string(f.Kind))
	}
	msg := f.Message
	if msg == "" {
		msg = "identity service error"
	}
	return dErrors.Wrap(err, dErrors.CodeUpstream, msg)
}
