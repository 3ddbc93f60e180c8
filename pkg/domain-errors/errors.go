// Package domainerrors defines the coded error taxonomy shared by services,
// stores, and transports. Services return these; httputil renders them.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure. Codes are part of the public API: they
// appear verbatim in the "error" field of HTTP error bodies.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvalidState       Code = "invalid_state"
	CodeInvariantViolation Code = "invariant_violation"
	CodeRateLimited        Code = "rate_limited"
	CodeTimeout            Code = "timeout"
	CodeUnavailable        Code = "unavailable"
	CodeInternal           Code = "internal_error"

	// Account flow codes (collaborator failures translated into a closed set).
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeEmailNotConfirmed  Code = "email_not_confirmed"
	CodeUserNotFound       Code = "user_not_found"
	CodeAlreadyRegistered  Code = "already_registered"
	CodePermissionDenied   Code = "permission_denied"
	CodeInvalidOTP         Code = "invalid_otp"
	CodeWeakPassword       Code = "weak_password"
	CodePasswordMismatch   Code = "password_mismatch"
	CodeConsentRequired    Code = "consent_required"
	CodeUpstream           Code = "upstream_error"

	// Participation flow codes.
	CodeCodeMismatch      Code = "code_mismatch"
	CodeSurveyUnavailable Code = "survey_unavailable"
	CodeSurveyLinkMissing Code = "survey_link_missing"
)

// Error is a coded domain error. Message is safe to show to clients; Err keeps
// the underlying cause for logs and errors.Is/As.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports equality on code and message so tests can use errors.Is with a
// freshly constructed expected error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New builds a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and client-safe message to an underlying error.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any error in the chain carries code.
func HasCode(err error, code Code) bool {
	var de *Error
	for err != nil {
		if errors.As(err, &de) {
			if de.Code == code {
				return true
			}
			err = de.Err
			continue
		}
		return false
	}
	return false
}

// Is is shorthand for HasCode kept for handler readability.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// GetCode returns the outermost code in the chain, or CodeInternal for
// uncoded errors.
func GetCode(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Message returns the outermost client-safe message, or "" for uncoded errors.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
