package handler

import (
	"strings"

	dErrors "poltem/pkg/domain-errors"
)

const (
	maxNameLength       = 128
	maxIdentifierLength = 254
	maxPasswordLength   = 128
	maxPhoneLength      = 24
	maxCodeLength       = 16
)

// Request bodies are trimmed and size-checked here; the account service
// owns the domain rules (required fields, password policy, agreements).

type RegisterRequest struct {
	FullName      string `json:"full_name"`
	Identifier    string `json:"identifier"`
	Password      string `json:"password"`
	KVKKAccepted  bool   `json:"kvkk_accepted"`
	TermsAccepted bool   `json:"terms_accepted"`
}

func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.FullName = strings.TrimSpace(r.FullName)
	r.Identifier = strings.TrimSpace(r.Identifier)
	if len(r.FullName) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "full_name is too long")
	}
	if len(r.Identifier) > maxIdentifierLength {
		return dErrors.New(dErrors.CodeValidation, "identifier is too long")
	}
	if len(r.Password) > maxPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password is too long")
	}
	return nil
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Identifier = strings.TrimSpace(r.Identifier)
	if len(r.Identifier) > maxIdentifierLength || len(r.Password) > maxPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "credentials are too long")
	}
	return nil
}

type PhoneOTPRequest struct {
	Phone string `json:"phone"`
}

func (r *PhoneOTPRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Phone) > maxPhoneLength {
		return dErrors.New(dErrors.CodeValidation, "phone is too long")
	}
	return nil
}

type PhoneVerifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

func (r *PhoneVerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Phone) > maxPhoneLength || len(r.Code) > maxCodeLength {
		return dErrors.New(dErrors.CodeValidation, "phone or code is too long")
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Email = strings.TrimSpace(r.Email)
	if len(r.Email) > maxIdentifierLength {
		return dErrors.New(dErrors.CodeValidation, "email is too long")
	}
	return nil
}

type RecoveryVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (r *RecoveryVerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Email = strings.TrimSpace(r.Email)
	if len(r.Email) > maxIdentifierLength || len(r.Code) > maxCodeLength {
		return dErrors.New(dErrors.CodeValidation, "email or code is too long")
	}
	return nil
}

type ResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ResetPasswordRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Password) > maxPasswordLength || len(r.ConfirmPassword) > maxPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password is too long")
	}
	return nil
}
