// Package identity is the port to the Session/Identity collaborator: the
// service that owns credentials, one-time codes, and access tokens.
package identity

import (
	"context"
	"time"

	id "poltem/pkg/domain"
)

// Account is the collaborator's view of a signed-up user.
type Account struct {
	ID             id.AccountID `json:"id"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone,omitempty"`
	FullName       string       `json:"full_name,omitempty"`
	EmailConfirmed bool         `json:"email_confirmed"`
	CreatedAt      time.Time    `json:"created_at"`
}

// Session is the result of a successful sign-in. AccessToken may be empty
// after SignUp when the backend requires e-mail confirmation first.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Account      Account
}

// HasToken reports whether the session can authenticate requests.
func (s *Session) HasToken() bool {
	return s != nil && s.AccessToken != ""
}

// OTPPurpose selects which verification flow a one-time code belongs to.
type OTPPurpose string

const (
	OTPSignIn   OTPPurpose = "sign_in"
	OTPRecovery OTPPurpose = "recovery"
	OTPEmail    OTPPurpose = "email"
)

func (p OTPPurpose) IsValid() bool {
	switch p {
	case OTPSignIn, OTPRecovery, OTPEmail:
		return true
	}
	return false
}

// SignUpInput carries registration data. FullName is stored as account
// metadata by the collaborator.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
}

// VerifyOTPInput identifies the code owner by phone (sign_in) or e-mail
// (recovery, email).
type VerifyOTPInput struct {
	Phone   string
	Email   string
	Code    string
	Purpose OTPPurpose
}

//go:generate mockgen -source=identity.go -destination=mocks/provider-mocks.go -package=mocks Provider

// Provider is implemented by the gotrue HTTP adapter and the local
// development provider. Failures are *Failure values.
type Provider interface {
	SignUp(ctx context.Context, in SignUpInput) (*Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignInWithOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, in VerifyOTPInput) (*Session, error)
	RequestPasswordReset(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
	CurrentAccount(ctx context.Context, accessToken string) (*Account, error)
	SignOut(ctx context.Context, accessToken string) error
}
