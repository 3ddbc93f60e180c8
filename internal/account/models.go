package account

import "poltem/internal/identity"

// Next names the screen the client should show after a flow step.
type Next string

const (
	NextHome          Next = "home"
	NextLogin         Next = "login"
	NextVerify        Next = "verify"
	NextVerifyOTP     Next = "verify_otp"
	NextResetPassword Next = "reset_password"
)

// Flow labels used for metrics, audit reasons and in-flight deduplication.
const (
	FlowRegister       = "register"
	FlowLogin          = "login"
	FlowPhoneOTP       = "phone_otp"
	FlowPhoneVerify    = "phone_verify"
	FlowPasswordForgot = "password_forgot"
	FlowPasswordVerify = "password_verify"
	FlowPasswordReset  = "password_reset"
	FlowLogout         = "logout"
)

// Result is the outcome of a successful flow step. Notice is a locale
// catalog key; Session is set when the step signed the user in.
type Result struct {
	Next    Next
	Notice  string
	Session *identity.Session
	Phone   string
	Email   string
}

type RegisterInput struct {
	FullName      string
	Identifier    string
	Password      string
	KVKKAccepted  bool
	TermsAccepted bool
}

type LoginInput struct {
	Identifier string
	Password   string
}

type ResetPasswordInput struct {
	Password string
	Confirm  string
}
