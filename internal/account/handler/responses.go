package handler

import (
	"time"

	"poltem/internal/account"
	"poltem/internal/identity"
	"poltem/pkg/email"
)

// FlowResponse tells the client where to go next.
type FlowResponse struct {
	Next    string           `json:"next"`
	Notice  string           `json:"notice,omitempty"`
	Session *SessionResponse `json:"session,omitempty"`
	Phone   string           `json:"phone,omitempty"`
	Email   string           `json:"email,omitempty"`
}

type SessionResponse struct {
	AccessToken  string          `json:"access_token,omitempty"`
	RefreshToken string          `json:"refresh_token,omitempty"`
	TokenType    string          `json:"token_type,omitempty"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
	Account      AccountResponse `json:"account"`
}

type AccountResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	FullName       string `json:"full_name,omitempty"`
	DisplayName    string `json:"display_name"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

func FromAccount(a *identity.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID.String(),
		Email:          a.Email,
		Phone:          a.Phone,
		FullName:       a.FullName,
		DisplayName:    email.DisplayName(a.FullName, a.Email),
		EmailConfirmed: a.EmailConfirmed,
	}
}

// FromResult converts a flow result; notice is already localized.
func FromResult(res *account.Result, notice string) *FlowResponse {
	out := &FlowResponse{
		Next:   string(res.Next),
		Notice: notice,
		Phone:  res.Phone,
		Email:  res.Email,
	}
	if res.Session != nil {
		s := &SessionResponse{
			AccessToken:  res.Session.AccessToken,
			RefreshToken: res.Session.RefreshToken,
			Account:      FromAccount(&res.Session.Account),
		}
		if res.Session.HasToken() {
			s.TokenType = "bearer"
		}
		if !res.Session.ExpiresAt.IsZero() {
			exp := res.Session.ExpiresAt
			s.ExpiresAt = &exp
		}
		out.Session = s
	}
	return out
}
