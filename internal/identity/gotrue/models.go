package gotrue

import (
	"strings"
	"time"

	"poltem/internal/identity"
	id "poltem/pkg/domain"
)

type userMetadata struct {
	FullName string `json:"full_name,omitempty"`
}

type userResponse struct {
	ID               string       `json:"id"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	EmailConfirmedAt *time.Time   `json:"email_confirmed_at"`
	CreatedAt        time.Time    `json:"created_at"`
	UserMetadata     userMetadata `json:"user_metadata"`
}

// sessionResponse is returned by the token, verify and (when confirmation
// is disabled) signup endpoints. Signup with confirmation enabled returns a
// bare user object instead; the embedded ID catches that shape.
type sessionResponse struct {
	AccessToken  string        `json:"access_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int           `json:"expires_in"`
	ExpiresAt    int64         `json:"expires_at"`
	RefreshToken string        `json:"refresh_token"`
	User         *userResponse `json:"user"`
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	CreatedAt    time.Time     `json:"created_at"`
}

// errorResponse covers the three error shapes the auth API has used.
type errorResponse struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e errorResponse) code() string {
	if e.ErrorCode != "" {
		return e.ErrorCode
	}
	if s, ok := e.Code.(string); ok {
		return s
	}
	return e.Error
}

func (e errorResponse) message() string {
	for _, m := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if strings.TrimSpace(m) != "" {
			return m
		}
	}
	return ""
}

func (u *userResponse) toAccount() (identity.Account, error) {
	accountID, err := id.ParseAccountID(u.ID)
	if err != nil {
		return identity.Account{}, err
	}
	return identity.Account{
		ID:             accountID,
		Email:          u.Email,
		Phone:          u.Phone,
		FullName:       u.UserMetadata.FullName,
		EmailConfirmed: u.EmailConfirmedAt != nil,
		CreatedAt:      u.CreatedAt,
	}, nil
}

func (s *sessionResponse) toSession(now time.Time) (*identity.Session, error) {
	user := s.User
	if user == nil {
		user = &userResponse{ID: s.ID, Email: s.Email, CreatedAt: s.CreatedAt}
	}
	account, err := user.toAccount()
	if err != nil {
		return nil, err
	}
	session := &identity.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		Account:      account,
	}
	switch {
	case s.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(s.ExpiresAt, 0).UTC()
	case s.ExpiresIn > 0:
		session.ExpiresAt = now.Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return session, nil
}
