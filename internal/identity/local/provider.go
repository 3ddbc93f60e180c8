// Package local is a self-contained identity.Provider for development and
// tests. It answers with the same failure codes and messages as the hosted
// auth service so the account flows classify both identically.
package local

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"poltem/internal/identity"
	jwttoken "poltem/internal/jwt_token"
	id "poltem/pkg/domain"
	"poltem/pkg/platform/sentinel"
)

const (
	minPasswordLength = 6
	defaultOTPTTL     = 10 * time.Minute
	defaultCooldown   = 60 * time.Second
	defaultTokenTTL   = time.Hour
)

var errCooldown = errors.New("otp cooldown")

// TokenRevoker invalidates an access token id until its expiry.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

type Provider struct {
	accounts AccountStore
	tokens   *jwttoken.JWTService
	sender   OTPSender
	revoker  TokenRevoker
	codes    *codeBook
	tokenTTL time.Duration
	hashCost int
	now      func() time.Time
}

type Option func(*Provider)

func WithOTPTTL(ttl time.Duration) Option {
	return func(p *Provider) {
		if ttl > 0 {
			p.codes.ttl = ttl
		}
	}
}

// WithResendCooldown sets the minimum gap between two codes for the same
// destination. Zero disables the limit.
func WithResendCooldown(d time.Duration) Option {
	return func(p *Provider) {
		if d >= 0 {
			p.codes.cooldown = d
		}
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(p *Provider) {
		if ttl > 0 {
			p.tokenTTL = ttl
		}
	}
}

func WithHashCost(cost int) Option {
	return func(p *Provider) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			p.hashCost = cost
		}
	}
}

func WithRevoker(r TokenRevoker) Option {
	return func(p *Provider) {
		p.revoker = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

func New(accounts AccountStore, tokens *jwttoken.JWTService, sender OTPSender, opts ...Option) *Provider {
	p := &Provider{
		accounts: accounts,
		tokens:   tokens,
		sender:   sender,
		codes:    newCodeBook(defaultOTPTTL, defaultCooldown),
		tokenTTL: defaultTokenTTL,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ identity.Provider = (*Provider)(nil)

func failInvalidCredentials() error {
	return identity.NewFailure(http.StatusBadRequest, "invalid_credentials", "Invalid login credentials")
}

func failUserNotFound() error {
	return identity.NewFailure(http.StatusNotFound, "user_not_found", "User not found")
}

func failOTP() error {
	return identity.NewFailure(http.StatusForbidden, "otp_expired", "Token has expired or is invalid")
}

func failBadJWT() error {
	return identity.NewFailure(http.StatusUnauthorized, "bad_jwt", "invalid JWT")
}

func (p *Provider) SignUp(ctx context.Context, in identity.SignUpInput) (*identity.Session, error) {
	if len(in.Password) < minPasswordLength {
		return nil, identity.NewFailure(http.StatusUnprocessableEntity, "weak_password", "Password should be at least 6 characters.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.hashCost)
	if err != nil {
		return nil, identity.TransportFailure(err)
	}
	now := p.now().UTC()
	rec := &AccountRecord{
		ID:           id.NewAccountID(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		FullName:     in.FullName,
		PasswordHash: hash,
		Confirmed:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.accounts.Create(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, identity.NewFailure(http.StatusUnprocessableEntity, "user_already_exists", "User already registered")
		}
		return nil, identity.TransportFailure(err)
	}
	return p.issueSession(rec)
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error) {
	rec, err := p.accounts.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, failInvalidCredentials()
		}
		return nil, identity.TransportFailure(err)
	}
	if len(rec.PasswordHash) == 0 || bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(password)) != nil {
		return nil, failInvalidCredentials()
	}
	if !rec.Confirmed {
		return nil, identity.NewFailure(http.StatusBadRequest, "email_not_confirmed", "Email not confirmed")
	}
	return p.issueSession(rec)
}

// SignInWithOTP sends a code to phone, creating a phone-only account on
// first use.
func (p *Provider) SignInWithOTP(ctx context.Context, phone string) error {
	if _, err := p.accounts.FindByPhone(ctx, phone); err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return identity.TransportFailure(err)
		}
		now := p.now().UTC()
		rec := &AccountRecord{ID: id.NewAccountID(), Phone: phone, Confirmed: true, CreatedAt: now, UpdatedAt: now}
		if err := p.accounts.Create(ctx, rec); err != nil && !errors.Is(err, sentinel.ErrConflict) {
			return identity.TransportFailure(err)
		}
	}
	return p.sendCode(ctx, identity.OTPSignIn, phone, "over_sms_send_rate_limit")
}

func (p *Provider) VerifyOTP(ctx context.Context, in identity.VerifyOTPInput) (*identity.Session, error) {
	var (
		destination string
		lookup      func(context.Context, string) (*AccountRecord, error)
	)
	switch in.Purpose {
	case identity.OTPSignIn:
		destination, lookup = in.Phone, p.accounts.FindByPhone
	case identity.OTPRecovery, identity.OTPEmail:
		destination, lookup = strings.ToLower(strings.TrimSpace(in.Email)), p.accounts.FindByEmail
	default:
		return nil, failOTP()
	}
	if !p.codes.consume(in.Purpose, destination, in.Code, p.now()) {
		return nil, failOTP()
	}
	rec, err := lookup(ctx, destination)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, failUserNotFound()
		}
		return nil, identity.TransportFailure(err)
	}
	return p.issueSession(rec)
}

func (p *Provider) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := p.accounts.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return failUserNotFound()
		}
		return identity.TransportFailure(err)
	}
	return p.sendCode(ctx, identity.OTPRecovery, email, "over_email_send_rate_limit")
}

func (p *Provider) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	_, accountID, err := p.authenticate(accessToken)
	if err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return identity.NewFailure(http.StatusUnprocessableEntity, "weak_password", "Password should be at least 6 characters.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), p.hashCost)
	if err != nil {
		return identity.TransportFailure(err)
	}
	if err := p.accounts.UpdatePassword(ctx, accountID, hash, p.now().UTC()); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return failUserNotFound()
		}
		return identity.TransportFailure(err)
	}
	return nil
}

func (p *Provider) CurrentAccount(ctx context.Context, accessToken string) (*identity.Account, error) {
	_, accountID, err := p.authenticate(accessToken)
	if err != nil {
		return nil, err
	}
	rec, err := p.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, failUserNotFound()
		}
		return nil, identity.TransportFailure(err)
	}
	account := toAccount(rec)
	return &account, nil
}

// SignOut revokes the token id for the remainder of its lifetime.
func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	claims, _, err := p.authenticate(accessToken)
	if err != nil {
		return err
	}
	if p.revoker == nil {
		return nil
	}
	ttl := claims.ExpiresAtTime().Sub(p.now())
	if ttl <= 0 {
		return nil
	}
	if err := p.revoker.RevokeToken(ctx, claims.TokenID(), ttl); err != nil {
		return identity.TransportFailure(err)
	}
	return nil
}

func (p *Provider) authenticate(accessToken string) (*jwttoken.Claims, id.AccountID, error) {
	claims, err := p.tokens.ValidateToken(accessToken)
	if err != nil {
		return nil, id.AccountID{}, failBadJWT()
	}
	accountID, err := claims.AccountID()
	if err != nil {
		return nil, id.AccountID{}, failBadJWT()
	}
	return claims, accountID, nil
}

func (p *Provider) sendCode(ctx context.Context, purpose identity.OTPPurpose, destination, limitCode string) error {
	code, err := p.codes.issue(purpose, destination, p.now())
	if err != nil {
		if errors.Is(err, errCooldown) {
			return identity.NewFailure(http.StatusTooManyRequests, limitCode,
				fmt.Sprintf("For security purposes, you can only request this after %d seconds.", int(p.codes.cooldown.Seconds())))
		}
		return identity.TransportFailure(err)
	}
	if err := p.sender.Send(ctx, purpose, destination, code); err != nil {
		return identity.TransportFailure(err)
	}
	return nil
}

func (p *Provider) issueSession(rec *AccountRecord) (*identity.Session, error) {
	token, claims, err := p.tokens.GenerateAccessToken(rec.ID, rec.Email, p.now(), p.tokenTTL)
	if err != nil {
		return nil, identity.TransportFailure(err)
	}
	return &identity.Session{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAtTime(),
		Account:     toAccount(rec),
	}, nil
}

func toAccount(rec *AccountRecord) identity.Account {
	return identity.Account{
		ID:             rec.ID,
		Email:          rec.Email,
		Phone:          rec.Phone,
		FullName:       rec.FullName,
		EmailConfirmed: rec.Confirmed,
		CreatedAt:      rec.CreatedAt,
	}
}
