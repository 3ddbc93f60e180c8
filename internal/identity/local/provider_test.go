package local

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"poltem/internal/identity"
	jwttoken "poltem/internal/jwt_token"
)

type sentCode struct {
	purpose     identity.OTPPurpose
	destination string
	code        string
}

type captureSender struct {
	mu   sync.Mutex
	sent []sentCode
}

func (s *captureSender) Send(_ context.Context, purpose identity.OTPPurpose, destination, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentCode{purpose: purpose, destination: destination, code: code})
	return nil
}

func (s *captureSender) last() sentCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[len(s.sent)-1]
}

type revokedToken struct {
	jti string
	ttl time.Duration
}

type captureRevoker struct {
	revoked []revokedToken
}

func (r *captureRevoker) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	r.revoked = append(r.revoked, revokedToken{jti: jti, ttl: ttl})
	return nil
}

type ProviderSuite struct {
	suite.Suite
	now      time.Time
	sender   *captureSender
	revoker  *captureRevoker
	tokens   *jwttoken.JWTService
	provider *Provider
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderSuite))
}

func (s *ProviderSuite) SetupTest() {
	s.now = time.Now().UTC()
	s.sender = &captureSender{}
	s.revoker = &captureRevoker{}
	s.tokens = jwttoken.NewJWTService("local-provider-test-key", "poltem", jwttoken.DefaultAudience)
	s.provider = New(NewInMemoryAccountStore(), s.tokens, s.sender,
		WithHashCost(bcrypt.MinCost),
		WithRevoker(s.revoker),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *ProviderSuite) kind(err error) identity.FailureKind {
	s.Require().Error(err)
	return identity.Classify(err).Kind
}

func (s *ProviderSuite) register() *identity.Session {
	session, err := s.provider.SignUp(context.Background(), identity.SignUpInput{
		Email: "Ayse@PoltemAkademi.com", Password: "Secret1!", FullName: "Ayşe Yılmaz",
	})
	s.Require().NoError(err)
	return session
}

func (s *ProviderSuite) TestSignUpIssuesValidToken() {
	session := s.register()

	s.True(session.HasToken())
	s.Equal("ayse@poltemakademi.com", session.Account.Email)
	s.Equal("Ayşe Yılmaz", session.Account.FullName)

	claims, err := s.tokens.ValidateToken(session.AccessToken)
	s.Require().NoError(err)
	s.Equal(session.Account.ID.String(), claims.Subject)
}

func (s *ProviderSuite) TestSignUpDuplicateEmail() {
	s.register()
	_, err := s.provider.SignUp(context.Background(), identity.SignUpInput{Email: "ayse@poltemakademi.com", Password: "Other1!x"})
	s.Equal(identity.FailureAlreadyRegistered, s.kind(err))
}

func (s *ProviderSuite) TestSignInWithPassword() {
	s.register()

	_, err := s.provider.SignInWithPassword(context.Background(), "ayse@poltemakademi.com", "Secret1!")
	s.NoError(err)

	_, err = s.provider.SignInWithPassword(context.Background(), "ayse@poltemakademi.com", "wrong")
	s.Equal(identity.FailureInvalidCredentials, s.kind(err))

	_, err = s.provider.SignInWithPassword(context.Background(), "nobody@poltemakademi.com", "Secret1!")
	s.Equal(identity.FailureInvalidCredentials, s.kind(err))
}

func (s *ProviderSuite) TestPhoneOTPRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.provider.SignInWithOTP(ctx, "+905551112233"))
	sent := s.sender.last()
	s.Equal(identity.OTPSignIn, sent.purpose)
	s.Len(sent.code, 6)

	_, err := s.provider.VerifyOTP(ctx, identity.VerifyOTPInput{Phone: "+905551112233", Code: "000000x", Purpose: identity.OTPSignIn})
	s.Equal(identity.FailureInvalidOTP, s.kind(err))

	session, err := s.provider.VerifyOTP(ctx, identity.VerifyOTPInput{Phone: "+905551112233", Code: sent.code, Purpose: identity.OTPSignIn})
	s.Require().NoError(err)
	s.Equal("+905551112233", session.Account.Phone)

	_, err = s.provider.VerifyOTP(ctx, identity.VerifyOTPInput{Phone: "+905551112233", Code: sent.code, Purpose: identity.OTPSignIn})
	s.Equal(identity.FailureInvalidOTP, s.kind(err), "codes are single use")
}

func (s *ProviderSuite) TestOTPResendCooldown() {
	ctx := context.Background()
	s.Require().NoError(s.provider.SignInWithOTP(ctx, "+905551112233"))
	s.Equal(identity.FailureRateLimited, s.kind(s.provider.SignInWithOTP(ctx, "+905551112233")))

	s.now = s.now.Add(61 * time.Second)
	s.NoError(s.provider.SignInWithOTP(ctx, "+905551112233"))
}

func (s *ProviderSuite) TestExpiredOTPRejected() {
	ctx := context.Background()
	s.register()
	s.Require().NoError(s.provider.RequestPasswordReset(ctx, "ayse@poltemakademi.com"))
	code := s.sender.last().code

	s.now = s.now.Add(11 * time.Minute)
	_, err := s.provider.VerifyOTP(ctx, identity.VerifyOTPInput{Email: "ayse@poltemakademi.com", Code: code, Purpose: identity.OTPRecovery})
	s.Equal(identity.FailureInvalidOTP, s.kind(err))
}

func (s *ProviderSuite) TestRecoveryThenUpdatePassword() {
	ctx := context.Background()
	s.register()

	s.Equal(identity.FailureUserNotFound, s.kind(s.provider.RequestPasswordReset(ctx, "ghost@poltemakademi.com")))

	s.Require().NoError(s.provider.RequestPasswordReset(ctx, "ayse@poltemakademi.com"))
	sent := s.sender.last()
	s.Equal(identity.OTPRecovery, sent.purpose)

	session, err := s.provider.VerifyOTP(ctx, identity.VerifyOTPInput{Email: "ayse@poltemakademi.com", Code: sent.code, Purpose: identity.OTPRecovery})
	s.Require().NoError(err)

	s.Require().NoError(s.provider.UpdatePassword(ctx, session.AccessToken, "NewSecret2?"))
	_, err = s.provider.SignInWithPassword(ctx, "ayse@poltemakademi.com", "NewSecret2?")
	s.NoError(err)
}

func (s *ProviderSuite) TestCurrentAccountAndSignOut() {
	ctx := context.Background()
	session := s.register()

	account, err := s.provider.CurrentAccount(ctx, session.AccessToken)
	s.Require().NoError(err)
	s.Equal(session.Account.ID, account.ID)

	_, err = s.provider.CurrentAccount(ctx, "garbage")
	s.Equal(identity.FailurePermissionDenied, s.kind(err))

	s.Require().NoError(s.provider.SignOut(ctx, session.AccessToken))
	s.Require().Len(s.revoker.revoked, 1)
	s.InDelta(time.Hour.Seconds(), s.revoker.revoked[0].ttl.Seconds(), 1)
}

func TestGenerateCode(t *testing.T) {
	for range 20 {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}
