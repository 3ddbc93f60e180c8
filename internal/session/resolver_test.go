package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"poltem/internal/identity"
	"poltem/internal/identity/mocks"
	jwttoken "poltem/internal/jwt_token"
	"poltem/internal/session/revocation"
	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
)

type ResolverSuite struct {
	suite.Suite
	ctx      context.Context
	tokens   *jwttoken.JWTService
	provider *mocks.MockProvider
	trl      *revocation.InMemoryTRL
	cache    *InMemoryAccountCache
	resolver *Resolver
	account  identity.Account
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.ctx = context.Background()
	s.tokens = jwttoken.NewJWTService("resolver-test-signing-key", "", jwttoken.DefaultAudience)
	s.provider = mocks.NewMockProvider(ctrl)
	s.trl = revocation.NewInMemoryTRL()
	s.cache = NewInMemoryAccountCache()
	s.resolver = NewResolver(s.tokens, s.trl, s.cache, s.provider,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(NewMetricsWith(prometheus.NewRegistry())),
	)
	s.account = identity.Account{ID: id.NewAccountID(), Email: "ayse@poltemakademi.com", FullName: "Ayşe"}
}

func (s *ResolverSuite) token() string {
	token, _, err := s.tokens.GenerateAccessToken(s.account.ID, s.account.Email, time.Now(), time.Hour)
	s.Require().NoError(err)
	return token
}

func (s *ResolverSuite) TestResolveLoadsAccountOnceThenCaches() {
	token := s.token()
	s.provider.EXPECT().CurrentAccount(gomock.Any(), token).Return(&s.account, nil).Times(1)

	p, err := s.resolver.Resolve(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(s.account.ID, p.AccountID)
	s.Equal(token, p.AccessToken)
	s.NotEmpty(p.TokenID)
	s.NotEmpty(p.SessionID)

	_, err = s.resolver.Resolve(s.ctx, token)
	s.Require().NoError(err)
}

func (s *ResolverSuite) TestResolveRejectsInvalidToken() {
	_, err := s.resolver.Resolve(s.ctx, "not-a-jwt")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ResolverSuite) TestInvalidateRevokesAndDropsCache() {
	token := s.token()
	s.provider.EXPECT().CurrentAccount(gomock.Any(), token).Return(&s.account, nil).Times(1)

	p, err := s.resolver.Resolve(s.ctx, token)
	s.Require().NoError(err)

	s.Require().NoError(s.resolver.Invalidate(s.ctx, p))

	cached, err := s.cache.Get(s.ctx, s.account.ID)
	s.Require().NoError(err)
	s.Nil(cached)

	_, err = s.resolver.Resolve(s.ctx, token)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ResolverSuite) TestRevokedSessionRejectsSiblingTokens() {
	token := s.token()
	claims, err := s.tokens.ValidateToken(token)
	s.Require().NoError(err)
	s.Require().NoError(s.trl.RevokeToken(s.ctx, claims.SessionID, time.Hour))

	_, err = s.resolver.Resolve(s.ctx, token)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ResolverSuite) TestUnknownAccountIsUnauthorized() {
	token := s.token()
	s.provider.EXPECT().CurrentAccount(gomock.Any(), token).
		Return(nil, identity.NewFailure(404, "user_not_found", "User not found"))

	_, err := s.resolver.Resolve(s.ctx, token)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ResolverSuite) TestProviderOutageIsUnavailable() {
	token := s.token()
	s.provider.EXPECT().CurrentAccount(gomock.Any(), token).
		Return(nil, identity.NewFailure(503, "", "upstream down"))

	_, err := s.resolver.Resolve(s.ctx, token)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *ResolverSuite) TestSubjectMismatch() {
	token := s.token()
	other := s.account
	other.ID = id.NewAccountID()
	s.provider.EXPECT().CurrentAccount(gomock.Any(), token).Return(&other, nil)

	_, err := s.resolver.Resolve(s.ctx, token)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
