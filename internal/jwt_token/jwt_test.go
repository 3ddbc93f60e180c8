package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "poltem/pkg/domain"
	dErrors "poltem/pkg/domain-errors"
)

var jwtService = NewJWTService("test-signing-key-0123456789", "poltem", DefaultAudience)
var accountID = id.NewAccountID()
var ttl = time.Hour

func Test_GenerateAccessToken(t *testing.T) {
	now := time.Now()
	token, issued, err := jwtService.GenerateAccessToken(accountID, "ayse@poltemakademi.com", now, ttl)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, issued.ID)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	got, err := claims.AccountID()
	require.NoError(t, err)
	assert.Equal(t, accountID, got)
	assert.Equal(t, "ayse@poltemakademi.com", claims.Email)
	assert.Equal(t, issued.ID, claims.TokenID())
	assert.WithinDuration(t, now.Add(ttl), claims.ExpiresAtTime(), time.Second)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, _, err := jwtService.GenerateAccessToken(accountID, "", time.Now().Add(-2*time.Hour), ttl)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewJWTService("another-signing-key-987654", "poltem", DefaultAudience)
	token, _, err := other.GenerateAccessToken(accountID, "", time.Now(), ttl)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_WrongAudience(t *testing.T) {
	other := NewJWTService("test-signing-key-0123456789", "poltem", "service_role")
	token, _, err := other.GenerateAccessToken(accountID, "", time.Now(), ttl)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_Claims_TokenIDFallsBackToSession(t *testing.T) {
	c := &Claims{SessionID: "sess-1", RegisteredClaims: jwt.RegisteredClaims{}}
	assert.Equal(t, "sess-1", c.TokenID())
	assert.True(t, c.ExpiresAtTime().IsZero())
}
