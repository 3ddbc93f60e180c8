package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outer code", func(t *testing.T) {
		err := New(CodeNotFound, "survey not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("matches code through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("load: %w", New(CodeCodeMismatch, "mismatch"))
		assert.True(t, HasCode(err, CodeCodeMismatch))
	})

	t.Run("matches inner coded cause", func(t *testing.T) {
		inner := New(CodeForbidden, "not owner")
		err := Wrap(inner, CodeInternal, "failed")
		assert.True(t, HasCode(err, CodeInternal))
		assert.True(t, HasCode(err, CodeForbidden))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestErrorsIs(t *testing.T) {
	err := fmt.Errorf("ctx: %w", New(CodeUnauthorized, "token has expired"))
	require.ErrorIs(t, err, New(CodeUnauthorized, "token has expired"))
	assert.NotErrorIs(t, err, New(CodeUnauthorized, "invalid token"))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "nothing"))
}

func TestGetCodeAndMessage(t *testing.T) {
	assert.Equal(t, CodeInternal, GetCode(errors.New("raw")))
	assert.Equal(t, "", Message(errors.New("raw")))

	err := Wrap(errors.New("dial tcp"), CodeUnavailable, "backend unavailable")
	assert.Equal(t, CodeUnavailable, GetCode(err))
	assert.Equal(t, "backend unavailable", Message(err))
	assert.Contains(t, err.Error(), "dial tcp")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodePermissionDenied, http.StatusForbidden},
		{CodeCodeMismatch, http.StatusUnprocessableEntity},
		{CodeRateLimited, http.StatusTooManyRequests},
		{Code("something_new"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}
