package auth_test

import (
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/leaguekit/club-auth"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, 200},
		{"duplicate email", auth.ErrDuplicateEmail, 400},
		{"invalid credentials", auth.ErrMismatchedHashAndPassword, 401},
		{"expired token", auth.ErrTokenExpired, 401},
		{"malformed token", auth.ErrTokenMalformed, 401},
		{"missing token", auth.ErrMissingToken, 401},
		{"inactive account", auth.ErrAccountInactive, 403},
		{"role required", auth.ErrRoleRequired, 403},
		{"identity not found", auth.ErrIdentityNotFound, 404},
		{"plain error", fmt.Errorf("boom"), 500},
		{"internal category", goerrors.New("broken", goerrors.CategoryInternal), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatusWrappedError(t *testing.T) {
	wrapped := goerrors.Wrap(auth.ErrDuplicateEmail, goerrors.CategoryValidation, "registration failed")
	assert.Equal(t, 400, auth.HTTPStatus(wrapped))
}

func TestLoginErrorRevealsNothing(t *testing.T) {
	// The unified credential error must not mention email or password
	msg := auth.ErrMismatchedHashAndPassword.Error()
	assert.NotContains(t, msg, "email")
	assert.NotContains(t, msg, "password")
	assert.Equal(t, "INVALID_CREDENTIALS", auth.ErrMismatchedHashAndPassword.TextCode)
}

func TestIsDuplicateEmailError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", auth.ErrDuplicateEmail, true},
		{"postgres sqlstate", fmt.Errorf("ERROR: duplicate key value violates unique constraint \"users_email_key\" (SQLSTATE=23505)"), true},
		{"sqlite message", fmt.Errorf("constraint failed: UNIQUE constraint failed: users.email"), true},
		{"unrelated", fmt.Errorf("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.IsDuplicateEmailError(tt.err))
		})
	}
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.True(t, auth.IsTokenExpiredError(auth.ErrTokenExpired))
	assert.True(t, auth.IsTokenExpiredError(fmt.Errorf("token is expired by 1h")))
	assert.False(t, auth.IsTokenExpiredError(auth.ErrTokenMalformed))
	assert.False(t, auth.IsTokenExpiredError(nil))
}

func TestIsMalformedError(t *testing.T) {
	assert.True(t, auth.IsMalformedError(auth.ErrTokenMalformed))
	assert.True(t, auth.IsMalformedError(fmt.Errorf("missing or malformed JWT")))
	assert.False(t, auth.IsMalformedError(auth.ErrTokenExpired))
	assert.False(t, auth.IsMalformedError(nil))
}

func TestErrIdentityNotFoundIsNotFound(t *testing.T) {
	assert.True(t, goerrors.IsNotFound(auth.ErrIdentityNotFound))
}
