package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced to API clients alongside the HTTP status.
const (
	TextCodeInvalidCreds    = "INVALID_CREDENTIALS"
	TextCodeDuplicateEmail  = "DUPLICATE_EMAIL"
	TextCodeTokenExpired    = "TOKEN_EXPIRED"
	TextCodeTokenMalformed  = "TOKEN_MALFORMED"
	TextCodeMissingToken    = "MISSING_TOKEN"
	TextCodeAccountInactive = "ACCOUNT_INACTIVE"
	TextCodeRoleRequired    = "ROLE_REQUIRED"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword is returned for any credential failure during
// login. The message deliberately does not reveal whether the email or the
// password was wrong.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt
var ErrNoEmptyString = errors.New("value must not be an empty string", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// ErrDuplicateEmail is returned when registration hits the unique email
// constraint. Client fixable, so it maps to the validation taxonomy.
var ErrDuplicateEmail = errors.New("email is already registered", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeDuplicateEmail).
	WithMetadata(map[string]any{"field": "email"})

// ErrAccountInactive rejects valid credentials or tokens for deactivated
// accounts
var ErrAccountInactive = errors.New("user is inactive, talk with an admin", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeAccountInactive)

// ErrTokenExpired signals a token past its embedded expiration
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed covers bad signatures, wrong algorithms, and undecodable
// tokens
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrMissingToken is returned when a protected route receives no bearer token
var ErrMissingToken = errors.New("missing or malformed authorization header", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeMissingToken)

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = errors.New("unable to map claims", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrRoleRequired rejects authenticated identities missing a declared role
var ErrRoleRequired = errors.New("insufficient role for this resource", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeRoleRequired)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsDuplicateEmailError detects the unique email violation across the wired
// dialects: pgdriver reports SQLSTATE 23505, sqlite reports the constraint by
// name. Driver errors do not share a type, so we match the message like the
// token helpers above do.
func IsDuplicateEmailError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrDuplicateEmail) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// HTTPStatus maps an error to the status code the boundary should answer
// with. Unrecognized errors are treated as internal.
func HTTPStatus(err error) int {
	if err == nil {
		return 200
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return 500
	}

	switch richErr.Category {
	case errors.CategoryValidation:
		return 400
	case errors.CategoryAuth:
		return 401
	case errors.CategoryAuthz:
		return 403
	case errors.CategoryNotFound:
		return 404
	case errors.CategoryConflict:
		return 409
	default:
		return 500
	}
}
