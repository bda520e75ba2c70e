package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents structured JWT claims with role checking helpers
type AuthClaims interface {
	Subject() string
	UserID() string
	Roles() []string
	HasRole(role string) bool
	HasAnyRole(roles ...string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. The payload is
// intentionally minimal: the user id plus the registered time claims are all
// the gate needs, since roles and account status are re-checked against the
// store on every protected request.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string   `json:"uid,omitempty"`
	UserRoles []string `json:"roles,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Roles returns the role tags embedded at issuance. These reflect the
// identity at login time; the guard treats the store as authoritative.
func (c *JWTClaims) Roles() []string {
	return c.UserRoles
}

// HasRole checks if the claims carry a specific role
func (c *JWTClaims) HasRole(role string) bool {
	for _, r := range c.UserRoles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if the claims carry at least one of the given roles
func (c *JWTClaims) HasAnyRole(roles ...string) bool {
	return HasAnyRole(c.UserRoles, roles)
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
