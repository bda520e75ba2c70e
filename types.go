package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal
type Identity interface {
	ID() string
	Email() string
	Roles() []string
	IsActive() bool
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetAuthScheme() string
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Register(ctx context.Context, msg RegisterUserMessage) (*AuthPayload, error)
	Login(ctx context.Context, email, password string) (*AuthPayload, error)
}

// IdentityStore is the persistence contract the authentication service and
// the guard consume. Lookups expect normalized emails; Register surfaces the
// unique email violation as ErrDuplicateEmail.
type IdentityStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUserID(ctx context.Context, id string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
}

// AuthPayload is what a successful register or login hands back across the
// boundary: the sanitized user plus a freshly minted token. The user is
// embedded so the JSON body is flat.
type AuthPayload struct {
	*User
	Token string `json:"token"`
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
