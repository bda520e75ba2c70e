package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultContextKey is the fiber locals key the guard stores the
// authenticated user under.
const DefaultContextKey = "user"

// DefaultAuthScheme is the expected Authorization header scheme.
const DefaultAuthScheme = "Bearer"

// Guard protects routes behind bearer token authentication plus an
// optional role check. Tokens only prove who the caller is; roles and
// account status are read from the store on every request so revoked or
// deactivated accounts lose access before their tokens expire.
type Guard struct {
	store      IdentityStore
	validator  TokenValidator
	contextKey string
	authScheme string
	logger     Logger
	onError    func(c *fiber.Ctx, err error) error
}

// NewGuard creates a Guard over the given store and token validator.
func NewGuard(store IdentityStore, validator TokenValidator) *Guard {
	return &Guard{
		store:      store,
		validator:  validator,
		contextKey: DefaultContextKey,
		authScheme: DefaultAuthScheme,
		logger:     defLogger{},
		onError:    writeError,
	}
}

func (g *Guard) WithLogger(logger Logger) *Guard {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// WithContextKey overrides the fiber locals key used for the user.
func (g *Guard) WithContextKey(key string) *Guard {
	if key != "" {
		g.contextKey = key
	}
	return g
}

// WithAuthScheme overrides the expected Authorization scheme.
func (g *Guard) WithAuthScheme(scheme string) *Guard {
	if scheme != "" {
		g.authScheme = scheme
	}
	return g
}

// WithErrorHandler overrides how guard failures are rendered.
func (g *Guard) WithErrorHandler(fn func(c *fiber.Ctx, err error) error) *Guard {
	if fn != nil {
		g.onError = fn
	}
	return g
}

// Protected returns a middleware that rejects requests without a valid
// token. When roles are given the user must carry at least one of them.
func (g *Guard) Protected(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, err := g.authenticate(c)
		if err != nil {
			return g.onError(c, err)
		}

		if len(roles) > 0 && !HasAnyRole(user.Roles, roles) {
			g.logger.Warn("Guard role check failed", "user_id", user.ID, "required", roles)
			return g.onError(c, ErrRoleRequired)
		}

		c.Locals(g.contextKey, user)
		c.Locals(g.contextKey+":claims", claims)

		ctx := WithClaimsContext(c.UserContext(), claims)
		c.SetUserContext(WithContext(ctx, user))

		return c.Next()
	}
}

func (g *Guard) authenticate(c *fiber.Ctx) (*User, AuthClaims, error) {
	raw, err := g.tokenFromHeader(c)
	if err != nil {
		return nil, nil, err
	}

	claims, err := g.validator.Validate(raw)
	if err != nil {
		g.logger.Warn("Guard token validation failed", "error", err)
		return nil, nil, err
	}

	user, err := g.store.GetByUserID(c.UserContext(), claims.UserID())
	if err != nil {
		if goerrors.IsNotFound(err) {
			g.logger.Warn("Guard token subject not found", "user_id", claims.UserID())
			return nil, nil, ErrUnableToMapClaims
		}
		g.logger.Error("Guard identity lookup failed", "user_id", claims.UserID(), "error", err)
		return nil, nil, err
	}

	if !user.IsActive {
		g.logger.Warn("Guard blocked inactive account", "user_id", user.ID)
		return nil, nil, ErrAccountInactive
	}

	return user, claims, nil
}

// tokenFromHeader pulls the bearer token out of the Authorization header.
// The scheme comparison is case insensitive per RFC 7235.
func (g *Guard) tokenFromHeader(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", ErrMissingToken
	}

	prefix := g.authScheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrMissingToken
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", ErrMissingToken
	}

	return token, nil
}
