package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Auther implements the Authenticator interface on top of the identity
// store and the token service. Register and Login both return the same
// payload shape so clients get a usable token from either entry point.
type Auther struct {
	store        IdentityStore
	registrar    *RegisterUserHandler
	tokenService TokenService
	logger       Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator wired to the repositories.
func NewAuthenticator(repo RepositoryManager, opts Config) *Auther {
	return &Auther{
		store:        repo.Users(),
		registrar:    NewRegisterUserHandler(repo),
		tokenService: NewTokenServiceFromConfig(opts, defLogger{}),
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the default token service.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Register creates a new account and signs it in. Role tags are validated
// against the known set before anything touches the database.
func (s *Auther) Register(ctx context.Context, msg RegisterUserMessage) (*AuthPayload, error) {
	if !ValidRoles(msg.Roles) {
		return nil, goerrors.New("one or more role tags are unknown", goerrors.CategoryValidation).
			WithTextCode("INVALID_ROLE").
			WithMetadata(map[string]any{"roles": msg.Roles})
	}

	user, err := s.registrar.Execute(ctx, msg)
	if err != nil {
		s.logger.Error("Register could not create user", "error", err)
		return nil, err
	}

	token, err := s.tokenService.Generate(NewIdentityFromUser(user))
	if err != nil {
		s.logger.Error("Register token generation failed", "error", err)
		return nil, err
	}

	return &AuthPayload{User: user.Sanitized(), Token: token}, nil
}

// Login verifies the credentials and mints a token. Unknown email and bad
// password come back as the same error so responses do not reveal which
// accounts exist.
func (s *Auther) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	email = NormalizeEmail(email)

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			// Burn a comparison so unknown emails cost the same as bad
			// passwords.
			_ = ComparePasswordAndHash(password, RandomPasswordHash())
			s.logger.Warn("Login attempt for unknown email")
			return nil, ErrMismatchedHashAndPassword
		}
		s.logger.Error("Login identity lookup error", "error", err)
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Warn("Login password verification failed", "user_id", user.ID)
		return nil, ErrMismatchedHashAndPassword
	}

	if !user.IsActive {
		s.logger.Warn("Login blocked for inactive account", "user_id", user.ID)
		return nil, ErrAccountInactive
	}

	token, err := s.tokenService.Generate(NewIdentityFromUser(user))
	if err != nil {
		s.logger.Error("Login token generation failed", "error", err)
		return nil, err
	}

	return &AuthPayload{User: user.Sanitized(), Token: token}, nil
}
