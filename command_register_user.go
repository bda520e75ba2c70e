package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// RegisterUserMessage carries the input for creating a new account.
// Roles is optional; an empty list gets the default member role.
type RegisterUserMessage struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	ClubName  string   `json:"club_name"`
	Roles     []string `json:"roles"`
	UseHashid bool     `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler creates accounts inside a single transaction: hash
// the password, normalize the email, insert the row. The unique email
// constraint resolves races between concurrent registrations.
type RegisterUserHandler struct {
	repo RepositoryManager
}

// NewRegisterUserHandler returns a handler backed by the given repositories.
func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Email = NormalizeEmail(event.Email)
		user.ClubName = event.ClubName
		user.Roles = event.Roles
		if event.UseHashid {
			if id, err := hashid.NewUUID(user.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return user, nil
}
