package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the identity store contract backed by bun. Email lookups are
// case sensitive against the normalized stored value; callers normalize
// input first.
type Users interface {
	repository.Repository[*User]

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	GetByUserID(ctx context.Context, id string) (*User, error)
	GetByUserIDTx(ctx context.Context, tx bun.IDB, id string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

// GetByEmail fetches a user by normalized email, password hash included;
// login needs it for verification.
func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user by email")
	}

	return record, nil
}

// GetByUserID fetches the post-authentication projection of a user. The
// password hash column is skipped; nothing past login needs it.
func (a *users) GetByUserID(ctx context.Context, id string) (*User, error) {
	return a.GetByUserIDTx(ctx, a.db, id)
}

func (a *users) GetByUserIDTx(ctx context.Context, tx bun.IDB, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrIdentityNotFound
	}

	record := &User{}

	err = tx.NewSelect().
		Model(record).
		ExcludeColumn("password_hash").
		Where("?TableAlias.id = ?", uid).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up user by id")
	}

	return record, nil
}

// Register persists a new user. The unique email constraint is the only
// concurrency coordination; a violation surfaces as ErrDuplicateEmail.
func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	user.Normalize().EnsureDefaults()

	record, err := a.Repository.CreateTx(ctx, tx, user)
	if err != nil {
		if IsDuplicateEmailError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create user")
	}

	return record, nil
}
