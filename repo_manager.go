package auth

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// RepositoryManager aggregates the persistence repositories and exposes
// transaction scoping for multi step operations.
type RepositoryManager interface {
	Users() Users
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error
	Validate() error
}

type repositoryManager struct {
	db    *bun.DB
	users Users
}

// NewRepositoryManager creates a manager over the given bun handle.
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &repositoryManager{
		db:    db,
		users: NewUsersRepository(db),
	}
}

func (m *repositoryManager) Users() Users {
	return m.users
}

// RunInTx executes fn inside a database transaction, committing on nil and
// rolling back on error.
func (m *repositoryManager) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return m.db.RunInTx(ctx, &sql.TxOptions{}, fn)
}

// Validate pings the database so callers can fail fast on startup.
func (m *repositoryManager) Validate() error {
	if m.db == nil {
		return errors.New("repository manager requires a database handle", errors.CategoryInternal)
	}

	if err := m.db.Ping(); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "database ping failed")
	}

	return nil
}
