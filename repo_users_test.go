package auth_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/leaguekit/club-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersRepositoryRegister(t *testing.T) {
	db := newTestDB(t)
	repo := auth.NewUsersRepository(db)
	ctx := context.Background()

	t.Run("creates user with defaults", func(t *testing.T) {
		hash, err := auth.HashPassword("Sup3rSecret")
		require.NoError(t, err)

		created, err := repo.Register(ctx, &auth.User{
			Email:        "First@Club.ORG",
			ClubName:     "River FC",
			PasswordHash: hash,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "first@club.org", created.Email, "email stored normalized")
		assert.Equal(t, auth.DefaultRoles(), created.Roles)
		assert.True(t, created.IsActive)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		hash, err := auth.HashPassword("Sup3rSecret")
		require.NoError(t, err)

		_, err = repo.Register(ctx, &auth.User{
			Email:        "dup@club.org",
			PasswordHash: hash,
		})
		require.NoError(t, err)

		_, err = repo.Register(ctx, &auth.User{
			Email:        "dup@club.org",
			PasswordHash: hash,
		})
		require.Error(t, err)
		assert.True(t, goerrors.Is(err, auth.ErrDuplicateEmail))
		assert.Equal(t, 400, auth.HTTPStatus(err))
	})

	t.Run("duplicate check sees normalized emails", func(t *testing.T) {
		hash, err := auth.HashPassword("Sup3rSecret")
		require.NoError(t, err)

		_, err = repo.Register(ctx, &auth.User{
			Email:        "casing@club.org",
			PasswordHash: hash,
		})
		require.NoError(t, err)

		_, err = repo.Register(ctx, &auth.User{
			Email:        "CASING@club.org",
			PasswordHash: hash,
		})
		assert.True(t, goerrors.Is(err, auth.ErrDuplicateEmail))
	})
}

func TestUsersRepositoryGetByEmail(t *testing.T) {
	db := newTestDB(t)
	repo := auth.NewUsersRepository(db)
	ctx := context.Background()

	seeded := seedUser(t, db, "lookup@club.org", "Sup3rSecret", nil, true)

	t.Run("returns user with password hash", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "lookup@club.org")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, found.ID)
		assert.NotEmpty(t, found.PasswordHash, "login needs the stored hash")
	})

	t.Run("unknown email maps to not found", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "ghost@club.org")
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))
	})
}

func TestUsersRepositoryGetByUserID(t *testing.T) {
	db := newTestDB(t)
	repo := auth.NewUsersRepository(db)
	ctx := context.Background()

	seeded := seedUser(t, db, "byid@club.org", "Sup3rSecret", []string{"admin"}, true)

	t.Run("returns user without password hash", func(t *testing.T) {
		found, err := repo.GetByUserID(ctx, seeded.ID.String())
		require.NoError(t, err)
		assert.Equal(t, seeded.Email, found.Email)
		assert.Equal(t, []string{"admin"}, found.Roles)
		assert.Empty(t, found.PasswordHash)
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		_, err := repo.GetByUserID(ctx, "0b961c1e-6a62-4ba9-a49c-0000deadbeef")
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))
	})

	t.Run("invalid uuid maps to not found", func(t *testing.T) {
		_, err := repo.GetByUserID(ctx, "not-a-uuid")
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))
	})
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := newTestDB(t)

	// newTestDB already ran the migrations once
	require.NoError(t, auth.RunMigrations(context.Background(), db))

	count, err := db.NewSelect().Table("users").Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
