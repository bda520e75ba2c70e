package auth_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	auth "github.com/leaguekit/club-auth"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// MockIdentityStore implements auth.IdentityStore
type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityStore) GetByUserID(ctx context.Context, id string) (*auth.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentityStore) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// testConfig implements auth.Config with sane test values
type testConfig struct {
	key        string
	expiration int
	issuer     string
	audience   []string
}

func (c testConfig) GetSigningKey() string {
	if c.key == "" {
		return "test-signing-key"
	}
	return c.key
}

func (c testConfig) GetTokenExpiration() int {
	if c.expiration == 0 {
		return 2
	}
	return c.expiration
}

func (c testConfig) GetIssuer() string     { return c.issuer }
func (c testConfig) GetAudience() []string { return c.audience }
func (c testConfig) GetContextKey() string { return "user" }
func (c testConfig) GetAuthScheme() string { return "Bearer" }

// newTestDB opens a dedicated in-memory database with the real migrations
// applied. Each call gets its own named memory DB so tests stay isolated.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	require.NoError(t, auth.RunMigrations(context.Background(), db))

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// seedUser inserts a user with a hashed password and returns it with the
// hash still populated.
func seedUser(t *testing.T, db *bun.DB, email, password string, roles []string, active bool) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &auth.User{
		Email:        email,
		ClubName:     "Test FC",
		PasswordHash: hash,
		Roles:        roles,
		IsActive:     active,
	}

	created, err := auth.NewUsersRepository(db).Register(context.Background(), user)
	require.NoError(t, err)

	if !active {
		_, err = db.Exec("UPDATE users SET is_active = ? WHERE id = ?", false, created.ID)
		require.NoError(t, err)
		created.IsActive = false
	}

	return created
}
