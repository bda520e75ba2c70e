package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	auth "github.com/leaguekit/club-auth"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// AppConfig is the process configuration, loaded from the environment.
// The signing key has no default: starting without one would silently
// mint forgeable tokens.
type AppConfig struct {
	SigningKey      string   `env:"AUTH_SIGNING_KEY,required"`
	TokenExpiration int      `env:"AUTH_TOKEN_EXPIRATION" envDefault:"2"`
	Issuer          string   `env:"AUTH_ISSUER" envDefault:"club-auth"`
	Audience        []string `env:"AUTH_AUDIENCE" envSeparator:","`
	ContextKey      string   `env:"AUTH_CONTEXT_KEY" envDefault:"user"`
	AuthScheme      string   `env:"AUTH_SCHEME" envDefault:"Bearer"`

	ServerAddr string `env:"SERVER_ADDR" envDefault:":3000"`
	DBDriver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN      string `env:"DB_DSN" envDefault:"file:club-auth.db?cache=shared&_pragma=foreign_keys(1)"`
	Debug      bool   `env:"DEBUG" envDefault:"false"`
}

func (c AppConfig) GetSigningKey() string   { return c.SigningKey }
func (c AppConfig) GetTokenExpiration() int { return c.TokenExpiration }
func (c AppConfig) GetIssuer() string       { return c.Issuer }
func (c AppConfig) GetAudience() []string   { return c.Audience }
func (c AppConfig) GetContextKey() string   { return c.ContextKey }
func (c AppConfig) GetAuthScheme() string   { return c.AuthScheme }

var _ auth.Config = (*AppConfig)(nil)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("club-auth"),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)
	log := lgr.GetLogger("server")

	cfg := AppConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := openDatabase(cfg)
	if err != nil {
		log.Error("could not open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := auth.RunMigrations(ctx, db); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	repo := auth.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		log.Error("database validation failed", "error", err)
		os.Exit(1)
	}

	authenticator := auth.NewAuthenticator(repo, cfg).
		WithLogger(lgr.GetLogger("auth"))

	guard := auth.NewGuard(repo.Users(), authenticator.TokenService()).
		WithContextKey(cfg.GetContextKey()).
		WithAuthScheme(cfg.GetAuthScheme()).
		WithLogger(lgr.GetLogger("guard"))

	app := fiber.New(fiber.Config{
		AppName:               "club-auth",
		DisableStartupMessage: !cfg.Debug,
	})

	controller := auth.NewAuthController(authenticator).
		WithLogger(lgr.GetLogger("http"))
	controller.Debug = cfg.Debug
	controller.RegisterRoutes(app)

	registerProtectedRoutes(app, guard, db, cfg)

	go func() {
		if err := app.Listen(cfg.ServerAddr); err != nil {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server listening", "addr", cfg.ServerAddr, "driver", cfg.DBDriver)

	waitExitSignal()

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("shutdown error", "error", err)
	}
}

func openDatabase(cfg AppConfig) (*bun.DB, error) {
	switch cfg.DBDriver {
	case "postgres", "pg":
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DBDSN)))
		return bun.NewDB(sqldb, pgdialect.New()), nil
	case "sqlite":
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}

func registerProtectedRoutes(app *fiber.App, guard *auth.Guard, db *bun.DB, cfg AppConfig) {
	// Any valid token gets the caller's own profile.
	app.Get("/auth/me", guard.Protected(), func(c *fiber.Ctx) error {
		user, ok := auth.GetFiberUser(c, cfg.GetContextKey())
		if !ok {
			return fiber.ErrUnauthorized
		}
		return c.JSON(user.Sanitized())
	})

	// Admin only listing, demonstrating the role gate.
	app.Get("/admin/users", guard.Protected(string(auth.RoleAdmin), string(auth.RoleSuperUser)), func(c *fiber.Ctx) error {
		var records []*auth.User
		if err := db.NewSelect().
			Model(&records).
			ExcludeColumn("password_hash").
			Order("created_at DESC").
			Scan(c.UserContext()); err != nil {
			return fiber.ErrInternalServerError
		}
		return c.JSON(records)
	})
}

func waitExitSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
