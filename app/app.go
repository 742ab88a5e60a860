// Package app wires configuration, storage and HTTP into a runnable service.
package app

import (
	"context"

	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"

	auth "github.com/goliatone/go-auth-bookmarks"
	"github.com/goliatone/go-auth-bookmarks/bookmark"
	"github.com/goliatone/go-auth-bookmarks/config"
	"github.com/goliatone/go-auth-bookmarks/logging"
	"github.com/goliatone/go-auth-bookmarks/persistence"
	"github.com/goliatone/go-auth-bookmarks/server"
)

type App struct {
	Config *config.Config
	Logger auth.Logger
	DB     *bun.DB
	Repo   auth.RepositoryManager
	Auther *auth.Auther
	Server *server.Server
}

// Open connects to the configured database and builds the app
func Open(ctx context.Context, cfg *config.Config, logger auth.Logger) (*App, error) {
	db, err := persistence.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return New(cfg, db, logger), nil
}

// New builds the app on an open database
func New(cfg *config.Config, db *bun.DB, logger auth.Logger) *App {
	debug := !cfg.IsProduction() && cfg.Logger.Level == "debug"
	if debug {
		logger.Debug("configuration: %s", print.MaybePrettyJSON(cfg.Redacted()))
	}

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	hasher := auth.NewPasswordHasher(cfg.Auth.PasswordHasher, cfg.Auth.Argon2, cfg.Auth.BcryptCost)
	tokens := auth.NewTokenServiceFromConfig(cfg.Auth, logger)

	auther := auth.NewAuthenticator(repo.Users(), hasher, tokens).
		WithLogger(logger).
		WithActivitySink(logging.NewActivitySink(logger)).
		WithHashidIdentifiers(cfg.Auth.UseHashid)

	guard := auth.NewGuard(auther,
		auth.WithGuardScheme(cfg.Auth.GetAuthScheme()),
		auth.WithGuardLogger(logger),
	)

	bookmarks := bookmark.NewService(db, repo, bookmark.NewRepository(), logger)

	users := auth.NewUserController(auther, logger)
	users.ContextKey = cfg.Auth.GetContextKey()

	bookmarksCtrl := bookmark.NewController(bookmarks)
	bookmarksCtrl.ContextKey = cfg.Auth.GetContextKey()

	srv := server.New(server.Options{
		AppName:     cfg.AppName,
		Debug:       debug,
		Logger:      logger,
		Guard:       guard,
		ContextKey:  cfg.Auth.GetContextKey(),
		TokenLookup: cfg.Auth.GetTokenLookup(),
		Handlers: server.Handlers{
			Auth: auth.NewAuthController(auther,
				auth.WithControllerLogger(logger),
				auth.WithControllerDebug(debug),
			),
			Users:     users,
			Bookmarks: bookmarksCtrl,
		},
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	return &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Repo:   repo,
		Auther: auther,
		Server: srv,
	}
}

// Migrate applies pending migrations
func (a *App) Migrate(ctx context.Context) error {
	n, err := persistence.Migrate(ctx, a.DB, a.Config.Database.Driver)
	if err != nil {
		return err
	}
	a.Logger.Info("migrations applied", "count", n)
	return nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
