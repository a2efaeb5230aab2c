package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/loginapi/internal/config"
	"github.com/templui/loginapi/internal/db"
	"github.com/templui/loginapi/internal/repository"
	"github.com/templui/loginapi/internal/service"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	UserRepository repository.UserRepository
	TokenService   *service.TokenService
	AuthService    *service.AuthService
	ProfileService *service.ProfileService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(ctx, cfg.DSN(), db.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		PingTimeout:     cfg.DBConnectTimeout + cfg.DBQueryTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	if cfg.DBAutoMigrate {
		err = db.RunMigrations(database.DB)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	a := Wire(cfg, repository.NewUserRepository(database, cfg.DBQueryTimeout))
	a.DB = database
	return a, nil
}

// Wire builds the services on top of an existing repository.
func Wire(cfg *config.Config, users repository.UserRepository) *App {
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)

	return &App{
		Cfg:            cfg,
		UserRepository: users,
		TokenService:   tokens,
		AuthService:    service.NewAuthService(users, tokens, cfg.BcryptCost),
		ProfileService: service.NewProfileService(users),
	}
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
