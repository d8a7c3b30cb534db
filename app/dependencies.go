package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/edustack/admin-api/config"
	"github.com/edustack/admin-api/middleware"
	"github.com/edustack/admin-api/repositories"
	"github.com/edustack/admin-api/repositories/postgres"
	"github.com/edustack/admin-api/services"
	"github.com/edustack/admin-api/token"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users     repositories.UserRepository
	TxManager repositories.TransactionManager

	// Domain
	Codec    *token.Codec
	Accounts *services.AccountService

	// Auth
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Initialize PostgreSQL
	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	deps.initRepositories()

	// Initialize token codec, account service, and auth middleware
	deps.initAuth(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL database connection and factory
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	// Test the connection
	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Create the users table and its constraints
	if err := factory.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Users = repos.Users
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initAuth wires the token codec into the account service and the
// authentication middleware
func (d *Dependencies) initAuth(cfg *config.Config) {
	d.Codec = token.NewCodec([]byte(cfg.JWT.Secret), cfg.JWT.TokenTTL)
	d.Accounts = services.NewAccountService(d.Users, d.Codec, d.Logger)

	// Adapter converts token.Claims to middleware.Identity for AuthMiddleware
	validator := &tokenValidatorAdapter{codec: d.Codec}
	d.AuthMiddleware = middleware.NewAuthMiddleware(validator, d.Logger)

	d.Logger.Info("auth initialized", zap.Duration("token_ttl", cfg.JWT.TokenTTL))
}

// tokenValidatorAdapter adapts token.Codec to middleware.TokenValidator
type tokenValidatorAdapter struct {
	codec *token.Codec
}

func (a *tokenValidatorAdapter) ValidateToken(ctx context.Context, raw string) (*middleware.Identity, error) {
	claims, err := a.codec.Decode(raw)
	if err != nil {
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	return &middleware.Identity{
		UserID:      userID,
		Email:       claims.Email,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}, nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	// Close database connection
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
