// Package server provides the main server initialization and run logic.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/depotdesk/depotdesk/internal/api"
	"github.com/depotdesk/depotdesk/internal/api/handlers"
	"github.com/depotdesk/depotdesk/internal/auth"
	"github.com/depotdesk/depotdesk/internal/auth/blacklist"
	"github.com/depotdesk/depotdesk/internal/config"
	"github.com/depotdesk/depotdesk/internal/db"
	"github.com/depotdesk/depotdesk/internal/logger"
	"github.com/depotdesk/depotdesk/internal/rbac"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// shutdownTimeout bounds how long in-flight requests may run after a stop signal
const shutdownTimeout = 10 * time.Second

// Config holds the server configuration options.
type Config struct {
	Port    int    // Port to run the server on (0 = use config default)
	Version string // Version string to report
}

// Prepare opens the database, runs migrations, seeds RBAC policies and the
// bootstrap admin. It is shared by `serve` and `migrate`.
func Prepare(appCfg *config.Config) (*gorm.DB, *rbac.Authorizer, error) {
	if appCfg.Database.LogLevel == "" {
		appCfg.Database.LogLevel = appCfg.Log.Level
	}

	database, err := db.New(appCfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Database initialized", "driver", appCfg.Database.Driver)

	if err := db.Migrate(database); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database migrations completed")

	authz, err := rbac.NewAuthorizer(database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize RBAC: %w", err)
	}

	if err := db.CreateDefaultAdmin(database); err != nil {
		return nil, nil, fmt.Errorf("failed to create default admin user: %w", err)
	}

	return database, authz, nil
}

// Run starts the server with the given configuration and blocks until the context is canceled.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Version != "" {
		handlers.Version = cfg.Version
	}

	appCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Port != 0 {
		appCfg.Server.Port = cfg.Port
	}

	logger.Init(appCfg.Log.Format, appCfg.Log.Level)
	slog.Info("Starting depotdesk server", "version", cfg.Version, "mode", appCfg.Server.Mode)
	if appCfg.Auth.JWTSecret == config.DefaultJWTSecret {
		slog.Warn("Using the default JWT secret; set auth.jwt_secret before exposing this server")
	}

	database, authz, err := Prepare(appCfg)
	if err != nil {
		return err
	}

	store, err := blacklist.New(appCfg.Auth.Blacklist.Type, appCfg.Auth.Blacklist.ValkeyAddr, database)
	if err != nil {
		return fmt.Errorf("failed to initialize token blacklist: %w", err)
	}
	defer store.Close()
	slog.Info("Token blacklist initialized", "type", appCfg.Auth.Blacklist.Type)

	tokens, err := auth.NewTokenIssuer(appCfg.Auth.JWTSecret, appCfg.Auth.Issuer, appCfg.Auth.AccessTokenTTL, appCfg.Auth.RefreshTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	authenticator := auth.NewJWTAuthenticator(database, tokens, store)

	var oidcAuth *auth.OIDCAuthenticator
	if appCfg.Auth.OIDC.Enabled {
		oidcAuth, err = auth.NewOIDCAuthenticator(ctx, appCfg.Auth.OIDC, database, authenticator)
		if err != nil {
			return fmt.Errorf("failed to initialize OIDC: %w", err)
		}
		slog.Info("OIDC login enabled", "issuer", appCfg.Auth.OIDC.IssuerURL)
	}

	router := api.NewRouter(appCfg, database, authenticator, authz, oidcAuth)

	addr := fmt.Sprintf(":%d", appCfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		PurgeLoop(gctx, store, appCfg.Auth.Blacklist.PurgeInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		slog.Info("Server stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("depotdesk exited")
	return nil
}

// PurgeLoop removes expired blacklist entries every interval until ctx is
// canceled. A non-positive interval disables it.
func PurgeLoop(ctx context.Context, store blacklist.Store, interval time.Duration) {
	if interval <= 0 {
		slog.Info("Token blacklist janitor disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.Purge(ctx)
			if err != nil {
				slog.Error("Failed to purge token blacklist", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("Purged expired blacklist entries", "removed", removed)
			}
		}
	}
}

// RunWithSignalHandling starts the server and handles OS signals for graceful shutdown.
func RunWithSignalHandling(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Run(ctx, cfg)
}
