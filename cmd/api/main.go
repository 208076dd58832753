package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/account-service/internal/api/http"
	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/observability"
	"github.com/spec-kit/account-service/internal/persistence"
	"github.com/spec-kit/account-service/internal/repository"
	"github.com/spec-kit/account-service/internal/service"
	"github.com/spec-kit/account-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	var users repository.UserRepository
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	switch {
	case errors.Is(err, persistence.ErrNoDSN):
		logger.Warn("POSTGRES_DSN not provided; using in-memory credential store")
		users = repository.NewMemoryUserRepository()
	case err != nil:
		logger.Fatal("failed to connect postgres", zap.Error(err))
	default:
		defer pg.Close()
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		users = repository.NewUserRepository(pg.PoolHandle())
	}

	var (
		cache       repository.IdentityCache
		cachePinger handlers.Pinger
	)
	if redis := persistence.NewRedis(cfg.Redis, logger); redis != nil {
		defer redis.Close()
		cache = repository.NewRedisIdentityCache(redis.Client, cfg.Redis.IdentityTTL())
		cachePinger = redis
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	accounts := service.NewAccountService(service.AccountDependencies{
		Users:  users,
		Cache:  cache,
		Hasher: auth.NewPasswordHasher(cfg.Auth.BcryptCost, worker.NewPool(cfg.Auth.HashWorkers)),
		Tokens: tokens,
		Events: dispatcher,
		Logger: logger,
	})

	app := httptransport.NewServer(httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		Logger:         logger,
		Metrics:        observability.NewMetrics(),
		RequestTimeout: cfg.App.RequestTimeout(),
		Routes: httptransport.RouteConfig{
			Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, logger, accounts, cachePinger),
			Auth:    handlers.NewAuthHandler(accounts, cfg.Auth.CookieSecure),
			Users:   handlers.NewUsersHandler(accounts),
			Session: auth.NewSessionMiddleware(tokens, logger),
		},
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
