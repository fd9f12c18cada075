package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cesizen/identity-system/internal/api"
	"github.com/cesizen/identity-system/internal/core/service"
	"github.com/cesizen/identity-system/internal/infrastructure/config"
	mongodb "github.com/cesizen/identity-system/internal/infrastructure/db/mongo"
	redisdb "github.com/cesizen/identity-system/internal/infrastructure/db/redis"
	"github.com/cesizen/identity-system/internal/infrastructure/queue"
	"github.com/cesizen/identity-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.Production(),
	})

	if cfg.Production() && cfg.Token.Secret == "dev-secret-change-me" {
		log.Fatal().Msg("SECRET_KEY must be overridden in production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage handles are created once here and passed by reference into
	// every component; nothing holds global mutable state.
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensuring user indexes failed")
	}

	auditDispatcher := queue.NewDispatcher(0, mongodb.NewAuditRepository(db), log)
	auditDispatcher.Start(ctx)

	tokens, err := service.NewTokenService(cfg.Token.Secret, cfg.Token.Algorithm, cfg.Token.TTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token service configuration invalid")
	}

	limiter := redisdb.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
	authService := service.NewAuthService(userRepo, tokens, limiter, auditDispatcher)
	userService := service.NewUserService(userRepo, auditDispatcher)
	guard := service.NewAccessGuard(tokens, userRepo)

	if err := authService.BootstrapAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Email); err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap failed")
	}

	e := api.NewRouter(api.Deps{
		Mongo:       db,
		Redis:       rdb,
		AuthService: authService,
		UserService: userService,
		Guard:       guard,
		Log:         log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
