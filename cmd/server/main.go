package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/weblarek/commerce-system/internal/api"
	"github.com/weblarek/commerce-system/internal/api/handler"
	"github.com/weblarek/commerce-system/internal/core/service"
	"github.com/weblarek/commerce-system/internal/core/token"
	mongodb "github.com/weblarek/commerce-system/internal/infrastructure/db/mongo"
	redisdb "github.com/weblarek/commerce-system/internal/infrastructure/db/redis"
	"github.com/weblarek/commerce-system/internal/infrastructure/queue"
	"github.com/weblarek/commerce-system/internal/pkg/config"
	"github.com/weblarek/commerce-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{})
		fatalLog := logger.Get()
		fatalLog.Fatal().Err(err).Msg("configuration error")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Token signing ---
	codec := token.NewCodec(token.Config{
		AccessSecret:  cfg.Auth.AccessSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshSecret: cfg.Auth.RefreshSecret,
		RefreshTTL:    cfg.Auth.RefreshTTL,
		Leeway:        cfg.Auth.ClockLeeway,
	})

	// --- Order stats pipeline ---
	statsService := service.NewStatsService(
		userRepo,
		mongodb.NewOrderRepository(db),
		redisdb.NewDedupChecker(rdb),
		log.With().Str("component", "stats").Logger(),
	)
	dispatcher := queue.NewDispatcher(0, statsService, log.With().Str("component", "dispatcher").Logger())
	dispatcher.Start(ctx)

	// --- HTTP ---
	limiter := redisdb.NewFixedWindowLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	e := api.NewRouter(api.RouterConfig{
		DB:    db,
		Redis: rdb,
		Codec: codec,
		Cookie: handler.CookieSettings{
			Name:   cfg.Auth.CookieName,
			Path:   cfg.Auth.CookiePath,
			Secure: cfg.IsProduction(),
		},
		BcryptCost: cfg.Auth.BcryptCost,
		Limiter:    limiter,
		Dispatcher: dispatcher,
		Log:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
