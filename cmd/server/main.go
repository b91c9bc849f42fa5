package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/confhub/conference-portal/internal/api"
	mongodb "github.com/confhub/conference-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/confhub/conference-portal/internal/infrastructure/db/redis"
	"github.com/confhub/conference-portal/internal/infrastructure/queue"
	"github.com/confhub/conference-portal/internal/pkg/config"
	"github.com/confhub/conference-portal/pkg/logger"
)

// @title        Conference Portal API
// @version      1.0
// @description  Session authorization and identity endpoints for the conference portal.
// @BasePath     /
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	audit := queue.NewRecorder(cfg.Auth.AuditWorkers, 0, mongodb.NewAuditRepository(db), log)
	audit.Start(ctx)

	e := api.NewRouter(cfg, db, rdb, audit, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("conference portal started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
