package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-admin/internal/config"
	"catalog-admin/internal/db"
	"catalog-admin/internal/logger"
	"catalog-admin/internal/router"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("env", cfg.Env).Msg("Starting catalog admin service")

	if cfg.UsesDefaultSecret() {
		if cfg.IsProduction() {
			log.Fatal().Msg("SECRET_KEY must be set in production")
		}
		log.Warn().Msg("SECRET_KEY not set, using default key")
	}

	database, err := db.InitDB(cfg.DBUrl, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	if err := db.RunMigrations(database); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	log.Info().Msg("Migrations completed")

	app, err := router.SetupRouter(cfg, database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Router setup failed")
	}

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := app.Admins.EnsureOwner(seedCtx, cfg.OwnerUsername, cfg.OwnerPassword, cfg.OwnerPhone); err != nil {
		log.Error().Err(err).Msg("Owner seeding failed")
	}
	cancelSeed()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
