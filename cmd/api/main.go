package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prodash/internal/config"
	"prodash/internal/database"
	"prodash/internal/logger"
	"prodash/internal/middleware"
	"prodash/internal/router"
	"prodash/internal/storage"
	"prodash/internal/validator"
)

// @title           Prodash API
// @version         1.0
// @description     Prodash is a personal productivity API for tasks, expenses, meetings and visa stays.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// A nil interface, not a nil *storage.Client, keeps uploads answering 503.
	var images storage.ImageStore
	if appConfig.Storage.Enabled() {
		client, err := storage.New(appConfig.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err = client.EnsureBucket(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to prepare storage bucket: %w", err)
		}
		images = client
	} else {
		log.Warn("Object storage not configured; image uploads are disabled")
	}

	stop := make(chan struct{})
	defer close(stop)
	authLimiter := middleware.NewIPRateLimiter(appConfig.AuthRateLimitRPS, appConfig.AuthRateLimitBurst)
	authLimiter.StartCleanup(stop)

	handler := router.New(appConfig, router.Options{
		DB:          dbManager.DB(),
		Images:      images,
		AuthLimiter: authLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting Prodash server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Infof("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
