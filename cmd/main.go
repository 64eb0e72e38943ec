package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikesz88/ghostMammothsPB-sub000/config"
	"github.com/mikesz88/ghostMammothsPB-sub000/db"
	"github.com/mikesz88/ghostMammothsPB-sub000/handlers"
	"github.com/mikesz88/ghostMammothsPB-sub000/repositories"
	"github.com/mikesz88/ghostMammothsPB-sub000/rotation"
	"github.com/mikesz88/ghostMammothsPB-sub000/routes"
	"github.com/mikesz88/ghostMammothsPB-sub000/services"
	"github.com/mikesz88/ghostMammothsPB-sub000/storage"
)

const (
	sweepInterval = 1 * time.Minute
	// Assignments still open after this long are assumed abandoned and
	// rotated back into the queue.
	staleGameAge = 45 * time.Minute
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize photo storage", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("photo storage initialized")
	} else {
		logger.Info("photo storage disabled, R2_ACCOUNT_ID not set")
	}

	hub := rotation.NewHub()
	go hub.Run()

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)
	queueRepo := repositories.NewPostgresQueueRepository(dbConn)
	assignmentRepo := repositories.NewPostgresAssignmentRepository(dbConn)
	activityRepo := repositories.NewPostgresActivityRepository(dbConn)

	emailService := services.NewEmailService(cfg)
	if emailService.Enabled() {
		logger.Info("email notifications enabled", slog.String("host", cfg.SMTPHost))
	} else {
		logger.Info("email notifications disabled, SMTP_HOST not set")
	}
	notifier := services.NewEmailNotifier(emailService, userRepo)

	activityService := services.NewActivityService(activityRepo, services.DefaultActivityRetention)
	authService := services.NewAuthService(userRepo)
	eventService := services.NewEventService(eventRepo, uploader, activityService)
	queueService := services.NewQueueService(queueRepo, eventRepo, nil, notifier, hub, activityService)
	gameService := services.NewGameService(assignmentRepo, queueRepo, eventRepo, queueService, notifier, hub, activityService)

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		logger.Info("stale game sweeper started",
			slog.Duration("interval", sweepInterval),
			slog.Duration("max_age", staleGameAge))

		for range ticker.C {
			if err := gameService.SweepStale(context.Background(), staleGameAge); err != nil {
				logger.Error("stale game sweep failed", slog.Any("error", err))
			}
		}
	}()

	router := routes.SetupRoutes(routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Event:     handlers.NewEventHandler(eventService),
		Queue:     handlers.NewQueueHandler(queueService),
		Game:      handlers.NewGameHandler(gameService),
		Activity:  handlers.NewActivityHandler(activityService),
		WebSocket: handlers.NewWebSocketHandler(hub, eventService),
	}, cfg.JWTSecretKey)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
