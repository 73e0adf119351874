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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/amuzant/Crewmates/config"
	"github.com/amuzant/Crewmates/db"
	"github.com/amuzant/Crewmates/handlers"
	"github.com/amuzant/Crewmates/live"
	appMiddleware "github.com/amuzant/Crewmates/middleware"
	"github.com/amuzant/Crewmates/outbox"
	"github.com/amuzant/Crewmates/repositories"
	api "github.com/amuzant/Crewmates/routes"
	"github.com/amuzant/Crewmates/services"
	"github.com/amuzant/Crewmates/storage"
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
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database migrations applied")

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
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, file uploads disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	sprintRepo := repositories.NewPostgresSprintRepository(dbConn)
	projectRepo := repositories.NewPostgresProjectRepository(dbConn)
	rankingRepo := repositories.NewPostgresRankingRepository(dbConn)
	badgeRepo := repositories.NewPostgresBadgeRepository(dbConn)
	prizeRepo := repositories.NewPostgresPrizeRepository(dbConn)
	pointsRepo := repositories.NewPostgresPointsRepository(dbConn)
	progressRepo := repositories.NewPostgresProgressRepository(dbConn)
	messageRepo := repositories.NewPostgresMessageRepository(dbConn)
	chatRepo := repositories.NewPostgresChatRepository(dbConn)
	rewardRepo := repositories.NewPostgresRewardRepository(dbConn)
	outboxRepo := repositories.NewPostgresOutboxRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo, []byte(cfg.JWTSecretKey))
	userService := services.NewUserService(userRepo, badgeRepo, uploader, logger)
	sprintService := services.NewSprintService(sprintRepo, projectRepo, prizeRepo)
	awardService := services.NewAwardService(projectRepo, badgeRepo, prizeRepo, sprintRepo, logger)
	rankingService := services.NewRankingService(dbConn, sprintRepo, rankingRepo, outboxRepo, hub, logger)
	projectService := services.NewProjectService(projectRepo, userRepo)
	progressService := services.NewProgressService(progressRepo, projectRepo)
	messageService := services.NewMessageService(messageRepo, chatRepo, userRepo)
	chatService := services.NewChatService(chatRepo, messageRepo, userRepo)
	pointsService := services.NewPointsService(dbConn, pointsRepo, userRepo)
	prizeService := services.NewPrizeService(prizeRepo, uploader, logger)
	rewardService := services.NewRewardService(dbConn, rewardRepo, userRepo, pointsRepo)
	logger.Info("services initialized")

	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	dispatcher := outbox.NewDispatcher(outboxRepo, awardService, logger)
	go dispatcher.Run(dispatcherCtx)

	authenticator := appMiddleware.NewAuthenticator(cfg.JWTSecretKey)

	router := chi.NewRouter()
	api.SetupRoutes(router, authenticator, api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, userService),
		User:      handlers.NewUserHandler(userService),
		Sprint:    handlers.NewSprintHandler(sprintService),
		Ranking:   handlers.NewRankingHandler(rankingService),
		Project:   handlers.NewProjectHandler(projectService),
		Progress:  handlers.NewProgressHandler(progressService),
		Message:   handlers.NewMessageHandler(messageService, chatService),
		Chat:      handlers.NewChatHandler(chatService),
		Points:    handlers.NewPointsHandler(pointsService),
		Prize:     handlers.NewPrizeHandler(prizeService),
		Reward:    handlers.NewRewardHandler(rewardService),
		WebSocket: handlers.NewWebSocketHandler(hub, sprintService, logger),
	})
	logger.Info("routes configured")

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
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		stopDispatcher()

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
	logger.Info("application exited")
}
