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

	"github.com/Dosada05/scoreboard-system/config"
	"github.com/Dosada05/scoreboard-system/db"
	"github.com/Dosada05/scoreboard-system/handlers"
	"github.com/Dosada05/scoreboard-system/live"
	"github.com/Dosada05/scoreboard-system/repositories"
	"github.com/Dosada05/scoreboard-system/routes"
	"github.com/Dosada05/scoreboard-system/services"
	"github.com/Dosada05/scoreboard-system/storage"
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

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("live hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	membershipRepo := repositories.NewPostgresMembershipRepository(dbConn)
	scoreboardRepo := repositories.NewPostgresScoreboardRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)

	authorizer := services.NewAuthorizer(scoreboardRepo)
	authService := services.NewAuthService(userRepo, []byte(cfg.JWTSecretKey))
	playerService := services.NewPlayerService(playerRepo, uploader)
	teamService := services.NewTeamService(teamRepo, playerRepo, membershipRepo, uploader)
	scoreboardService := services.NewScoreboardService(scoreboardRepo, teamRepo, userRepo, authorizer, uploader)
	matchService := services.NewMatchService(
		dbConn,
		matchRepo,
		scoreboardRepo,
		playerRepo,
		membershipRepo,
		userRepo,
		authorizer,
		uploader,
		hub,
	)
	standingsService := services.NewStandingsService(
		scoreboardRepo,
		standingRepo,
		matchRepo,
		playerRepo,
		userRepo,
		uploader,
	)

	router := routes.NewRouter(routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Player:     handlers.NewPlayerHandler(playerService),
		Team:       handlers.NewTeamHandler(teamService),
		Scoreboard: handlers.NewScoreboardHandler(scoreboardService),
		Match:      handlers.NewMatchHandler(matchService),
		Public:     handlers.NewPublicHandler(standingsService),
		Live:       handlers.NewLiveHandler(hub, standingsService),
	}, cfg.JWTSecretKey)
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
