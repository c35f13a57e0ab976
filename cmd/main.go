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

	"github.com/openseries/roster-system/config"
	"github.com/openseries/roster-system/db"
	"github.com/openseries/roster-system/handlers"
	"github.com/openseries/roster-system/middleware"
	"github.com/openseries/roster-system/repositories"
	api "github.com/openseries/roster-system/routes"
	"github.com/openseries/roster-system/services"
	"github.com/openseries/roster-system/storage"
)

// How often stale pending invitations are swept.
const expirySchedulerInterval = time.Minute

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

	uploader, err := storage.NewS3Uploader(storage.S3UploaderConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		BucketName:      cfg.S3BucketName,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize object storage uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("object storage uploader initialized")

	seriesRepo := repositories.NewPostgresSeriesRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	rosterRepo := repositories.NewPostgresRosterRepository(dbConn)
	invitationRepo := repositories.NewPostgresInvitationRepository(dbConn)
	paymentBatchRepo := repositories.NewPostgresPaymentBatchRepository(dbConn)
	txRunner := repositories.NewSQLTxRunner(dbConn)
	logger.Info("repositories initialized")

	rosterService := services.NewRosterService(rosterRepo, teamRepo, seriesRepo, tournamentRepo, playerRepo)
	invitationService := services.NewInvitationService(txRunner, invitationRepo, rosterRepo, teamRepo, seriesRepo, playerRepo)
	paymentService := services.NewPaymentService(txRunner, paymentBatchRepo, rosterRepo, tournamentRepo, playerRepo)
	seriesService := services.NewSeriesService(seriesRepo, tournamentRepo, uploader)
	teamService := services.NewTeamService(teamRepo, uploader)
	playerService := services.NewPlayerService(playerRepo)
	logger.Info("services initialized")

	go func() {
		ticker := time.NewTicker(expirySchedulerInterval)
		defer ticker.Stop()
		logger.Info("invitation expiry scheduler started", slog.Duration("interval", expirySchedulerInterval))

		for {
			expired, err := invitationService.ExpireStale(context.Background())
			if err != nil {
				logger.Error("invitation expiry sweep failed", slog.Any("error", err))
			} else if expired > 0 {
				logger.Info("expired stale invitations", slog.Int64("count", expired))
			}
			<-ticker.C
		}
	}()

	rosterHandler := handlers.NewRosterHandler(rosterService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)
	seriesHandler := handlers.NewSeriesHandler(seriesService)
	teamHandler := handlers.NewTeamHandler(teamService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	paymentWebhookHandler := handlers.NewPaymentWebhookHandler(paymentService, cfg.GatewayWebhookSecret)
	logger.Info("HTTP handlers initialized")

	auth := middleware.NewAuthenticator(cfg.JWTSecretKey)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		auth,
		rosterHandler,
		invitationHandler,
		seriesHandler,
		teamHandler,
		playerHandler,
		paymentWebhookHandler,
		cfg.AllowedOrigins,
	)
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
		logger.Info("server stopped")
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
	logger.Info("application exited")
}
