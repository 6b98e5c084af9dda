package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"motogarage/internal/advice"
	"motogarage/internal/auth"
	"motogarage/internal/config"
	"motogarage/internal/garage"
	transporthttp "motogarage/internal/http"
	"motogarage/internal/maintenance"
	"motogarage/internal/platform/database"
	"motogarage/internal/platform/logging"
	"motogarage/internal/platform/migrate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel)

	userRepo, motoRepo, taskRepo, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize repositories", "error", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	directory := auth.NewDirectory(userRepo)
	tokens := auth.NewTokenProvider([]byte(cfg.TokenSecret), cfg.TokenIssuer, cfg.TokenTTL)
	verifier, google, err := buildVerifier(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize google verifier", "error", err)
		os.Exit(1)
	}
	authService := auth.NewService(verifier, directory, tokens, logger)

	garageService := garage.NewService(motoRepo)
	taskService := maintenance.NewService(taskRepo, garageService)

	adviceClient := &http.Client{Timeout: 20 * time.Second}
	adviceService := advice.NewService(adviceClient,
		advice.WithAPIKey(cfg.AdviceAPIKey),
		advice.WithBaseURL(cfg.AdviceBaseURL),
		advice.WithModel(cfg.AdviceModel),
	)

	if cfg.UseInMemoryStore() {
		seedDemoData(ctx, directory, motoRepo, taskRepo, logger)
	}

	router := transporthttp.NewRouter(cfg, transporthttp.RouterDeps{
		Auth:    authService,
		Google:  google,
		Garage:  garageService,
		Tasks:   taskService,
		Adviser: adviceService,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	go func() {
		logger.Info("Moto Garage API listening", "addr", srv.Addr, "store", cfg.DataStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (auth.Repository, garage.Repository, maintenance.Repository, func(), error) {
	if cfg.UseInMemoryStore() {
		logger.Info("using in-memory repositories")
		return auth.NewInMemoryRepository(), garage.NewInMemoryRepository(nil), maintenance.NewInMemoryRepository(nil), nil, nil
	}

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	cleanup := func() {
		_ = db.Close()
	}

	if err := migrate.Apply(ctx, db, logger); err != nil {
		cleanup()
		return nil, nil, nil, nil, err
	}

	logger.Info("connected to postgres")
	return auth.NewPostgresRepository(db), garage.NewPostgresRepository(db), maintenance.NewPostgresRepository(db), cleanup, nil
}

// buildVerifier returns the assertion verifier for the login path and, when
// the browser flow is configured, the Google client for the OAuth handlers.
func buildVerifier(ctx context.Context, cfg config.Config, logger *slog.Logger) (auth.AssertionVerifier, *auth.GoogleVerifier, error) {
	if cfg.GoogleClientID == "" {
		logger.Warn("GOOGLE_CLIENT_ID not set; federated login is disabled")
		return auth.DisabledVerifier{}, nil, nil
	}

	google, err := auth.NewGoogleVerifier(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURL)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("google verifier unavailable; federated login is disabled", "error", err)
			return auth.DisabledVerifier{}, nil, nil
		}
		return nil, nil, err
	}
	return google, google, nil
}
