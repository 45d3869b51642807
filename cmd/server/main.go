package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mailtrack/backend/internal/api"
	"github.com/mailtrack/backend/internal/config"
	"github.com/mailtrack/backend/internal/database"
	"github.com/mailtrack/backend/internal/gmail"
	"github.com/mailtrack/backend/internal/repository"
	"github.com/mailtrack/backend/internal/storage"
)

func main() {
	// .env is optional; real env vars win
	_ = godotenv.Load()

	cfg, err := config.LoadWithValidation()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("starting mailtrack backend")
	cfg.LogConfig(logger)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The settings row exists from here on; handlers never create it
	settingsRepo := repository.NewSettingsRepository(db)
	if err := settingsRepo.Seed(context.Background()); err != nil {
		logger.Error("failed to seed settings", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.AttachmentStoragePath)
	if err != nil {
		logger.Error("failed to initialize attachment storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	oauth, err := gmail.NewOAuth(cfg.GoogleClientSecretsFile, cfg.GoogleTokenFile, cfg.GoogleRedirectURL)
	if err != nil {
		logger.Error("failed to initialize oauth", slog.String("error", err.Error()))
		os.Exit(1)
	}
	provider := gmail.NewProvider(oauth)

	e := api.NewRouter(&api.RouterConfig{
		DB:             db,
		FileStorage:    fileStorage,
		Provider:       provider,
		OAuth:          oauth,
		Logger:         logger,
		FrontendURL:    cfg.FrontendURL,
		AllowedOrigins: splitOrigins(cfg.AllowedOrigins),
		AppEnv:         cfg.AppEnv,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.APIPort)
		logger.Info("http server listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("http server stopped", slog.String("reason", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
