package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	// Database. A bare file path selects the embedded sqlite driver;
	// a postgres URL selects the postgres driver.
	DatabaseURL string

	// Server
	APIPort int

	// Storage
	AttachmentStoragePath string

	// Google OAuth
	GoogleClientSecretsFile string
	GoogleTokenFile         string
	GoogleRedirectURL       string

	// Frontend redirect target after the OAuth callback
	FrontendURL string

	// Logging
	LogLevel string

	// Security
	AllowedOrigins string
	AppEnv         string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	// DATABASE_URL (default: local sqlite file)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "mailtrack.db"
	}

	// API_PORT (default: 8080)
	apiPort := os.Getenv("API_PORT")
	if apiPort == "" {
		cfg.APIPort = 8080
	} else {
		port, err := strconv.Atoi(apiPort)
		if err != nil {
			return nil, fmt.Errorf("API_PORT must be a valid integer: %w", err)
		}
		cfg.APIPort = port
	}

	// ATTACHMENT_STORAGE_PATH (default: ./attachments)
	cfg.AttachmentStoragePath = os.Getenv("ATTACHMENT_STORAGE_PATH")
	if cfg.AttachmentStoragePath == "" {
		cfg.AttachmentStoragePath = "./attachments"
	}

	// Google OAuth configuration
	cfg.GoogleClientSecretsFile = os.Getenv("GOOGLE_CLIENT_SECRETS_FILE")
	if cfg.GoogleClientSecretsFile == "" {
		cfg.GoogleClientSecretsFile = "./client_secret.json"
	}

	cfg.GoogleTokenFile = os.Getenv("GOOGLE_TOKEN_FILE")
	if cfg.GoogleTokenFile == "" {
		cfg.GoogleTokenFile = "./token.json"
	}

	cfg.GoogleRedirectURL = os.Getenv("GOOGLE_REDIRECT_URL")
	if cfg.GoogleRedirectURL == "" {
		cfg.GoogleRedirectURL = fmt.Sprintf("http://localhost:%d/api/auth/callback", cfg.APIPort)
	}

	// FRONTEND_URL (default: local Vite dev server)
	cfg.FrontendURL = os.Getenv("FRONTEND_URL")
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:5173"
	}

	// LOG_LEVEL (default: info)
	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.AllowedOrigins = os.Getenv("ALLOWED_ORIGINS")
	cfg.AppEnv = os.Getenv("APP_ENV")
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}

	return cfg, nil
}

// LoadWithValidation loads and validates configuration, failing fast on errors
func LoadWithValidation() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DatabaseURL cannot be empty")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("APIPort must be between 1 and 65535")
	}
	if c.AttachmentStoragePath == "" {
		return fmt.Errorf("AttachmentStoragePath cannot be empty")
	}
	if c.GoogleTokenFile == "" {
		return fmt.Errorf("GoogleTokenFile cannot be empty")
	}
	return nil
}

// LogConfig logs configuration values (excluding secrets)
func (c *Config) LogConfig(logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.Int("api_port", c.APIPort),
		slog.String("storage_path", c.AttachmentStoragePath),
		slog.String("log_level", c.LogLevel),
		slog.String("app_env", c.AppEnv),
		slog.String("redirect_url", c.GoogleRedirectURL),
		slog.Bool("allowed_origins_set", c.AllowedOrigins != ""),
	)
}
