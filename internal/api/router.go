package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mailtrack/backend/internal/api/handlers"
	"github.com/mailtrack/backend/internal/api/middleware"
	"github.com/mailtrack/backend/internal/gmail"
	"github.com/mailtrack/backend/internal/repository"
	"github.com/mailtrack/backend/internal/storage"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	DB          *gorm.DB
	FileStorage storage.FileStorage
	Provider    gmail.Provider
	OAuth       *gmail.OAuth
	Logger      *slog.Logger

	FrontendURL    string
	AllowedOrigins []string
	AppEnv         string
}

// NewRouter creates and configures the Echo router with all routes
func NewRouter(cfg *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS(cfg.AllowedOrigins, cfg.AppEnv))
	if cfg.Logger != nil {
		e.Use(middleware.RequestLogger(cfg.Logger))
	}

	// Initialize repositories
	emailRepo := repository.NewEmailRepository(cfg.DB)
	templateRepo := repository.NewTemplateRepository(cfg.DB)
	settingsRepo := repository.NewSettingsRepository(cfg.DB)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	emailHandler := handlers.NewEmailHandler(emailRepo, settingsRepo, cfg.Provider, cfg.FileStorage)
	templateHandler := handlers.NewTemplateHandler(templateRepo)
	settingsHandler := handlers.NewSettingsHandler(settingsRepo)
	authHandler := handlers.NewAuthHandler(cfg.OAuth, cfg.FrontendURL)
	gmailHandler := handlers.NewGmailHandler(cfg.Provider)

	// Health routes
	e.GET("/health", healthHandler.Health)
	e.GET("/ready", healthHandler.Ready)

	// API routes
	api := e.Group("/api")

	// Email routes
	emails := api.Group("/emails")
	emails.POST("/send", emailHandler.Send)
	emails.POST("/send-multipart", emailHandler.SendMultipart)
	emails.GET("/history", emailHandler.History)
	emails.GET("/:id", emailHandler.Get)
	emails.DELETE("/:id", emailHandler.Delete)
	emails.POST("/:id/mark-responded", emailHandler.MarkResponded)
	emails.POST("/:id/resend", emailHandler.Resend)
	emails.POST("/:id/check-reply", emailHandler.CheckReply)

	// Template routes
	templates := api.Group("/templates")
	templates.POST("", templateHandler.Create)
	templates.GET("", templateHandler.List)
	templates.GET("/:id", templateHandler.Get)
	templates.PUT("/:id", templateHandler.Update)
	templates.DELETE("/:id", templateHandler.Delete)
	templates.GET("/:id/placeholders", templateHandler.Placeholders)

	// Settings routes
	settings := api.Group("/settings")
	settings.GET("", settingsHandler.Get)
	settings.PUT("", settingsHandler.Update)

	// OAuth routes
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/callback", authHandler.Callback)
	auth.GET("/status", authHandler.Status)
	auth.POST("/logout", authHandler.Logout)

	// Provider account routes
	api.GET("/gmail/profile", gmailHandler.Profile)

	return e
}
