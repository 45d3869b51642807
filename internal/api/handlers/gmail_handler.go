package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/mailtrack/backend/internal/api/response"
	"github.com/mailtrack/backend/internal/gmail"
)

// GmailHandler exposes provider account information
type GmailHandler struct {
	provider gmail.Provider
}

// NewGmailHandler creates a new GmailHandler
func NewGmailHandler(provider gmail.Provider) *GmailHandler {
	return &GmailHandler{provider: provider}
}

// Profile handles GET /api/gmail/profile
func (h *GmailHandler) Profile(c echo.Context) error {
	ctx := c.Request().Context()

	mailer, err := h.provider.Mailer(ctx)
	if err != nil {
		return response.Error(c, err)
	}

	profile, err := mailer.Profile(ctx)
	if err != nil {
		return response.InternalError(c, "failed to get profile: "+err.Error())
	}

	return response.Success(c, profile)
}
