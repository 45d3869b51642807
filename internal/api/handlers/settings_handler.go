package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/mailtrack/backend/internal/api/response"
	"github.com/mailtrack/backend/internal/models"
	"github.com/mailtrack/backend/internal/repository"
)

// SettingsHandler handles the singleton staleness-threshold settings
type SettingsHandler struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsRepo repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settingsRepo: settingsRepo}
}

// SettingsRequest is the JSON body of PUT /api/settings
type SettingsRequest struct {
	TWhiteMinutes  int `json:"t_white_minutes"`
	TBlueMinutes   int `json:"t_blue_minutes"`
	TYellowMinutes int `json:"t_yellow_minutes"`
	TRedMinutes    int `json:"t_red_minutes"`
}

// Get handles GET /api/settings
func (h *SettingsHandler) Get(c echo.Context) error {
	settings, err := h.settingsRepo.Get(c.Request().Context())
	if err != nil {
		return response.InternalError(c, "failed to get settings")
	}
	return response.Success(c, settings)
}

// Update handles PUT /api/settings. Thresholds must be positive and
// ascending (white <= blue <= yellow <= red).
func (h *SettingsHandler) Update(c echo.Context) error {
	var req SettingsRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if req.TWhiteMinutes <= 0 || req.TBlueMinutes <= 0 || req.TYellowMinutes <= 0 || req.TRedMinutes <= 0 {
		return response.BadRequest(c, "thresholds must be positive")
	}
	if req.TWhiteMinutes > req.TBlueMinutes ||
		req.TBlueMinutes > req.TYellowMinutes ||
		req.TYellowMinutes > req.TRedMinutes {
		return response.BadRequest(c, "thresholds must be ascending")
	}

	settings := &models.Settings{
		ID:             models.SettingsID,
		TWhiteMinutes:  req.TWhiteMinutes,
		TBlueMinutes:   req.TBlueMinutes,
		TYellowMinutes: req.TYellowMinutes,
		TRedMinutes:    req.TRedMinutes,
	}

	if err := h.settingsRepo.Update(c.Request().Context(), settings); err != nil {
		return response.InternalError(c, "failed to update settings")
	}

	return response.Success(c, settings)
}
