package handlers

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/mailtrack/backend/internal/api/response"
	"github.com/mailtrack/backend/internal/gmail"
)

// AuthHandler handles the Google OAuth flow HTTP endpoints
type AuthHandler struct {
	oauth       *gmail.OAuth
	frontendURL string
}

// NewAuthHandler creates a new AuthHandler. After the callback the
// browser is redirected back to frontendURL.
func NewAuthHandler(oauth *gmail.OAuth, frontendURL string) *AuthHandler {
	return &AuthHandler{oauth: oauth, frontendURL: frontendURL}
}

// LoginResponse carries the consent URL and the state token
type LoginResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	authURL, state := h.oauth.LoginURL()
	return response.Success(c, LoginResponse{AuthURL: authURL, State: state})
}

// Callback handles GET /api/auth/callback. Google redirects here with
// the authorization code; after the exchange the browser is sent back
// to the frontend with the outcome in the query string.
func (h *AuthHandler) Callback(c echo.Context) error {
	if errParam := c.QueryParam("error"); errParam != "" {
		return c.Redirect(http.StatusFound, h.frontendRedirect("error", errParam))
	}

	code := c.QueryParam("code")
	if code == "" {
		return response.BadRequest(c, "missing authorization code")
	}

	if err := h.oauth.Exchange(c.Request().Context(), code); err != nil {
		return c.Redirect(http.StatusFound, h.frontendRedirect("error", "exchange_failed"))
	}

	return c.Redirect(http.StatusFound, h.frontendRedirect("success", ""))
}

// Status handles GET /api/auth/status
func (h *AuthHandler) Status(c echo.Context) error {
	status, err := h.oauth.Status()
	if err != nil {
		return response.InternalError(c, "failed to read stored credentials")
	}
	return response.Success(c, status)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.oauth.Logout(); err != nil {
		return response.InternalError(c, "failed to delete stored credentials")
	}
	return response.SuccessWithMessage(c, nil, "logged out")
}

func (h *AuthHandler) frontendRedirect(status, reason string) string {
	q := url.Values{}
	q.Set("auth", status)
	if reason != "" {
		q.Set("reason", reason)
	}
	return h.frontendURL + "?" + q.Encode()
}
