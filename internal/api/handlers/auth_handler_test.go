package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/mailtrack/backend/internal/gmail"
)

const testClientSecrets = `{
	"web": {
		"client_id": "test-client-id",
		"client_secret": "test-client-secret",
		"auth_uri": "https://accounts.google.com/o/oauth2/auth",
		"token_uri": "https://oauth2.googleapis.com/token",
		"redirect_uris": ["http://localhost:8080/api/auth/callback"]
	}
}`

// AuthHandlerTestSuite is the test suite for AuthHandler
type AuthHandlerTestSuite struct {
	suite.Suite
	echo      *echo.Echo
	handler   *AuthHandler
	tokenPath string
}

// SetupTest runs before each test
func (s *AuthHandlerTestSuite) SetupTest() {
	s.echo = echo.New()

	dir := s.T().TempDir()
	secretsPath := filepath.Join(dir, "client_secret.json")
	s.Require().NoError(os.WriteFile(secretsPath, []byte(testClientSecrets), 0o600))
	s.tokenPath = filepath.Join(dir, "token.json")

	oauth, err := gmail.NewOAuth(secretsPath, s.tokenPath, "http://localhost:8080/api/auth/callback")
	s.Require().NoError(err)

	s.handler = NewAuthHandler(oauth, "http://localhost:5173")
}

// TestAuthHandlerTestSuite runs the test suite
func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) createContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	return c, rec
}

func (s *AuthHandlerTestSuite) TestLogin_ReturnsConsentURLAndState() {
	c, rec := s.createContext(http.MethodPost, "/api/auth/login")

	err := s.handler.Login(c)

	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.NotEmpty(resp.Data.State)
	s.Contains(resp.Data.AuthURL, "accounts.google.com")
	s.Contains(resp.Data.AuthURL, "access_type=offline")
	s.Contains(resp.Data.AuthURL, "state="+resp.Data.State)
}

func (s *AuthHandlerTestSuite) TestCallback_MissingCode() {
	c, rec := s.createContext(http.MethodGet, "/api/auth/callback")

	err := s.handler.Callback(c)

	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *AuthHandlerTestSuite) TestCallback_ProviderError() {
	c, rec := s.createContext(http.MethodGet, "/api/auth/callback?error=access_denied")

	err := s.handler.Callback(c)

	s.NoError(err)
	s.Equal(http.StatusFound, rec.Code)

	location := rec.Header().Get(echo.HeaderLocation)
	s.Contains(location, "http://localhost:5173")
	s.Contains(location, "auth=error")
	s.Contains(location, "reason=access_denied")
}

func (s *AuthHandlerTestSuite) TestStatus_NotAuthenticated() {
	c, rec := s.createContext(http.MethodGet, "/api/auth/status")

	err := s.handler.Status(c)

	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Data gmail.AuthStatus `json:"data"`
	}
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.False(resp.Data.Authenticated)
}

func (s *AuthHandlerTestSuite) TestStatus_Authenticated() {
	s.Require().NoError(os.WriteFile(s.tokenPath, []byte(`{"access_token":"tok","token_type":"Bearer"}`), 0o600))

	c, rec := s.createContext(http.MethodGet, "/api/auth/status")

	err := s.handler.Status(c)

	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Data gmail.AuthStatus `json:"data"`
	}
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Data.Authenticated)
}

func (s *AuthHandlerTestSuite) TestLogout_DeletesStoredToken() {
	s.Require().NoError(os.WriteFile(s.tokenPath, []byte(`{"access_token":"tok"}`), 0o600))

	c, rec := s.createContext(http.MethodPost, "/api/auth/logout")

	err := s.handler.Logout(c)

	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
	s.NoFileExists(s.tokenPath)
}

func (s *AuthHandlerTestSuite) TestLogout_NoStoredToken() {
	c, rec := s.createContext(http.MethodPost, "/api/auth/logout")

	err := s.handler.Logout(c)

	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
}
