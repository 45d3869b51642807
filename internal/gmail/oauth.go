package gmail

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/mailtrack/backend/internal/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// OAuth manages the Google OAuth flow and the stored token file. Token
// acquisition and refresh are delegated to golang.org/x/oauth2; this
// type only wires the flow to the local token store.
type OAuth struct {
	config    *oauth2.Config
	tokenPath string
}

// AuthStatus describes the stored credentials for the status endpoint.
type AuthStatus struct {
	Authenticated bool       `json:"authenticated"`
	Scopes        []string   `json:"scopes,omitempty"`
	Expiry        *time.Time `json:"expiry,omitempty"`
}

// NewOAuth builds an OAuth manager from a Google client-secrets JSON
// file. redirectURL overrides the file's redirect when non-empty.
func NewOAuth(clientSecretsPath, tokenPath, redirectURL string) (*OAuth, error) {
	data, err := os.ReadFile(clientSecretsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secrets file: %w", err)
	}

	cfg, err := google.ConfigFromJSON(data, gmail.GmailSendScope, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secrets: %w", err)
	}
	if redirectURL != "" {
		cfg.RedirectURL = redirectURL
	}

	return &OAuth{config: cfg, tokenPath: tokenPath}, nil
}

// LoginURL issues the consent URL plus the state token the callback
// must echo back.
func (o *OAuth) LoginURL() (string, string) {
	state := uuid.NewString()
	url := o.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
	return url, state
}

// Exchange trades the callback code for a token and persists it.
func (o *OAuth) Exchange(ctx context.Context, code string) error {
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("oauth exchange failed: %w", err)
	}
	return SaveToken(o.tokenPath, token)
}

// Status reports whether stored credentials exist and when they expire.
func (o *OAuth) Status() (*AuthStatus, error) {
	token, err := LoadToken(o.tokenPath)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return &AuthStatus{Authenticated: false}, nil
	}

	status := &AuthStatus{
		Authenticated: true,
		Scopes:        o.config.Scopes,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		status.Expiry = &expiry
	}
	return status, nil
}

// Logout deletes the stored token.
func (o *OAuth) Logout() error {
	return DeleteToken(o.tokenPath)
}

// TokenSource returns a refreshing token source over the stored token,
// persisting refreshed tokens back to the token file. Returns
// ErrNotAuthenticated when no token is stored.
func (o *OAuth) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	token, err := LoadToken(o.tokenPath)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, apperrors.ErrNotAuthenticated
	}

	return &savingTokenSource{
		path: o.tokenPath,
		src:  o.config.TokenSource(ctx, token),
		last: token.AccessToken,
	}, nil
}
