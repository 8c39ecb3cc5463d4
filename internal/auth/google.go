package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/newtelco/dashboard/internal/config"
)

// DefaultUserInfoURL is Google's OpenID Connect userinfo endpoint.
const DefaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// Scopes requested at sign-in: profile for the session, directory for the contact list.
var Scopes = []string{
	"openid",
	"email",
	"profile",
	"https://www.googleapis.com/auth/directory.readonly",
}

// User is the signed-in Google account.
type User struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
	Domain  string `json:"hd,omitempty"`
}

// GoogleFlow runs the OAuth2 authorization code flow against Google.
type GoogleFlow struct {
	oauth        *oauth2.Config
	hostedDomain string
	userInfoURL  string
}

// NewGoogleFlow builds the flow from configuration.
func NewGoogleFlow(cfg config.GoogleConfig) *GoogleFlow {
	return &GoogleFlow{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       Scopes,
			Endpoint:     endpoints.Google,
		},
		hostedDomain: strings.TrimSpace(cfg.HostedDomain),
		userInfoURL:  DefaultUserInfoURL,
	}
}

// WithEndpoints points the flow at other OAuth and userinfo endpoints.
func (f *GoogleFlow) WithEndpoints(endpoint oauth2.Endpoint, userInfoURL string) *GoogleFlow {
	f.oauth.Endpoint = endpoint
	f.userInfoURL = userInfoURL
	return f
}

// NewState returns an unguessable OAuth state value.
func NewState() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// AuthCodeURL returns the consent URL for state.
func (f *GoogleFlow) AuthCodeURL(state string) string {
	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOffline}
	if f.hostedDomain != "" {
		opts = append(opts, oauth2.SetAuthURLParam("hd", f.hostedDomain))
	}
	return f.oauth.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for a token.
func (f *GoogleFlow) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errors.New("authorization code is required")
	}
	return f.oauth.Exchange(ctx, code)
}

// TokenSource returns a refreshing token source for a stored token.
func (f *GoogleFlow) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return f.oauth.TokenSource(ctx, token)
}

// UserInfo resolves the Google account behind token and enforces the hosted domain.
func (f *GoogleFlow) UserInfo(ctx context.Context, token *oauth2.Token) (User, error) {
	client := oauth2.NewClient(ctx, f.TokenSource(ctx, token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.userInfoURL, nil)
	if err != nil {
		return User{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return User{}, fmt.Errorf("userinfo: %s", resp.Status)
	}
	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return User{}, fmt.Errorf("decode userinfo: %w", err)
	}
	if f.hostedDomain != "" && !strings.EqualFold(user.Domain, f.hostedDomain) {
		return User{}, fmt.Errorf("%w: %s", ErrForeignDomain, user.Email)
	}
	return user, nil
}

// ErrForeignDomain rejects accounts outside the configured Workspace domain.
var ErrForeignDomain = errors.New("account is outside the workspace domain")
