// Package handlers provides HTTP API handlers for the dashboard backend.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"

	"github.com/newtelco/dashboard/internal/auth"
	"github.com/newtelco/dashboard/internal/sessions"
)

const stateCookie = "oauth_state"

// GoogleFlow is the OAuth side of sign-in.
type GoogleFlow interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	UserInfo(ctx context.Context, token *oauth2.Token) (auth.User, error)
	TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource
}

// SessionStore keeps the Google token of each signed-in user.
type SessionStore interface {
	Save(ctx context.Context, session sessions.Session) error
	Get(ctx context.Context, subject string) (sessions.Session, error)
	UpdateToken(ctx context.Context, subject string, token *oauth2.Token) error
}

// AuthHandler serves the Google sign-in redirect and callback.
type AuthHandler struct {
	flow      GoogleFlow
	store     SessionStore
	jwtSecret string
	expiresIn time.Duration
	logger    *slog.Logger
}

// LoginResponse is the success body of the callback (session token and user info).
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(log *slog.Logger, flow GoogleFlow, store SessionStore, jwtSecret string, expiresIn time.Duration) *AuthHandler {
	return &AuthHandler{
		flow:      flow,
		store:     store,
		jwtSecret: jwtSecret,
		expiresIn: expiresIn,
		logger:    log.With(slog.String("handler", "auth")),
	}
}

// Register mounts the Google sign-in routes.
func (h *AuthHandler) Register(e *echo.Echo) {
	e.GET("/auth/google/login", h.Login)
	e.GET("/auth/google/callback", h.Callback)
}

// Login redirects to the Google consent screen.
func (h *AuthHandler) Login(c echo.Context) error {
	state := auth.NewState()
	c.SetCookie(&http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusTemporaryRedirect, h.flow.AuthCodeURL(state))
}

// Callback exchanges the code, stores the Google token and issues a session token.
func (h *AuthHandler) Callback(c echo.Context) error {
	if strings.TrimSpace(h.jwtSecret) == "" {
		return echo.NewHTTPError(http.StatusInternalServerError, "jwt secret not configured")
	}
	cookie, err := c.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid oauth state")
	}
	if msg := c.QueryParam("error"); msg != "" {
		return echo.NewHTTPError(http.StatusUnauthorized, msg)
	}

	ctx := c.Request().Context()
	token, err := h.flow.Exchange(ctx, c.QueryParam("code"))
	if err != nil {
		h.logger.Warn("oauth exchange failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusUnauthorized, "oauth exchange failed")
	}
	user, err := h.flow.UserInfo(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrForeignDomain) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		h.logger.Error("google userinfo failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusBadGateway, "google account lookup failed")
	}
	if err := h.store.Save(ctx, sessions.Session{
		Subject: user.Subject,
		Name:    user.Name,
		Email:   user.Email,
		Token:   token,
	}); err != nil {
		h.logger.Error("save session failed", slog.String("user_id", user.Subject), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "save session failed")
	}
	signed, expiresAt, err := auth.GenerateToken(user, h.jwtSecret, h.expiresIn)
	if err != nil {
		h.logger.Error("issue session token failed", slog.String("user_id", user.Subject), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "issue session token failed")
	}
	h.logger.Info("user signed in", slog.String("user_id", user.Subject))
	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt.Format(time.RFC3339),
		UserID:      user.Subject,
		Name:        user.Name,
		Email:       user.Email,
	})
}
