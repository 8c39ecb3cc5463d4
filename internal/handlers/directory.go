package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"

	"github.com/newtelco/dashboard/internal/auth"
	"github.com/newtelco/dashboard/internal/directory"
	"github.com/newtelco/dashboard/internal/people"
	"github.com/newtelco/dashboard/internal/sessions"
)

// DirectoryLister lists the domain directory with an authorized client.
type DirectoryLister interface {
	ListDirectory(ctx context.Context, client *http.Client) ([]directory.RawContact, error)
}

// DirectoryHandler proxies the Google directory for the signed-in user.
type DirectoryHandler struct {
	flow   GoogleFlow
	store  SessionStore
	lister DirectoryLister
	logger *slog.Logger
}

// NewDirectoryHandler creates a directory handler.
func NewDirectoryHandler(log *slog.Logger, flow GoogleFlow, store SessionStore, lister DirectoryLister) *DirectoryHandler {
	return &DirectoryHandler{
		flow:   flow,
		store:  store,
		lister: lister,
		logger: log.With(slog.String("handler", "directory")),
	}
}

// Register mounts GET /api/directory.
func (h *DirectoryHandler) Register(e *echo.Echo) {
	e.GET("/api/directory", h.List)
}

// List returns {"people": [...]} in People API shape.
func (h *DirectoryHandler) List(c echo.Context) error {
	id, err := auth.IdentityFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	session, err := h.store.Get(ctx, id.Subject)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "google sign-in required")
		}
		h.logger.Error("load session failed", slog.String("user_id", id.Subject), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "load session failed")
	}

	ts := oauth2.ReuseTokenSource(session.Token, h.flow.TokenSource(ctx, session.Token))
	items, err := h.lister.ListDirectory(ctx, oauth2.NewClient(ctx, ts))
	if err != nil {
		if authorizationExpired(err) {
			return echo.NewHTTPError(http.StatusUnauthorized, "google authorization expired")
		}
		h.logger.Error("list directory failed", slog.String("user_id", id.Subject), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusBadGateway, "directory upstream failed")
	}
	h.persistRefreshedToken(ctx, id.Subject, session.Token, ts)

	if items == nil {
		items = []directory.RawContact{}
	}
	return c.JSON(http.StatusOK, directory.Payload{People: items})
}

func (h *DirectoryHandler) persistRefreshedToken(ctx context.Context, subject string, old *oauth2.Token, ts oauth2.TokenSource) {
	current, err := ts.Token()
	if err != nil || current == nil || current.AccessToken == old.AccessToken {
		return
	}
	if err := h.store.UpdateToken(ctx, subject, current); err != nil {
		h.logger.Warn("persist refreshed token failed", slog.String("user_id", subject), slog.Any("error", err))
	}
}

func authorizationExpired(err error) bool {
	var statusErr *people.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status == http.StatusUnauthorized || statusErr.Status == http.StatusForbidden
	}
	var retrieveErr *oauth2.RetrieveError
	return errors.As(err, &retrieveErr)
}
