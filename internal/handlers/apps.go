package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/newtelco/dashboard/internal/apps"
)

// AppsHandler serves launcher tiles per category.
type AppsHandler struct {
	catalog  *apps.Catalog
	gridSize int
	logger   *slog.Logger
}

// NewAppsHandler creates an apps handler.
func NewAppsHandler(log *slog.Logger, catalog *apps.Catalog, gridSize int) *AppsHandler {
	return &AppsHandler{
		catalog:  catalog,
		gridSize: gridSize,
		logger:   log.With(slog.String("handler", "apps")),
	}
}

// Register mounts GET /api/apps and GET /api/apps/:category.
func (h *AppsHandler) Register(e *echo.Echo) {
	e.GET("/api/apps", h.Categories)
	e.GET("/api/apps/:category", h.List)
}

// Categories returns {"categories": [...]}.
func (h *AppsHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"categories": h.catalog.Categories()})
}

// List returns {"apps": [...]} padded to the grid size.
func (h *AppsHandler) List(c echo.Context) error {
	items, err := h.catalog.ByCategory(c.Param("category"), h.gridSize)
	if err != nil {
		if errors.Is(err, apps.ErrUnknownCategory) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"apps": items})
}
