package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/newtelco/dashboard/internal/version"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingHandler serves /ping and HEAD /health for liveness.
type PingHandler struct {
	store  Pinger
	logger *slog.Logger
}

// NewPingHandler creates a ping handler. store may be nil.
func NewPingHandler(log *slog.Logger, store Pinger) *PingHandler {
	return &PingHandler{store: store, logger: log.With(slog.String("handler", "ping"))}
}

// Register mounts GET /ping and HEAD /health on the Echo instance.
func (h *PingHandler) Register(e *echo.Echo) {
	e.GET("/ping", h.Ping)
	e.HEAD("/health", h.Health)
}

// Ping returns 200 JSON {"status":"ok","version":...}.
func (h *PingHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.GetInfo(),
	})
}

// Health answers 200 when the session store responds, 503 otherwise.
func (h *PingHandler) Health(c echo.Context) error {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", slog.Any("error", err))
			return c.NoContent(http.StatusServiceUnavailable)
		}
	}
	return c.NoContent(http.StatusOK)
}
