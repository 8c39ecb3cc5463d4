// Package boot provides runtime configuration and dependency wiring for the dashboard backend.
package boot

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/newtelco/dashboard/internal/config"
)

// RuntimeConfig holds parsed runtime settings (JWT, server address, session retention).
// Values may be overridden by environment variables (HTTP_ADDR, SESSIONS_PATH).
type RuntimeConfig struct {
	JwtSecret         string
	JwtExpiresIn      time.Duration
	ServerAddr        string
	SessionsPath      string
	SessionsRetention time.Duration
	JanitorSchedule   string
}

// ProvideRuntimeConfig builds RuntimeConfig from the given config and applies env overrides.
func ProvideRuntimeConfig(cfg config.Config) (*RuntimeConfig, error) {
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}

	jwtExpiresIn, err := time.ParseDuration(cfg.Auth.JWTExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt expires in: %w", err)
	}
	retention, err := time.ParseDuration(cfg.Sessions.Retention)
	if err != nil {
		return nil, fmt.Errorf("invalid sessions retention: %w", err)
	}

	ret := &RuntimeConfig{
		JwtSecret:         cfg.Auth.JWTSecret,
		JwtExpiresIn:      jwtExpiresIn,
		ServerAddr:        cfg.Server.Addr,
		SessionsPath:      cfg.Sessions.Path,
		SessionsRetention: retention,
		JanitorSchedule:   cfg.Sessions.JanitorSchedule,
	}

	if value := os.Getenv("HTTP_ADDR"); value != "" {
		ret.ServerAddr = value
	}

	if value := os.Getenv("SESSIONS_PATH"); value != "" {
		ret.SessionsPath = value
	}
	return ret, nil
}
