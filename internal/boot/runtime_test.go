package boot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newtelco/dashboard/internal/config"
)

func TestProvideRuntimeConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.JWTSecret = "secret"

	rc, err := ProvideRuntimeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, rc.JwtExpiresIn)
	assert.Equal(t, 720*time.Hour, rc.SessionsRetention)
	assert.Equal(t, config.DefaultHTTPAddr, rc.ServerAddr)
	assert.Equal(t, config.DefaultSessionsPath, rc.SessionsPath)
}

func TestProvideRuntimeConfigEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("SESSIONS_PATH", "/tmp/s.db")
	cfg := config.Default()
	cfg.Auth.JWTSecret = "secret"

	rc, err := ProvideRuntimeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, ":9999", rc.ServerAddr)
	assert.Equal(t, "/tmp/s.db", rc.SessionsPath)
}

func TestProvideRuntimeConfigRejects(t *testing.T) {
	_, err := ProvideRuntimeConfig(config.Default())
	assert.EqualError(t, err, "jwt secret is required")

	cfg := config.Default()
	cfg.Auth.JWTSecret = "secret"
	cfg.Auth.JWTExpiresIn = "soon"
	_, err = ProvideRuntimeConfig(cfg)
	assert.Error(t, err)

	cfg.Auth.JWTExpiresIn = "1h"
	cfg.Sessions.Retention = "forever"
	_, err = ProvideRuntimeConfig(cfg)
	assert.Error(t, err)
}
