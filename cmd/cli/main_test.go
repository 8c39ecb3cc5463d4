package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newtelco/dashboard/internal/auth"
	"github.com/newtelco/dashboard/internal/config"
	"github.com/newtelco/dashboard/internal/identity"
)

func issue(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	token, _, err := auth.GenerateToken(auth.User{Subject: "42", Name: "Ann", Email: "ann@example.com"}, "secret", expiresIn)
	require.NoError(t, err)
	return token
}

func TestSessionLoaderPrefersEnvironment(t *testing.T) {
	cfg := config.Default()
	cfg.CLI.SessionFile = filepath.Join(t.TempDir(), "session")
	require.NoError(t, identity.SaveSessionFile(cfg.CLI.SessionFile, issue(t, time.Hour)))

	envToken := issue(t, 2*time.Hour)
	t.Setenv(sessionEnv, envToken)

	id, err := sessionLoader(cfg)()
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, envToken, id.Token)
}

func TestSessionLoaderFallsBackToFile(t *testing.T) {
	t.Setenv(sessionEnv, "")
	cfg := config.Default()
	cfg.CLI.SessionFile = filepath.Join(t.TempDir(), "session")

	id, err := sessionLoader(cfg)()
	require.NoError(t, err)
	assert.Nil(t, id, "no file means signed out")

	token := issue(t, time.Hour)
	require.NoError(t, identity.SaveSessionFile(cfg.CLI.SessionFile, token))
	id, err = sessionLoader(cfg)()
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "42", id.Subject)
}

func TestLoginStoresToken(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	configPath = cfgPath
	t.Cleanup(func() { configPath = "" })

	token := issue(t, time.Hour)
	var out bytes.Buffer
	loginCmd.SetOut(&out)
	require.NoError(t, loginCmd.Flags().Set("token", token))
	t.Cleanup(func() { _ = loginCmd.Flags().Set("token", "") })

	t.Chdir(dir)
	require.NoError(t, runLogin(loginCmd, nil))
	assert.Contains(t, out.String(), "Signed in as Ann")

	id, err := identity.LoadSessionFile(filepath.Join(dir, config.DefaultCLISessionFile), time.Now())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, token, id.Token)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ann", displayName(&identity.Identity{Name: "Ann", Email: "a@x", Subject: "1"}))
	assert.Equal(t, "a@x", displayName(&identity.Identity{Email: "a@x", Subject: "1"}))
	assert.Equal(t, "1", displayName(&identity.Identity{Subject: "1"}))
}
