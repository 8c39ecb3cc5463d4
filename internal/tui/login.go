package tui

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// LoginPrompt is the terminal's reauthenticator. A terminal cannot follow a
// browser redirect, so it records the sign-in URL for the view to show and
// counts how often a sign-in was requested.
type LoginPrompt struct {
	url    string
	logger *slog.Logger

	mu       sync.Mutex
	requests int
}

// NewLoginPrompt points the prompt at the backend's Google login route.
func NewLoginPrompt(log *slog.Logger, apiBaseURL string) *LoginPrompt {
	if log == nil {
		log = slog.Default()
	}
	return &LoginPrompt{
		url:    strings.TrimRight(apiBaseURL, "/") + "/auth/google/login",
		logger: log.With(slog.String("component", "login_prompt")),
	}
}

// Reauthenticate records a sign-in request.
func (p *LoginPrompt) Reauthenticate(_ context.Context) error {
	p.mu.Lock()
	p.requests++
	p.mu.Unlock()
	p.logger.Info("sign in required", slog.String("url", p.url))
	return nil
}

// URL is where the user signs in.
func (p *LoginPrompt) URL() string {
	return p.url
}

// Requests reports how many sign-ins were requested.
func (p *LoginPrompt) Requests() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests
}
