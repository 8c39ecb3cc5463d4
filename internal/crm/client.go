// Package crm reads the signed-in user's open projects from the CRM API.
package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/newtelco/dashboard/internal/identity"
)

// ErrNoSession means no identity is signed in; no request was made.
var ErrNoSession = errors.New("no active session")

// Project is one open CRM project.
type Project struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Status  string `json:"status,omitempty"`
	Due     string `json:"due,omitempty"`
}

type listResponse struct {
	Results []Project `json:"results"`
}

// Client talks to the CRM dashboard API.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewClient builds a client for baseURL.
func NewClient(log *slog.Logger, client *http.Client, baseURL string) *Client {
	if log == nil {
		log = slog.Default()
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		http:    client,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		logger:  log.With(slog.String("service", "crm")),
	}
}

// ListProjects returns the open projects of the signed-in user.
func (c *Client) ListProjects(ctx context.Context, id *identity.Identity) ([]Project, error) {
	if id == nil {
		return nil, ErrNoSession
	}
	if c.baseURL == "" {
		return nil, errors.New("crm base url not configured")
	}
	endpoint := c.baseURL + "/dashboard/list?" + url.Values{"user": {id.Name}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	// The CRM list is keyed by user name only; the dashboard session token
	// must not leave the dashboard.
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%d - %s", resp.StatusCode, reasonPhrase(resp))
	}
	var parsed listResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	c.logger.Debug("projects listed", slog.Int("count", len(parsed.Results)))
	return parsed.Results, nil
}

// reasonPhrase returns the status text the server sent, falling back to the
// standard one when the status line carries none.
func reasonPhrase(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
