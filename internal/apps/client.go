package apps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Client reads launcher tiles from the dashboard backend.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient builds a client for the backend at baseURL.
func NewClient(client *http.Client, baseURL string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{http: client, baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/")}
}

// Categories lists the catalog categories.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var body struct {
		Categories []string `json:"categories"`
	}
	if err := c.get(ctx, "/api/apps", &body); err != nil {
		return nil, err
	}
	return body.Categories, nil
}

// List returns the padded tiles of category.
func (c *Client) List(ctx context.Context, category string) ([]App, error) {
	var body struct {
		Apps []App `json:"apps"`
	}
	if err := c.get(ctx, "/api/apps/"+url.PathEscape(category), &body); err != nil {
		return nil, err
	}
	return body.Apps, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%d - %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
