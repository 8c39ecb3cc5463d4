// Package people lists a Workspace domain directory through the Google People API.
package people

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/newtelco/dashboard/internal/config"
	"github.com/newtelco/dashboard/internal/directory"
)

const (
	listDirectoryPath = "/v1/people:listDirectoryPeople"
	readMask          = "names,phoneNumbers,emailAddresses,organizations,photos"
	domainSource      = "DIRECTORY_SOURCE_TYPE_DOMAIN_PROFILE"
	maxPages          = 200
)

// StatusError is a non-2xx answer from the People API.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("people api: status %d", e.Status)
	}
	return fmt.Sprintf("people api: status %d: %s", e.Status, e.Body)
}

type listResponse struct {
	People        []directory.RawContact `json:"people"`
	NextPageToken string                 `json:"nextPageToken"`
}

// Client pages through people:listDirectoryPeople.
type Client struct {
	baseURL  string
	pageSize int
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewClient builds a client from configuration.
func NewClient(log *slog.Logger, cfg config.PeopleConfig) *Client {
	if log == nil {
		log = slog.Default()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = config.DefaultPeopleBaseURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = config.DefaultPeoplePageSize
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Client{
		baseURL:  baseURL,
		pageSize: pageSize,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   log.With(slog.String("service", "people")),
	}
}

// ListDirectory returns every domain profile visible to the OAuth client.
func (c *Client) ListDirectory(ctx context.Context, client *http.Client) ([]directory.RawContact, error) {
	var (
		out       []directory.RawContact
		pageToken string
	)
	for page := 0; page < maxPages; page++ {
		resp, err := c.listPage(ctx, client, pageToken)
		if err != nil {
			return nil, err
		}
		out = append(out, resp.People...)
		if resp.NextPageToken == "" {
			c.logger.Debug("directory listed", slog.Int("pages", page+1), slog.Int("people", len(out)))
			return out, nil
		}
		pageToken = resp.NextPageToken
	}
	return nil, fmt.Errorf("people api: more than %d pages", maxPages)
}

func (c *Client) listPage(ctx context.Context, client *http.Client, pageToken string) (listResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return listResponse{}, err
	}
	q := url.Values{}
	q.Set("readMask", readMask)
	q.Set("sources", domainSource)
	q.Set("pageSize", strconv.Itoa(c.pageSize))
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+listDirectoryPath+"?"+q.Encode(), nil)
	if err != nil {
		return listResponse{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return listResponse{}, fmt.Errorf("people api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return listResponse{}, &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	var parsed listResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return listResponse{}, fmt.Errorf("decode people page: %w", err)
	}
	return parsed, nil
}
