package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/newtelco/dashboard/internal/identity"
)

// Source fetches the raw directory listing for a signed-in identity.
type Source interface {
	Fetch(ctx context.Context, id *identity.Identity) ([]RawContact, error)
}

// HTTPSource reads the directory from the dashboard backend.
type HTTPSource struct {
	client   *http.Client
	endpoint string
}

// NewHTTPSource builds a source for endpoint (e.g. http://127.0.0.1:8080/api/directory).
func NewHTTPSource(client *http.Client, endpoint string) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{
		client:   client,
		endpoint: strings.TrimSpace(endpoint),
	}
}

// Fetch issues one authenticated GET. A nil identity returns ErrNoSession
// without touching the network.
func (s *HTTPSource) Fetch(ctx context.Context, id *identity.Identity) ([]RawContact, error) {
	if id == nil {
		return nil, ErrNoSession
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("build directory request: %v", err), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if id.Token != "" {
		req.Header.Set("Authorization", "Bearer "+id.Token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &TransportError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{Status: resp.StatusCode, StatusText: statusText(resp)}
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("decode directory: %v", err), Err: err}
	}
	return payload.People, nil
}

// statusText extracts the reason phrase ("Unauthorized") from resp.Status ("401 Unauthorized").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
