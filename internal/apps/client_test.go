package apps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/apps", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"categories":["tools","sales"]}`))
	})
	mux.HandleFunc("/api/apps/tools", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"apps":[{"name":"Wiki","img":"wiki.svg","url":"https://wiki.example.com"},{"name":"","img":"","url":""}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	cats, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"tools", "sales"}, cats)

	tiles, err := c.List(context.Background(), "tools")
	require.NoError(t, err)
	require.Len(t, tiles, 2)
	assert.Equal(t, "wiki.example.com", tiles[0].Host())
	assert.True(t, tiles[1].Placeholder())

	_, err = c.List(context.Background(), "games")
	assert.EqualError(t, err, "404 - Not Found")
}
