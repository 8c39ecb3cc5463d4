package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/newtelco/dashboard/internal/config"
)

const testSecret = "test-secret-key-for-sessions"

var testUser = User{Subject: "108234", Name: "Ann Example", Email: "ann@example.com"}

func TestGenerateAndParseToken(t *testing.T) {
	token, expiresAt, err := GenerateToken(testUser, testSecret, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	id, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "108234", id.Subject)
	assert.Equal(t, "Ann Example", id.Name)
	assert.Equal(t, "ann@example.com", id.Email)
	assert.Equal(t, token, id.Token)

	_, err = ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestGenerateTokenEmptySecret(t *testing.T) {
	_, _, err := GenerateToken(testUser, " ", time.Hour)
	assert.True(t, errors.Is(err, ErrMissingSecret))
}

func TestParseTokenExpired(t *testing.T) {
	token, _, err := GenerateToken(testUser, testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(token, testSecret)
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(JWTMiddleware(testSecret, func(c echo.Context) bool {
		return c.Request().URL.Path == "/ping"
	}))
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/me", func(c echo.Context) error {
		id, err := IdentityFromContext(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, id.Email)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := GenerateToken(testUser, testSecret, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ann@example.com", rec.Body.String())
}

func TestAuthCodeURL(t *testing.T) {
	flow := NewGoogleFlow(config.GoogleConfig{
		ClientID:     "client",
		RedirectURL:  "http://localhost/auth/google/callback",
		HostedDomain: "example.com",
	})
	raw := flow.AuthCodeURL("abc")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "abc", q.Get("state"))
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "example.com", q.Get("hd"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Contains(t, q.Get("scope"), "directory.readonly")
}

func TestNewStateIsRandom(t *testing.T) {
	a, b := NewState(), NewState()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func newGoogleStub(t *testing.T, domain string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"108234","name":"Ann Example","email":"ann@` + domain + `","hd":"` + domain + `"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestExchangeAndUserInfo(t *testing.T) {
	srv := newGoogleStub(t, "example.com")
	flow := NewGoogleFlow(config.GoogleConfig{ClientID: "client", HostedDomain: "example.com"}).
		WithEndpoints(oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}, srv.URL+"/userinfo")

	ctx := context.Background()
	token, err := flow.Exchange(ctx, "code")
	require.NoError(t, err)
	assert.Equal(t, "at", token.AccessToken)
	assert.Equal(t, "rt", token.RefreshToken)

	user, err := flow.UserInfo(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "108234", user.Subject)
	assert.Equal(t, "ann@example.com", user.Email)

	_, err = flow.Exchange(ctx, "")
	assert.Error(t, err)
}

func TestUserInfoRejectsForeignDomain(t *testing.T) {
	srv := newGoogleStub(t, "elsewhere.org")
	flow := NewGoogleFlow(config.GoogleConfig{HostedDomain: "example.com"}).
		WithEndpoints(oauth2.Endpoint{TokenURL: srv.URL + "/token"}, srv.URL+"/userinfo")

	_, err := flow.UserInfo(context.Background(), &oauth2.Token{AccessToken: "at", Expiry: time.Now().Add(time.Hour)})
	assert.True(t, errors.Is(err, ErrForeignDomain))
}
