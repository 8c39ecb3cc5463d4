package sessions

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/newtelco/dashboard/internal/logger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), logger.Discard(), filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreSaveGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	err := store.Save(ctx, Session{
		Subject: "108234",
		Name:    "Ann",
		Email:   "ann@example.com",
		Token:   &oauth2.Token{AccessToken: "at", RefreshToken: "rt", Expiry: expiry},
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, "108234")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "ann@example.com", got.Email)
	assert.Equal(t, "at", got.Token.AccessToken)
	assert.Equal(t, "rt", got.Token.RefreshToken)
	assert.True(t, expiry.Equal(got.Token.Expiry))

	require.NoError(t, store.UpdateToken(ctx, "108234", &oauth2.Token{AccessToken: "at2", RefreshToken: "rt"}))
	got, err = store.Get(ctx, "108234")
	require.NoError(t, err)
	assert.Equal(t, "at2", got.Token.AccessToken)
	assert.Equal(t, "Ann", got.Name)
}

func TestStoreKeepsRefreshTokenOnRepeatSignIn(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Session{Subject: "u1", Name: "Ann", Token: &oauth2.Token{AccessToken: "a1", RefreshToken: "r1"}}))
	// a repeat consent returns only an access token
	second := &oauth2.Token{AccessToken: "a2"}
	require.NoError(t, store.Save(ctx, Session{Subject: "u1", Name: "Ann B", Token: second}))
	assert.Empty(t, second.RefreshToken, "caller token is not modified")

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a2", got.Token.AccessToken)
	assert.Equal(t, "r1", got.Token.RefreshToken)
	assert.Equal(t, "Ann B", got.Name)

	// a newly issued refresh token replaces the stored one
	require.NoError(t, store.Save(ctx, Session{Subject: "u1", Token: &oauth2.Token{AccessToken: "a3", RefreshToken: "r2"}}))
	got, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "r2", got.Token.RefreshToken)

	// first sign-in without a refresh token is stored as is
	require.NoError(t, store.Save(ctx, Session{Subject: "u2", Token: &oauth2.Token{AccessToken: "b1"}}))
	got, err = store.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, got.Token.RefreshToken)
}

func TestStoreMissing(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Get(context.Background(), "nobody")
	assert.True(t, errors.Is(err, ErrNotFound))
	err = store.UpdateToken(context.Background(), "nobody", &oauth2.Token{})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStoreRejectsBadInput(t *testing.T) {
	store := openTestStore(t)
	assert.Error(t, store.Save(context.Background(), Session{Subject: "a b", Token: &oauth2.Token{}}))
	assert.Error(t, store.Save(context.Background(), Session{Subject: "ok"}))
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, Session{Subject: "1", Token: &oauth2.Token{AccessToken: "x"}}))
	require.NoError(t, store.Delete(ctx, "1"))
	_, err := store.Get(ctx, "1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestJanitorPrunesStaleSessions(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	require.NoError(t, store.Save(ctx, Session{Subject: "old", Token: &oauth2.Token{AccessToken: "x"}}))
	store.now = time.Now
	require.NoError(t, store.Save(ctx, Session{Subject: "fresh", Token: &oauth2.Token{AccessToken: "y"}}))

	janitor, err := NewJanitor(logger.Discard(), store, "@every 1h", 24*time.Hour)
	require.NoError(t, err)
	n, err := janitor.Prune(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = store.Get(ctx, "old")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)

	janitor.Start()
	assert.NoError(t, janitor.Stop(ctx))
}

func TestNewJanitorValidates(t *testing.T) {
	store := openTestStore(t)
	_, err := NewJanitor(nil, store, "not a schedule", time.Hour)
	assert.Error(t, err)
	_, err = NewJanitor(nil, store, "@every 1h", 0)
	assert.Error(t, err)
}
