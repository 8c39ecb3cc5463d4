package identity

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, subject string, expires time.Time) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Name:  "Ann Example",
		Email: "ann@example.com",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return signed
}

func TestInspect(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signToken(t, "1234", exp)

	id, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "1234", id.Subject)
	assert.Equal(t, "Ann Example", id.Name)
	assert.Equal(t, "ann@example.com", id.Email)
	assert.Equal(t, token, id.Token)
	assert.True(t, exp.Equal(id.ExpiresAt))
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, err := Inspect("not-a-token")
	assert.Error(t, err)
	_, err = Inspect("  ")
	assert.Error(t, err)
}

func TestSessionFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session")
	now := time.Now()

	id, err := LoadSessionFile(path, now)
	require.NoError(t, err)
	assert.Nil(t, id, "missing file means no session")

	token := signToken(t, "1234", now.Add(time.Hour))
	require.NoError(t, SaveSessionFile(path, token))

	id, err = LoadSessionFile(path, now)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, token, id.Token)

	id, err = LoadSessionFile(path, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, id, "expired token means no session")
}

func TestSame(t *testing.T) {
	a := &Identity{Subject: "1", Token: "t1"}
	b := &Identity{Subject: "1", Token: "t1"}
	c := &Identity{Subject: "1", Token: "t2"}
	assert.True(t, Same(nil, nil))
	assert.True(t, Same(a, b))
	assert.False(t, Same(a, c))
	assert.False(t, Same(a, nil))
}

func TestValidateSubject(t *testing.T) {
	assert.NoError(t, ValidateSubject("108234_abc-def@example.com"))
	assert.True(t, errors.Is(ValidateSubject(""), ErrInvalidSubject))
	assert.True(t, errors.Is(ValidateSubject("a b"), ErrInvalidSubject))
}
