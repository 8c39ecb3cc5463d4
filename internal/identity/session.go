package identity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSubject is returned for subjects that cannot key a session row.
var ErrInvalidSubject = errors.New("invalid identity subject")

// Inspect decodes the claims of a session token without verifying its signature.
// The terminal client never holds the signing secret; the backend re-verifies
// every request.
func Inspect(token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("session token is empty")
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("inspect session token: %w", err)
	}
	if err := ValidateSubject(claims.Subject); err != nil {
		return nil, err
	}
	return FromClaims(claims, token), nil
}

// LoadSessionFile returns the identity stored at path. A missing file or an
// expired token yields (nil, nil): there is simply no active session.
func LoadSessionFile(path string, now time.Time) (*Identity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil, nil
	}
	id, err := Inspect(string(raw))
	if err != nil {
		return nil, err
	}
	if id.Expired(now) {
		return nil, nil
	}
	return id, nil
}

// SaveSessionFile writes the session token to path with owner-only permissions.
func SaveSessionFile(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strings.TrimSpace(token)+"\n"), 0o600)
}

// ValidateSubject enforces a conservative charset for subjects used as store keys.
func ValidateSubject(subject string) error {
	if subject == "" {
		return fmt.Errorf("%w: subject required", ErrInvalidSubject)
	}
	for _, r := range subject {
		if r != '-' && r != '_' && r != '.' && r != '@' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return fmt.Errorf("%w: %q", ErrInvalidSubject, subject)
		}
	}
	return nil
}
