// Package identity provides the signed-in user value shared by the backend and the terminal client.
package identity

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a dashboard session token.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Identity is the current session as seen by widgets. A nil *Identity means
// nobody is signed in.
type Identity struct {
	Subject   string
	Name      string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry at now.
func (i *Identity) Expired(now time.Time) bool {
	if i == nil {
		return true
	}
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Same reports whether a and b refer to the same session. Widgets reload when
// this turns false.
func Same(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Subject == b.Subject && a.Token == b.Token
}

// FromClaims builds an Identity from verified or inspected claims.
func FromClaims(claims *Claims, token string) *Identity {
	if claims == nil {
		return nil
	}
	id := &Identity{
		Subject: strings.TrimSpace(claims.Subject),
		Name:    strings.TrimSpace(claims.Name),
		Email:   strings.TrimSpace(claims.Email),
		Token:   token,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id
}
