// Package auth issues and validates dashboard session tokens and runs the Google
// sign-in flow.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/newtelco/dashboard/internal/identity"
)

const contextKey = "user"

// ErrMissingSecret is returned when no signing secret is configured.
var ErrMissingSecret = errors.New("jwt secret is required")

// GenerateToken signs a session token for the given user.
func GenerateToken(user User, secret string, expiresIn time.Duration) (string, time.Time, error) {
	if strings.TrimSpace(secret) == "" {
		return "", time.Time{}, ErrMissingSecret
	}
	if err := identity.ValidateSubject(user.Subject); err != nil {
		return "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt := now.Add(expiresIn)
	claims := identity.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Name:  user.Name,
		Email: user.Email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken verifies a session token and returns its identity.
func ParseToken(token, secret string) (*identity.Identity, error) {
	claims := &identity.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	return identity.FromClaims(claims, token), nil
}

// JWTMiddleware validates bearer session tokens on every route the skipper lets through.
func JWTMiddleware(secret string, skipper func(c echo.Context) bool) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(secret),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    contextKey,
		Skipper:       skipper,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(identity.Claims)
		},
		// missing and invalid tokens both mean "sign in again"
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing session token")
		},
	})
}

// IdentityFromContext returns the identity the middleware stored on c.
func IdentityFromContext(c echo.Context) (*identity.Identity, error) {
	token, ok := c.Get(contextKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "session required")
	}
	claims, ok := token.Claims.(*identity.Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid session claims")
	}
	if err := identity.ValidateSubject(claims.Subject); err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return identity.FromClaims(claims, token.Raw), nil
}
