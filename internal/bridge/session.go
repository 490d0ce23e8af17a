package bridge

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	// SessionLifetime defines how long bridge session tokens are valid.
	SessionLifetime = 12 * 60 * 60 // 12 hours in seconds
)

var (
	// ErrTokenExpired is returned when the session token has expired.
	ErrTokenExpired = errors.New("session token expired")

	// ErrInvalidToken is returned when the session token is invalid for any reason.
	ErrInvalidToken = errors.New("invalid session token")
)

// SessionClaims are the JWT claims carried by a bridge session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	// Host identifies the editor integration the token was issued to.
	Host string `json:"host"`
}

// CreateSessionToken mints a signed session token for a host editor
// integration. The host presents it as a bearer token on every bridge call.
func CreateSessionToken(host string, secret string) (string, error) {
	now := time.Now()

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionLifetime * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        now.Format(time.RFC3339Nano),
		},
		Host: host,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

// ValidateSessionToken validates and parses a session token.
func ValidateSessionToken(tokenString string, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
