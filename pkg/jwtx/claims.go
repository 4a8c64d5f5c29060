package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an access token lives when nothing else is configured.
const DefaultTokenTTL = 24 * time.Hour

// Claims carried by user access tokens. The subject is the user id; there
// are no refresh tokens, so a token is simply valid until it expires.
type Claims struct {
	jwt.RegisteredClaims
}

// NewClaims builds claims for subject issued at now and expiring after ttl.
func NewClaims(subject string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}
