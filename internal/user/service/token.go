package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/pkg/jwtx"
	"github.com/hogwartsschoolofmagic/user/pkg/slogx"
)

// TokenKey signs access tokens and reads them back.
type TokenKey interface {
	jwtx.Signer
	jwtx.Verifier
	Subject(token string) (string, error)
}

// TokenService issues and checks the HS512 access tokens handed to clients.
type TokenService struct {
	Key TokenKey
	TTL time.Duration
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateToken issues a token whose subject is the user id.
func (s *TokenService) CreateToken(u *domain.User) (string, error) {
	if u == nil || u.ID == "" {
		return "", errors.New("token subject is empty")
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultTokenTTL
	}
	return s.Key.Sign(jwtx.NewClaims(u.ID, ttl, s.now()))
}

// UserID returns the subject of a token that already passed Validate.
func (s *TokenService) UserID(token string) (string, error) {
	return s.Key.Subject(token)
}

// Validate reports whether token is a usable access token. Failures are
// logged, never returned.
func (s *TokenService) Validate(ctx context.Context, token string) bool {
	if _, err := s.Key.Verify(token); err != nil {
		l := slogx.FromContext(ctx)
		reason := jwtx.Reason(err)
		switch reason {
		case "empty_token", "expired":
			l.Debug("access token rejected", slog.String("reason", reason))
		default:
			l.Warn("access token rejected", slog.String("reason", reason), slog.Any("err", err))
		}
		return false
	}
	return true
}
