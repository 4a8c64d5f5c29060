package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/store"
	"github.com/hogwartsschoolofmagic/user/pkg/cryptox"
	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/hogwartsschoolofmagic/user/pkg/slogx"
)

// AuthService handles local accounts: registration, email confirmation,
// password login and the current user.
type AuthService struct {
	Store    store.Store
	Tokens   *TokenService
	Mail     *MailService
	Listener RegistrationListener
	Metrics  *Metrics
	Now      func() time.Time
}

func (s *AuthService) now() time.Time { return nowOr(s.Now) }

// Login checks the credentials, records the visit and returns an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	l := slogx.FromContext(ctx)
	provider := string(domain.ProviderLocal)

	badCredentials := func() error {
		s.Metrics.login(provider, "bad_credentials")
		return newError(KindAuthentication, ErrBadCredentials, i18nx.T(ctx, "auth.bad.credentials"))
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", badCredentials()
		}
		return "", err
	}

	// OAuth2 accounts have no password
	if u.PasswordHash == "" {
		return "", badCredentials()
	}
	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Warn("stored password hash unreadable", slog.String("user_id", u.ID), slog.Any("err", err))
		}
		return "", badCredentials()
	}

	if !u.Enabled() {
		s.Metrics.login(provider, "disabled")
		return "", newError(KindAuthentication, ErrUserDisabled, i18nx.T(ctx, "auth.user.disabled"))
	}

	if err := s.Store.Users().UpdateLastVisit(ctx, u.ID, s.now()); err != nil {
		return "", err
	}

	token, err := s.Tokens.CreateToken(&u)
	if err != nil {
		return "", err
	}

	l.Info("user logged in", slog.String("user_id", u.ID))
	s.Metrics.login(provider, "ok")
	return token, nil
}

// CurrentUser returns the user behind p, or nil for an anonymous caller.
func (s *AuthService) CurrentUser(p *domain.Principal) *domain.User {
	if p == nil {
		return nil
	}
	return p.User
}

// LoadPrincipal loads an active user with its authorities.
func (s *AuthService) LoadPrincipal(ctx context.Context, userID string) (*domain.Principal, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindNotFound, err, i18nx.T(ctx, "user.error.not.found"))
		}
		return nil, err
	}
	return domain.NewPrincipal(&u), nil
}
