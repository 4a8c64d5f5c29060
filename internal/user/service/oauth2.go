package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/store"
	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/hogwartsschoolofmagic/user/pkg/idx"
	"github.com/hogwartsschoolofmagic/user/pkg/slogx"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// RegistrationGoogle is the registration id of the Google login.
const RegistrationGoogle = "google"

// GoogleUserInfoURL is Google's OpenID Connect userinfo endpoint.
const GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// OAuth2UserInfo is the part of a provider profile an account is built from.
type OAuth2UserInfo struct {
	ID       string
	Name     string
	Email    string
	ImageURL string
}

// Provider is an OAuth2 login provider.
type Provider interface {
	Config() *oauth2.Config
	// UserInfo fetches the raw profile attributes of the token's owner.
	UserInfo(ctx context.Context, token *oauth2.Token) (map[string]any, error)
}

// Providers maps registration ids to providers.
type Providers map[string]Provider

type GoogleProvider struct {
	OAuth2      *oauth2.Config
	UserInfoURL string
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		OAuth2: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		UserInfoURL: GoogleUserInfoURL,
	}
}

func (g *GoogleProvider) Config() *oauth2.Config { return g.OAuth2 }

func (g *GoogleProvider) UserInfo(ctx context.Context, token *oauth2.Token) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.OAuth2.Client(ctx, token).Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var attrs map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&attrs); err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}
	return attrs, nil
}

var userInfoExtractors = map[string]func(map[string]any) OAuth2UserInfo{
	RegistrationGoogle: func(attrs map[string]any) OAuth2UserInfo {
		return OAuth2UserInfo{
			ID:       stringAttr(attrs, "sub"),
			Name:     stringAttr(attrs, "name"),
			Email:    stringAttr(attrs, "email"),
			ImageURL: stringAttr(attrs, "picture"),
		}
	},
}

func stringAttr(attrs map[string]any, key string) string {
	s, _ := attrs[key].(string)
	return s
}

// ExtractUserInfo maps provider attributes to OAuth2UserInfo.
func ExtractUserInfo(ctx context.Context, registrationID string, attrs map[string]any) (OAuth2UserInfo, error) {
	extract, ok := userInfoExtractors[strings.ToLower(registrationID)]
	if !ok {
		return OAuth2UserInfo{}, notSupported(ctx, registrationID)
	}
	return extract(attrs), nil
}

func notSupported(ctx context.Context, registrationID string) error {
	return newError(KindAuthentication, ErrProviderNotSupported,
		i18nx.T(ctx, "auth.error.provider.not.supported", registrationID))
}

// OAuth2Service runs the provider side of an OAuth2 login and reconciles the
// profile with the local accounts.
type OAuth2Service struct {
	Store     store.Store
	Providers Providers
	Metrics   *Metrics
	Now       func() time.Time
}

// Provider returns the provider registered under registrationID.
func (s *OAuth2Service) Provider(ctx context.Context, registrationID string) (Provider, error) {
	p, ok := s.Providers[strings.ToLower(registrationID)]
	if !ok {
		return nil, notSupported(ctx, registrationID)
	}
	return p, nil
}

// AuthCodeURL is where the browser is sent to log in with the provider.
func (s *OAuth2Service) AuthCodeURL(ctx context.Context, registrationID, state string) (string, error) {
	p, err := s.Provider(ctx, registrationID)
	if err != nil {
		return "", err
	}
	return p.Config().AuthCodeURL(state), nil
}

// Authenticate exchanges code for a token, fetches the profile and
// reconciles it.
func (s *OAuth2Service) Authenticate(ctx context.Context, registrationID, code string) (*domain.Principal, error) {
	l := slogx.FromContext(ctx)

	p, err := s.Provider(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	token, err := p.Config().Exchange(ctx, code)
	if err != nil {
		l.Warn("oauth2 code exchange failed", slog.String("provider", registrationID), slog.Any("err", err))
		s.Metrics.login(registrationID, "exchange_failed")
		return nil, newError(KindAuthentication, errors.Join(ErrExchangeFailed, err), i18nx.T(ctx, "auth.error.exchange.failed"))
	}

	attrs, err := p.UserInfo(ctx, token)
	if err != nil {
		l.Warn("oauth2 userinfo failed", slog.String("provider", registrationID), slog.Any("err", err))
		s.Metrics.login(registrationID, "exchange_failed")
		return nil, newError(KindAuthentication, errors.Join(ErrExchangeFailed, err), i18nx.T(ctx, "auth.error.exchange.failed"))
	}

	return s.Reconcile(ctx, registrationID, attrs)
}

// Reconcile finds or creates the account for a provider profile. Existing
// accounts get their name, avatar and last visit refreshed; role and
// provider are left alone.
func (s *OAuth2Service) Reconcile(ctx context.Context, registrationID string, attrs map[string]any) (*domain.Principal, error) {
	info, err := ExtractUserInfo(ctx, registrationID, attrs)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(info.Email) == "" {
		s.Metrics.login(registrationID, "no_email")
		return nil, newError(KindAuthentication, ErrEmailNotProvided, i18nx.T(ctx, "auth.error.email.not.found"))
	}

	now := nowOr(s.Now)
	var (
		u       domain.User
		created bool
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Users().GetUserByEmail(ctx, info.Email)
		switch {
		case err == nil:
			if err := tx.Users().UpdateProfile(ctx, existing.ID, info.Name, info.ImageURL, now); err != nil {
				return err
			}
			u, err = tx.Users().GetUserByID(ctx, existing.ID)
			return err

		case errors.Is(err, store.ErrNotFound):
			// the email may still belong to a soft deleted account
			taken, err := tx.Users().ExistsByEmail(ctx, info.Email)
			if err != nil {
				return err
			}
			if taken {
				return accountDeleted(ctx, info.Email)
			}

			role, err := defaultRole(ctx, tx)
			if err != nil {
				return err
			}
			u = domain.User{
				BaseEntity:    domain.BaseEntity{ID: idx.NewString(), Created: now, Updated: now, Status: domain.StatusActive},
				Fullname:      info.Name,
				Avatar:        info.ImageURL,
				Email:         info.Email,
				EmailVerified: true,
				Provider:      domain.Provider(strings.ToUpper(registrationID)),
				ProviderID:    info.ID,
				LastVisit:     &now,
				Roles:         []domain.Role{role},
			}
			created = true
			if err := tx.Users().CreateUser(ctx, u); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					return accountDeleted(ctx, info.Email)
				}
				return err
			}
			return nil

		default:
			return err
		}
	})
	if err != nil {
		if errors.Is(err, ErrAccountDeleted) {
			s.Metrics.login(registrationID, "deleted")
		}
		return nil, err
	}

	l := slogx.FromContext(ctx)
	if created {
		l.Info("user registered", slog.String("user_id", u.ID), slog.String("provider", registrationID))
		s.Metrics.registered(string(u.Provider))
	}
	s.Metrics.login(registrationID, "ok")

	p := domain.NewPrincipal(&u)
	p.Attributes = attrs
	return p, nil
}

func accountDeleted(ctx context.Context, email string) error {
	slogx.FromContext(ctx).Warn("oauth2 login for a deleted account")
	return newError(KindForbidden, ErrAccountDeleted, i18nx.T(ctx, "auth.error.account.deleted", email))
}
