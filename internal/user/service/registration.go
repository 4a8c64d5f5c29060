package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/store"
	"github.com/hogwartsschoolofmagic/user/pkg/cryptox"
	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/hogwartsschoolofmagic/user/pkg/idx"
	"github.com/hogwartsschoolofmagic/user/pkg/slogx"
)

// RegistrationListener reacts to a freshly registered local account.
type RegistrationListener interface {
	OnRegistrationComplete(ctx context.Context, u domain.User) error
}

// VerificationMailer is the RegistrationListener that creates the user's
// verification token and mails the confirmation link.
type VerificationMailer struct {
	Store store.Store
	Mail  *MailService
	Now   func() time.Time
}

func (l *VerificationMailer) OnRegistrationComplete(ctx context.Context, u domain.User) error {
	now := nowOr(l.Now)
	tok := domain.VerificationToken{
		BaseEntity: domain.BaseEntity{ID: idx.NewString(), Created: now, Updated: now, Status: domain.StatusActive},
		Value:      uuid.NewString(),
		ExpiryDate: now.Add(domain.VerificationTokenTTL),
		UserID:     u.ID,
	}
	if err := l.Store.VerificationTokens().CreateVerificationToken(ctx, tok); err != nil {
		return err
	}
	return l.Mail.SendVerificationMessage(ctx, u.Email, tok.Value)
}

// ConfirmResult is the outcome of a confirmation. ExpiredToken is set, and
// nothing changed, when the token was found but has expired.
type ConfirmResult struct {
	Message      string
	ExpiredToken string
}

// Register creates a local account and fires the registration listener.
// A mail failure is returned after the account is stored.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate the request body
	if fields := ValidateRegister(ctx, in); len(fields) > 0 {
		e := newError(KindValidation, ErrValidation, ErrValidation.Error())
		e.Fields = fields
		return domain.User{}, e
	}

	// 2. Hash outside the transaction, argon2 is slow
	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now()
	u := domain.User{
		BaseEntity:    domain.BaseEntity{ID: idx.NewString(), Created: now, Updated: now, Status: domain.StatusActive},
		Fullname:      in.Name,
		Email:         in.Email,
		EmailVerified: false,
		Provider:      domain.ProviderLocal,
		PasswordHash:  hash,
	}

	// 3. Store the account with the default role
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		exists, err := tx.Users().ExistsByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if exists {
			return newError(KindAlreadyExists, ErrUserExists, i18nx.T(ctx, "user.error.exist.email", in.Email))
		}

		role, err := defaultRole(ctx, tx)
		if err != nil {
			return err
		}
		u.Roles = []domain.Role{role}

		if err := tx.Users().CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return newError(KindAlreadyExists, ErrUserExists, i18nx.T(ctx, "user.error.exist.email", in.Email))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	l.Info("user registered", slog.String("user_id", u.ID))
	s.Metrics.registered(string(domain.ProviderLocal))

	// 4. Registration complete event
	if s.Listener != nil {
		if err := s.Listener.OnRegistrationComplete(ctx, u); err != nil {
			return u, err
		}
	}
	return u, nil
}

// ConfirmRegistration verifies the email address owning token.
func (s *AuthService) ConfirmRegistration(ctx context.Context, token string) (ConfirmResult, error) {
	tok, err := s.verificationToken(ctx, token)
	if err != nil {
		return ConfirmResult{}, err
	}

	if tok.Expired(s.now()) {
		s.Metrics.confirmation("expired")
		return ConfirmResult{ExpiredToken: tok.Value}, nil
	}

	if err := s.Store.Users().MarkEmailVerified(ctx, tok.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ConfirmResult{}, newError(KindNotFound, err, i18nx.T(ctx, "user.error.not.found"))
		}
		return ConfirmResult{}, err
	}

	slogx.FromContext(ctx).Info("email confirmed", slog.String("user_id", tok.UserID))
	s.Metrics.confirmation("ok")
	return ConfirmResult{Message: i18nx.T(ctx, "registration.confirmation.successfully")}, nil
}

// ResendRegistrationToken replaces oldToken with a fresh value and expiry and
// mails the new confirmation link.
func (s *AuthService) ResendRegistrationToken(ctx context.Context, oldToken string) (string, error) {
	tok, err := s.verificationToken(ctx, oldToken)
	if err != nil {
		return "", err
	}

	value := uuid.NewString()
	expiry := s.now().Add(domain.VerificationTokenTTL)
	if err := s.Store.VerificationTokens().UpdateVerificationToken(ctx, tok.ID, value, expiry); err != nil {
		return "", err
	}

	u, err := s.Store.Users().GetUserByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", newError(KindNotFound, err, i18nx.T(ctx, "user.error.not.found"))
		}
		return "", err
	}

	if err := s.Mail.SendVerificationMessage(ctx, u.Email, value); err != nil {
		return "", err
	}
	return i18nx.T(ctx, "registration.confirmation.getting.new.token"), nil
}

func (s *AuthService) verificationToken(ctx context.Context, value string) (domain.VerificationToken, error) {
	tok, err := s.Store.VerificationTokens().GetVerificationTokenByValue(ctx, value)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return tok, newError(KindNotFound, ErrTokenNotFound, i18nx.T(ctx, "token.error.not.found.by.token", value))
		}
		return tok, err
	}
	return tok, nil
}

// defaultRole loads ROLE_USER, a missing role is a not-found failure.
func defaultRole(ctx context.Context, s store.Store) (domain.Role, error) {
	role, err := s.Roles().GetRoleByName(ctx, domain.RoleUser)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return role, newError(KindNotFound, ErrRoleNotFound, i18nx.T(ctx, "role.error.not.found.by.name", domain.RoleUser))
		}
		return role, err
	}
	return role, nil
}

func nowOr(now func() time.Time) time.Time {
	if now != nil {
		return now().UTC()
	}
	return time.Now().UTC()
}
