package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/store"
	"github.com/hogwartsschoolofmagic/user/pkg/i18nx"
	"github.com/hogwartsschoolofmagic/user/pkg/idx"
	"golang.org/x/text/language"
)

// SettingInput is the name and value of a setting to store.
type SettingInput struct {
	Name  string
	Value string
}

// SettingResult is a stored setting. Locale is set when the setting is the
// locale setting and its value names a supported locale.
type SettingResult struct {
	Setting domain.UserSetting
	Locale  *language.Tag
}

type SettingsService struct {
	Store   store.Store
	Locales *i18nx.Bundle
}

func (s *SettingsService) List(ctx context.Context, u *domain.User) ([]domain.UserSetting, error) {
	return s.Store.Settings().ListSettingsByUser(ctx, u.ID)
}

// Create attaches a new setting to u. Names are not deduplicated.
func (s *SettingsService) Create(ctx context.Context, u *domain.User, in SettingInput) (SettingResult, error) {
	if strings.TrimSpace(in.Name) == "" {
		return SettingResult{}, newError(KindBadRequest, ErrInvalidSetting, i18nx.T(ctx, "errors.invalid.setting"))
	}

	now := nowOr(nil)
	setting := domain.UserSetting{
		BaseEntity: domain.BaseEntity{ID: idx.NewString(), Created: now, Updated: now, Status: domain.StatusActive},
		Name:       in.Name,
		Value:      in.Value,
		UserID:     u.ID,
	}
	if err := s.Store.Settings().CreateSetting(ctx, setting); err != nil {
		return SettingResult{}, err
	}
	return s.result(setting), nil
}

// Update overwrites the value of setting id. Settings of other users are
// reported as not found.
func (s *SettingsService) Update(ctx context.Context, u *domain.User, id string, in SettingInput) (SettingResult, error) {
	notFound := func(err error) error {
		return newError(KindNotFound, errors.Join(ErrSettingNotFound, err), i18nx.T(ctx, "setting.error.not.found", id))
	}

	setting, err := s.Store.Settings().GetSettingByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return SettingResult{}, notFound(err)
		}
		return SettingResult{}, err
	}
	if setting.UserID != u.ID {
		return SettingResult{}, notFound(nil)
	}

	if err := s.Store.Settings().UpdateSettingValue(ctx, id, in.Value); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return SettingResult{}, notFound(err)
		}
		return SettingResult{}, err
	}
	setting.Value = in.Value
	return s.result(setting), nil
}

func (s *SettingsService) result(setting domain.UserSetting) SettingResult {
	res := SettingResult{Setting: setting}
	if setting.Name != domain.LocaleSettingName {
		return res
	}

	locales := s.Locales
	if locales == nil {
		locales = i18nx.Default()
	}
	if tag, ok := locales.Parse(setting.Value); ok {
		res.Locale = &tag
	}
	return res
}
