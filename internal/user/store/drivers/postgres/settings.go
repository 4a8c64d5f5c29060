package postgres

import (
	"context"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"

	"gorm.io/gorm"
)

type settingsRepo struct {
	db *gorm.DB
}

func (r *settingsRepo) ListSettingsByUser(ctx context.Context, userID string) ([]domain.UserSetting, error) {
	var rows []userSettingModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, active).
		Order("created, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	settings := make([]domain.UserSetting, len(rows))
	for i, m := range rows {
		settings[i] = m.toDomain()
	}
	return settings, nil
}

func (r *settingsRepo) GetSettingByID(ctx context.Context, id string) (domain.UserSetting, error) {
	var m userSettingModel
	if err := r.db.WithContext(ctx).Where("id = ? AND status = ?", id, active).First(&m).Error; err != nil {
		return domain.UserSetting{}, mapErr(err)
	}
	return m.toDomain(), nil
}

func (r *settingsRepo) CreateSetting(ctx context.Context, s domain.UserSetting) error {
	return mapErr(r.db.WithContext(ctx).Create(&userSettingModel{
		ID:      s.ID,
		Created: orNow(s.Created),
		Updated: orNow(s.Updated),
		Status:  statusOrActive(s.Status),
		Name:    s.Name,
		Value:   s.Value,
		UserID:  s.UserID,
	}).Error)
}

func (r *settingsRepo) UpdateSettingValue(ctx context.Context, id, value string) error {
	return mapUpdate(r.db.WithContext(ctx).
		Model(&userSettingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"value": value, "updated": time.Now().UTC()}))
}
