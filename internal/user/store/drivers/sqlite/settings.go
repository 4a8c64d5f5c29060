package sqlite

import (
	"context"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/store/drivers/sqlite/gen"
)

type settingsRepo struct {
	q *gen.Queries
}

func (r *settingsRepo) ListSettingsByUser(ctx context.Context, userID string) ([]domain.UserSetting, error) {
	rows, err := r.q.ListSettingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings := make([]domain.UserSetting, len(rows))
	for i, row := range rows {
		settings[i] = mapSetting(row)
	}
	return settings, nil
}

func (r *settingsRepo) GetSettingByID(ctx context.Context, id string) (domain.UserSetting, error) {
	row, err := r.q.GetSettingByID(ctx, id)
	if err != nil {
		return domain.UserSetting{}, mapNotFound(err)
	}
	return mapSetting(row), nil
}

func (r *settingsRepo) CreateSetting(ctx context.Context, s domain.UserSetting) error {
	return mapWriteErr(r.q.CreateSetting(ctx, gen.CreateSettingParams{
		ID:      s.ID,
		Created: orNow(s.Created),
		Updated: orNow(s.Updated),
		Status:  statusOrActive(s.Status),
		Name:    s.Name,
		Value:   s.Value,
		UserID:  s.UserID,
	}))
}

func (r *settingsRepo) UpdateSettingValue(ctx context.Context, id, value string) error {
	return mapAffected(r.q.UpdateSettingValue(ctx, gen.UpdateSettingValueParams{
		Value:   value,
		Updated: time.Now().UTC(),
		ID:      id,
	}))
}
