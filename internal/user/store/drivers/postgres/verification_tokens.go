package postgres

import (
	"context"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"

	"gorm.io/gorm"
)

type verificationTokensRepo struct {
	db *gorm.DB
}

func (r *verificationTokensRepo) CreateVerificationToken(ctx context.Context, t domain.VerificationToken) error {
	return mapErr(r.db.WithContext(ctx).Create(&verificationTokenModel{
		ID:         t.ID,
		Created:    orNow(t.Created),
		Updated:    orNow(t.Updated),
		Status:     statusOrActive(t.Status),
		Value:      t.Value,
		ExpiryDate: t.ExpiryDate,
		UserID:     t.UserID,
	}).Error)
}

func (r *verificationTokensRepo) get(ctx context.Context, query string, arg any) (domain.VerificationToken, error) {
	var m verificationTokenModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		return domain.VerificationToken{}, mapErr(err)
	}
	return m.toDomain(), nil
}

func (r *verificationTokensRepo) GetVerificationTokenByValue(
	ctx context.Context,
	value string,
) (domain.VerificationToken, error) {
	return r.get(ctx, "value = ?", value)
}

func (r *verificationTokensRepo) GetVerificationTokenByUserID(
	ctx context.Context,
	userID string,
) (domain.VerificationToken, error) {
	return r.get(ctx, "user_id = ?", userID)
}

func (r *verificationTokensRepo) UpdateVerificationToken(
	ctx context.Context,
	id, value string,
	expiry time.Time,
) error {
	return mapUpdate(r.db.WithContext(ctx).
		Model(&verificationTokenModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"value":       value,
			"expiry_date": expiry,
			"updated":     time.Now().UTC(),
		}))
}
