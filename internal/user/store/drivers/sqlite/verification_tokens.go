package sqlite

import (
	"context"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/store/drivers/sqlite/gen"
)

type verificationTokensRepo struct {
	q *gen.Queries
}

func (r *verificationTokensRepo) CreateVerificationToken(ctx context.Context, t domain.VerificationToken) error {
	return mapWriteErr(r.q.CreateVerificationToken(ctx, gen.CreateVerificationTokenParams{
		ID:         t.ID,
		Created:    orNow(t.Created),
		Updated:    orNow(t.Updated),
		Status:     statusOrActive(t.Status),
		Value:      t.Value,
		ExpiryDate: t.ExpiryDate,
		UserID:     t.UserID,
	}))
}

func (r *verificationTokensRepo) GetVerificationTokenByValue(
	ctx context.Context,
	value string,
) (domain.VerificationToken, error) {
	row, err := r.q.GetVerificationTokenByValue(ctx, value)
	if err != nil {
		return domain.VerificationToken{}, mapNotFound(err)
	}
	return mapVerificationToken(row), nil
}

func (r *verificationTokensRepo) GetVerificationTokenByUserID(
	ctx context.Context,
	userID string,
) (domain.VerificationToken, error) {
	row, err := r.q.GetVerificationTokenByUserID(ctx, userID)
	if err != nil {
		return domain.VerificationToken{}, mapNotFound(err)
	}
	return mapVerificationToken(row), nil
}

func (r *verificationTokensRepo) UpdateVerificationToken(
	ctx context.Context,
	id, value string,
	expiry time.Time,
) error {
	n, err := r.q.UpdateVerificationToken(ctx, gen.UpdateVerificationTokenParams{
		Value:      value,
		ExpiryDate: expiry,
		Updated:    time.Now().UTC(),
		ID:         id,
	})
	return mapAffected(n, mapWriteErr(err))
}
