package postgres

import (
	"context"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type usersRepo struct {
	db *gorm.DB
}

// withRoles preloads active roles and their active privileges, both by name.
func withRoles(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Roles", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("roles.status = ?", active).Order("roles.name")
		}).
		Preload("Roles.Privileges", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("privileges.status = ?", active).Order("privileges.name")
		})
}

func (r *usersRepo) get(ctx context.Context, query string, arg any) (domain.User, error) {
	var m userModel
	err := withRoles(r.db.WithContext(ctx)).
		Where(query, arg).
		Where("status = ?", active).
		First(&m).Error
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return m.toDomain(), nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.get(ctx, "email = ?", email)
}

func (r *usersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	m := userModel{
		ID:            u.ID,
		Created:       orNow(u.Created),
		Updated:       orNow(u.Updated),
		Status:        statusOrActive(u.Status),
		Fullname:      u.Fullname,
		Avatar:        u.Avatar,
		Username:      u.Username,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Provider:      string(u.Provider),
		ProviderID:    u.ProviderID,
		LastVisit:     u.LastVisit,
		PasswordHash:  u.PasswordHash,
	}

	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(&m).Error; err != nil {
		return mapErr(err)
	}

	for _, role := range u.Roles {
		if err := db.Create(&userRoleModel{UserID: u.ID, RoleID: role.ID}).Error; err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func (r *usersRepo) update(ctx context.Context, userID string, fields map[string]any) error {
	fields["updated"] = time.Now().UTC()
	return mapUpdate(r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", userID).Updates(fields))
}

func (r *usersRepo) UpdateProfile(
	ctx context.Context,
	userID, fullname, avatar string,
	lastVisit time.Time,
) error {
	return r.update(ctx, userID, map[string]any{
		"fullname":   fullname,
		"avatar":     avatar,
		"last_visit": lastVisit,
	})
}

func (r *usersRepo) UpdateLastVisit(ctx context.Context, userID string, lastVisit time.Time) error {
	return r.update(ctx, userID, map[string]any{"last_visit": lastVisit})
}

func (r *usersRepo) MarkEmailVerified(ctx context.Context, userID string) error {
	return r.update(ctx, userID, map[string]any{"email_verified": true})
}

func (r *usersRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Count(&n).Error
	return n, err
}
