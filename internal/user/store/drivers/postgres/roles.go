package postgres

import (
	"context"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"

	"gorm.io/gorm"
)

type rolesRepo struct {
	db *gorm.DB
}

func withPrivileges(db *gorm.DB) *gorm.DB {
	return db.Preload("Privileges", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("privileges.status = ?", active).Order("privileges.name")
	})
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	var m roleModel
	err := withPrivileges(r.db.WithContext(ctx)).
		Where("name = ? AND status = ?", name, active).
		First(&m).Error
	if err != nil {
		return domain.Role{}, mapErr(err)
	}
	return m.toDomain(), nil
}

func (r *rolesRepo) ListRolesForUser(ctx context.Context, userID string) ([]domain.Role, error) {
	var rows []roleModel
	err := withPrivileges(r.db.WithContext(ctx)).
		Joins("JOIN users_roles ur ON ur.role_id = roles.id").
		Where("ur.user_id = ? AND roles.status = ?", userID, active).
		Order("roles.name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toRoles(rows), nil
}

func (r *rolesRepo) ListAll(ctx context.Context) ([]domain.Role, error) {
	var rows []roleModel
	err := withPrivileges(r.db.WithContext(ctx)).
		Where("status = ?", active).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toRoles(rows), nil
}

func toRoles(rows []roleModel) []domain.Role {
	roles := make([]domain.Role, len(rows))
	for i, m := range rows {
		roles[i] = m.toDomain()
	}
	return roles
}
