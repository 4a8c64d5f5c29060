package sqlite

import (
	"context"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/store/drivers/sqlite/gen"
)

type rolesRepo struct {
	q *gen.Queries
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	row, err := r.q.GetRoleByName(ctx, name)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return r.withPrivileges(ctx, row)
}

func (r *rolesRepo) ListRolesForUser(ctx context.Context, userID string) ([]domain.Role, error) {
	rows, err := r.q.ListRolesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.withPrivilegesAll(ctx, rows)
}

func (r *rolesRepo) ListAll(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.q.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	return r.withPrivilegesAll(ctx, rows)
}

func (r *rolesRepo) withPrivileges(ctx context.Context, row gen.Role) (domain.Role, error) {
	privs, err := r.q.ListPrivilegesForRole(ctx, row.ID)
	if err != nil {
		return domain.Role{}, err
	}
	return mapRole(row, privs), nil
}

func (r *rolesRepo) withPrivilegesAll(ctx context.Context, rows []gen.Role) ([]domain.Role, error) {
	roles := make([]domain.Role, 0, len(rows))
	for _, row := range rows {
		role, err := r.withPrivileges(ctx, row)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}
