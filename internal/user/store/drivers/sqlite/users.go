package sqlite

import (
	"context"
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
	"github.com/hogwartsschoolofmagic/user/internal/user/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return r.withRoles(ctx, row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return r.withRoles(ctx, row)
}

func (r *usersRepo) withRoles(ctx context.Context, row gen.User) (domain.User, error) {
	u := mapUser(row)
	roles, err := (&rolesRepo{q: r.q}).ListRolesForUser(ctx, u.ID)
	if err != nil {
		return domain.User{}, err
	}
	u.Roles = roles
	return u, nil
}

func (r *usersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.q.CountUsersByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	err := r.q.CreateUser(ctx, gen.CreateUserParams{
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
		LastVisit:     mapOptionalTime(u.LastVisit),
		PasswordHash:  u.PasswordHash,
	})
	if err != nil {
		return mapWriteErr(err)
	}

	for _, role := range u.Roles {
		if err := r.q.AddUserRole(ctx, gen.AddUserRoleParams{UserID: u.ID, RoleID: role.ID}); err != nil {
			return mapWriteErr(err)
		}
	}
	return nil
}

func (r *usersRepo) UpdateProfile(
	ctx context.Context,
	userID, fullname, avatar string,
	lastVisit time.Time,
) error {
	return mapAffected(r.q.UpdateUserProfile(ctx, gen.UpdateUserProfileParams{
		Fullname:  fullname,
		Avatar:    avatar,
		LastVisit: mapOptionalTime(&lastVisit),
		Updated:   time.Now().UTC(),
		ID:        userID,
	}))
}

func (r *usersRepo) UpdateLastVisit(ctx context.Context, userID string, lastVisit time.Time) error {
	return mapAffected(r.q.UpdateUserLastVisit(ctx, gen.UpdateUserLastVisitParams{
		LastVisit: mapOptionalTime(&lastVisit),
		Updated:   time.Now().UTC(),
		ID:        userID,
	}))
}

func (r *usersRepo) MarkEmailVerified(ctx context.Context, userID string) error {
	return mapAffected(r.q.MarkUserEmailVerified(ctx, gen.MarkUserEmailVerifiedParams{
		Updated: time.Now().UTC(),
		ID:      userID,
	}))
}

func (r *usersRepo) Count(ctx context.Context) (int64, error) {
	return r.q.CountUsers(ctx)
}
