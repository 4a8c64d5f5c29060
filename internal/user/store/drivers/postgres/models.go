package postgres

import (
	"time"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
)

// Row models. Column names follow gorm's snake_case naming, timestamps are
// set by the repositories so no autoCreateTime/autoUpdateTime is involved.

type userModel struct {
	ID            string `gorm:"primaryKey"`
	Created       time.Time
	Updated       time.Time
	Status        string
	Fullname      string
	Avatar        string
	Username      string
	Email         string
	EmailVerified bool
	Provider      string
	ProviderID    string
	LastVisit     *time.Time
	PasswordHash  string
	Roles         []roleModel `gorm:"many2many:users_roles;joinForeignKey:UserID;joinReferences:RoleID"`
}

func (userModel) TableName() string { return "users" }

type roleModel struct {
	ID         string `gorm:"primaryKey"`
	Created    time.Time
	Updated    time.Time
	Status     string
	Name       string
	Privileges []privilegeModel `gorm:"many2many:roles_privileges;joinForeignKey:RoleID;joinReferences:PrivilegeID"`
}

func (roleModel) TableName() string { return "roles" }

type privilegeModel struct {
	ID      string `gorm:"primaryKey"`
	Created time.Time
	Updated time.Time
	Status  string
	Name    string
}

func (privilegeModel) TableName() string { return "privileges" }

type userRoleModel struct {
	UserID string `gorm:"primaryKey"`
	RoleID string `gorm:"primaryKey"`
}

func (userRoleModel) TableName() string { return "users_roles" }

type verificationTokenModel struct {
	ID         string `gorm:"primaryKey"`
	Created    time.Time
	Updated    time.Time
	Status     string
	Value      string
	ExpiryDate time.Time
	UserID     string
}

func (verificationTokenModel) TableName() string { return "verification_tokens" }

type userSettingModel struct {
	ID      string `gorm:"primaryKey"`
	Created time.Time
	Updated time.Time
	Status  string
	Name    string
	Value   string
	UserID  string
}

func (userSettingModel) TableName() string { return "user_settings" }

func base(id string, created, updated time.Time, status string) domain.BaseEntity {
	return domain.BaseEntity{ID: id, Created: created, Updated: updated, Status: domain.Status(status)}
}

func (m userModel) toDomain() domain.User {
	u := domain.User{
		BaseEntity:    base(m.ID, m.Created, m.Updated, m.Status),
		Fullname:      m.Fullname,
		Avatar:        m.Avatar,
		Username:      m.Username,
		Email:         m.Email,
		EmailVerified: m.EmailVerified,
		Provider:      domain.Provider(m.Provider),
		ProviderID:    m.ProviderID,
		LastVisit:     m.LastVisit,
		PasswordHash:  m.PasswordHash,
	}
	for _, r := range m.Roles {
		u.Roles = append(u.Roles, r.toDomain())
	}
	return u
}

func (m roleModel) toDomain() domain.Role {
	r := domain.Role{
		BaseEntity: base(m.ID, m.Created, m.Updated, m.Status),
		Name:       m.Name,
	}
	for _, p := range m.Privileges {
		r.Privileges = append(r.Privileges, domain.Privilege{
			BaseEntity: base(p.ID, p.Created, p.Updated, p.Status),
			Name:       p.Name,
		})
	}
	return r
}

func (m verificationTokenModel) toDomain() domain.VerificationToken {
	return domain.VerificationToken{
		BaseEntity: base(m.ID, m.Created, m.Updated, m.Status),
		Value:      m.Value,
		ExpiryDate: m.ExpiryDate,
		UserID:     m.UserID,
	}
}

func (m userSettingModel) toDomain() domain.UserSetting {
	return domain.UserSetting{
		BaseEntity: base(m.ID, m.Created, m.Updated, m.Status),
		Name:       m.Name,
		Value:      m.Value,
		UserID:     m.UserID,
	}
}
