package domain

// Role names.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// Privilege names.
const (
	PrivilegeUserRead     = "USER_READ"
	PrivilegeUserWrite    = "USER_WRITE"
	PrivilegeSettingRead  = "SETTING_READ"
	PrivilegeSettingWrite = "SETTING_WRITE"
)

// Permissions checked against privileges by the permission evaluator.
const (
	PermissionRead  = "READ"
	PermissionWrite = "WRITE"
)

type Role struct {
	BaseEntity
	Name       string
	Privileges []Privilege
}

type Privilege struct {
	BaseEntity
	Name string
}

// DefaultRoles is the role to privilege mapping seeded on a fresh database.
var DefaultRoles = map[string][]string{
	RoleUser:  {PrivilegeUserRead, PrivilegeSettingRead, PrivilegeSettingWrite},
	RoleAdmin: {PrivilegeUserRead, PrivilegeUserWrite, PrivilegeSettingRead, PrivilegeSettingWrite},
}
